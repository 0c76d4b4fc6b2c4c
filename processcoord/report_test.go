package processcoord

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/semdemo/xerrors"
)

func testNewReportSuccess(t *testing.T) {
	assert := assert.New(t)
	r := NewReport(DefaultPeers[1], 8, nil)
	assert.Equal(Report{Peer: 1, Printed: 8}, r)
}

func testNewReportFailure(t *testing.T) {
	assert := assert.New(t)
	r := NewReport(DefaultPeers[1], 3, xerrors.New(xerrors.OpRelease, 1, errors.New("EIDRM")))
	assert.Equal(1, r.Peer)
	assert.Equal(3, r.Printed)
	assert.Equal("release", r.Op)
	assert.Equal("peer 1: release: EIDRM", r.Message)
	assert.Equal(16, r.ExitCode)
}

func testReportTransfer(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		expected = Report{Peer: 1, Printed: 2, Op: "acquire", Message: "peer 1: acquire: EINTR", ExitCode: 15}
		b        bytes.Buffer
	)

	require.NoError(WriteReport(&b, expected))
	actual, err := ReadReport(&b)
	require.NoError(err)
	require.NotNil(actual)
	assert.Equal(expected, *actual)
}

func testReadReportEmpty(t *testing.T) {
	assert := assert.New(t)
	r, err := ReadReport(new(bytes.Buffer))
	assert.Nil(r)
	assert.NoError(err)
}

func testReadReportCorrupt(t *testing.T) {
	assert := assert.New(t)
	r, err := ReadReport(bytes.NewReader([]byte{0xc1}))
	assert.Nil(r)
	assert.Error(err)
}

func TestReport(t *testing.T) {
	t.Run("NewReport", func(t *testing.T) {
		t.Run("Success", testNewReportSuccess)
		t.Run("Failure", testNewReportFailure)
	})

	t.Run("Transfer", testReportTransfer)
	t.Run("ReadEmpty", testReadReportEmpty)
	t.Run("ReadCorrupt", testReadReportCorrupt)
}
