package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/semdemo/logging"
	"github.com/xmidt-org/semdemo/threadcoord"
	"go.uber.org/zap/zapcore"
)

func TestNewFlagSet(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		f = newFlagSet()
	)

	require.NoError(f.Parse([]string{"--pauses", "1,2"}))

	labels, err := f.GetStringSlice("labels")
	assert.NoError(err)
	assert.Equal(threadcoord.DefaultLabels, labels)

	pauses, err := f.GetIntSlice("pauses")
	assert.NoError(err)
	assert.Equal([]int{1, 2}, pauses)

	iterations, err := f.GetInt("iterations")
	assert.NoError(err)
	assert.Equal(threadcoord.DefaultIterations, iterations)
}

// writeConfig writes a YAML configuration file and returns its path
func writeConfig(t *testing.T, document string) string {
	path := filepath.Join(t.TempDir(), "threadsema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(document), 0o600))
	return path
}

func TestThreadsemaUsage(t *testing.T) {
	for _, arguments := range [][]string{
		{"--nosuchflag"},
		{"--iterations", "many"},
		{"--file", "/nonexistent/threadsema.yaml"},
		{"--file", writeConfig(t, "log:\n  file: /dev/stdout\n")},
	} {
		assert.Equal(t, exitUsage, threadsema(arguments), "arguments %v", arguments)
	}
}

func TestFinish(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		logger, logs := logging.NewCaptureLogger(zapcore.DebugLevel)
		assert.Equal(t, exitSuccess, finish(logger, nil))
		assert.Zero(t, logs.Len())
	})

	t.Run("WorkerFailure", func(t *testing.T) {
		var (
			assert = assert.New(t)

			logger, logs = logging.NewCaptureLogger(zapcore.DebugLevel)
		)

		assert.Equal(exitSuccess, finish(logger, errors.New("expected")))
		failed := logs.FilterMessage("run failed").All()
		if assert.Len(failed, 1) {
			assert.Equal("expected", failed[0].ContextMap()["error"])
		}
	})
}
