package logging

import (
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLogger returns the logger used when none has been configured
func DefaultLogger() *zap.Logger {
	return sallust.Default()
}

// New creates a zap Logger from a set of options.  The options object can be nil, in which case
// a logger that writes errors to os.Stderr is returned.  Timestamps are ISO8601 and entries are
// filtered according to the Level field.
func New(o *Options) *zap.Logger {
	return zap.New(newCore(o), zap.AddCaller())
}

func newCore(o *Options) zapcore.Core {
	return zapcore.NewCore(o.encoder(), o.output(), o.level())
}
