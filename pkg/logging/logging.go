// Package logging builds the zap loggers used by the command line tools.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing to sink. Only warnings and errors are
// logged unless verbose is set. Standard output carries IR and diagnostics,
// so callers pass os.Stderr.
func New(verbose bool, sink zapcore.WriteSyncer) *zap.Logger {
	al := zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		al.SetLevel(zap.DebugLevel)
	}
	ec := zap.NewDevelopmentEncoderConfig()
	return zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(sink), al))
}
