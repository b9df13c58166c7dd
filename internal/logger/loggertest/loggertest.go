// Package loggertest provides loggers that write through a running test.
package loggertest

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/atlaserp/atlas/internal/logger"
)

// New returns a debug-level logger that writes through tb.
func New(tb testing.TB) logger.Logger {
	tb.Helper()
	return zaptest.NewLogger(tb, zaptest.Level(zapcore.DebugLevel)).Sugar()
}

// NewObserved returns a test logger and the observed entries at or above lvl.
func NewObserved(tb testing.TB, lvl zapcore.Level) (logger.Logger, *observer.ObservedLogs) {
	tb.Helper()
	core, logs := observer.New(lvl)
	observe := zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, core)
	})
	return zaptest.NewLogger(tb, zaptest.WrapOptions(observe)).Sugar(), logs
}
