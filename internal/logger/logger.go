package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It is a no-op logger until Init runs so
// packages can log from tests without any setup.
var Log = zap.NewNop()

var once sync.Once

// Init builds the development logger once. Later calls are ignored.
func Init() {
	once.Do(func() {
		if l, err := newLogger(zapcore.DebugLevel); err == nil {
			Log = l
		}
	})
}

// SetLevel rebuilds the logger at the given level ("debug", "info", "warn", "error").
func SetLevel(level string) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return err
	}
	l, err := newLogger(lvl)
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// Sync flushes buffered entries, ignoring the error stderr returns on some platforms.
func Sync() {
	_ = Log.Sync()
}

func newLogger(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	return cfg.Build()
}
