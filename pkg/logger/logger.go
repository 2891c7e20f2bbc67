package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap sugared logger with the formatting helpers used
// throughout the codebase.
type Logger struct {
	*zap.SugaredLogger
}

// New creates a logger at the given level ("debug", "info", "warn", "error").
// Unknown levels fall back to info.
func New(level string) *Logger {
	lvl := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(level); err == nil {
		lvl = parsed
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Fall back to a no-op logger rather than failing startup.
		return &Logger{zap.NewNop().Sugar()}
	}
	return &Logger{l.Sugar()}
}

// NewDefault creates a logger with the default (info) level.
func NewDefault() *Logger {
	return New("info")
}

// With returns a child logger with the given structured context.
func (l *Logger) With(args ...interface{}) *Logger {
	return &Logger{l.SugaredLogger.With(args...)}
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.SugaredLogger.Sync()
}
