// Package logging builds the zap logger shared by the server, the CLI and
// the outbound HTTP clients.
package logging

import (
	"fmt"

	"github.com/ankek/textdiagram/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger for cfg. JSON output uses zap's production encoder and
// console output its development encoder.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var zc zap.Config
	switch cfg.Format {
	case config.FormatConsole:
		zc = zap.NewDevelopmentConfig()
	case config.FormatJSON, "":
		zc = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// LeveledLogger adapts zap to the leveled logger interface used by
// go-retryablehttp.
type LeveledLogger struct {
	s *zap.SugaredLogger
}

// NewLeveledLogger wraps l; a nil l discards everything.
func NewLeveledLogger(l *zap.Logger) LeveledLogger {
	return LeveledLogger{s: OrNop(l).Sugar()}
}

func (l LeveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, keysAndValues...)
}

func (l LeveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Infow(msg, keysAndValues...)
}

func (l LeveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l LeveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.s.Warnw(msg, keysAndValues...)
}
