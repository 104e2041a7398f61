// Package logging provides the leveled structured logger used across the
// client store, with adapters for zap, logrus and zerolog.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields is a minimal structured field map for logs.
type Fields map[string]any

// Logger is a tiny leveled logger. Provide an adapter around your logging stack.
type Logger interface {
	Debug(msg string, f Fields)
	Info(msg string, f Fields)
	Warn(msg string, f Fields)
	Error(msg string, f Fields)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, Fields) {}
func (NopLogger) Info(string, Fields)  {}
func (NopLogger) Warn(string, Fields)  {}
func (NopLogger) Error(string, Fields) {}

// Backend names accepted by New.
const (
	BackendZap     = "zap"
	BackendLogrus  = "logrus"
	BackendZerolog = "zerolog"
	BackendNop     = "nop"
)

// Level is one of debug, info, warn, error.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// ParseLevel accepts the level names case-insensitively. Empty means info.
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case "":
		return LevelInfo, nil
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return l, nil
	case "warning":
		return LevelWarn, nil
	default:
		return "", fmt.Errorf("logging: unknown level %q", s)
	}
}

// New builds a logger writing JSON lines to w (stderr when nil).
// The returned close func flushes buffered output.
func New(backend string, level Level, w io.Writer) (Logger, func() error, error) {
	if w == nil {
		w = os.Stderr
	}
	noop := func() error { return nil }

	switch backend {
	case "", BackendZap:
		zl, err := newZap(level, w)
		if err != nil {
			return nil, nil, err
		}
		return ZapLogger{L: zl}, zl.Sync, nil
	case BackendLogrus:
		l := logrus.New()
		l.SetOutput(w)
		l.SetFormatter(&logrus.JSONFormatter{})
		lvl, err := logrus.ParseLevel(string(level))
		if err != nil {
			return nil, nil, err
		}
		l.SetLevel(lvl)
		return LogrusLogger{E: logrus.NewEntry(l)}, noop, nil
	case BackendZerolog:
		lvl, err := zerolog.ParseLevel(string(level))
		if err != nil {
			return nil, nil, err
		}
		zl := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
		return ZerologLogger{L: zl}, noop, nil
	case BackendNop:
		return NopLogger{}, noop, nil
	default:
		return nil, nil, fmt.Errorf("logging: unknown backend %q", backend)
	}
}

func newZap(level Level, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(string(level))
	if err != nil {
		return nil, err
	}
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(enc, zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}
