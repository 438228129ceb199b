// Package log provides the structured logger used throughout the
// resolver. It wraps zap behind a small interface so call sites never
// import zap directly, and so tests can swap in a logger that records
// or discards entries instead of writing to stderr.
package log

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging interface every package in this module depends
// on. Fields are passed as a map rather than variadic key/value pairs
// to keep call sites uniform regardless of how many fields they log.
type Logger interface {
	Debug(fields map[string]any, msg string)
	Info(fields map[string]any, msg string)
	Warn(fields map[string]any, msg string)
	Error(fields map[string]any, msg string)
	Fatal(fields map[string]any, msg string)
}

var global Logger = newZapLogger(false, zapcore.InfoLevel)

// Configure rebuilds the global logger for the given environment
// ("dev" or "prod") and level name ("debug", "info", "warn", "error").
// env controls encoder choice: dev gets a human-readable colorized
// console encoder, anything else gets the production JSON encoder.
func Configure(env, level string) error {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("log: invalid level %q: %w", level, err)
	}
	global = newZapLogger(env == "dev", lvl)
	return nil
}

// SetLogger replaces the global logger. Tests use this to install a
// recording or no-op logger for the duration of a single test.
func SetLogger(l Logger) {
	global = l
}

// GetLogger returns the current global logger.
func GetLogger() Logger {
	return global
}

func Debug(fields map[string]any, msg string) { global.Debug(fields, msg) }
func Info(fields map[string]any, msg string)  { global.Info(fields, msg) }
func Warn(fields map[string]any, msg string)  { global.Warn(fields, msg) }
func Error(fields map[string]any, msg string) { global.Error(fields, msg) }
func Fatal(fields map[string]any, msg string) { global.Fatal(fields, msg) }

type zapLogger struct {
	base *zap.Logger
}

func newZapLogger(dev bool, level zapcore.Level) Logger {
	var cfg zap.Config
	if dev {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.LevelKey = "level"

	base, err := cfg.Build()
	if err != nil {
		// zap.Config.Build only fails on a malformed encoder/sink
		// configuration, which newZapLogger never produces.
		panic(fmt.Sprintf("log: failed to build logger: %v", err))
	}
	return &zapLogger{base: base}
}

func (l *zapLogger) Debug(fields map[string]any, msg string) { l.with(fields).Debug(msg) }
func (l *zapLogger) Info(fields map[string]any, msg string)  { l.with(fields).Info(msg) }
func (l *zapLogger) Warn(fields map[string]any, msg string)  { l.with(fields).Warn(msg) }
func (l *zapLogger) Error(fields map[string]any, msg string) { l.with(fields).Error(msg) }
func (l *zapLogger) Fatal(fields map[string]any, msg string) { l.with(fields).Fatal(msg) }

func (l *zapLogger) with(fields map[string]any) *zap.Logger {
	if len(fields) == 0 {
		return l.base
	}
	zf := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zf = append(zf, zap.Any(k, v))
	}
	return l.base.With(zf...)
}

// noopLogger discards everything. Used by tests and by CLI operations
// (--resolve) that should never emit log lines mixed into stdout output.
type noopLogger struct{}

// NewNoopLogger returns a Logger that discards all entries.
func NewNoopLogger() Logger { return noopLogger{} }

func (noopLogger) Debug(map[string]any, string) {}
func (noopLogger) Info(map[string]any, string)  {}
func (noopLogger) Warn(map[string]any, string)  {}
func (noopLogger) Error(map[string]any, string) {}
func (noopLogger) Fatal(map[string]any, string) {}
