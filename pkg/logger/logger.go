// Package logger builds the zap loggers used by shareit processes.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a logger for the given environment. Development gets a console
// encoder at debug level, everything else JSON at info level.
func New(env string) (*zap.Logger, error) {
	return NewWithLevel(env, "")
}

// NewWithLevel is New with an explicit level override ("debug", "warn", ...).
func NewWithLevel(env, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if level = strings.TrimSpace(level); level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	return cfg.Build()
}

// NewNamed creates a logger tagged with the service name.
func NewNamed(env, service string) (*zap.Logger, error) {
	return NewNamedWithLevel(env, service, "")
}

// NewNamedWithLevel creates a named logger with an explicit level override.
func NewNamedWithLevel(env, service, level string) (*zap.Logger, error) {
	log, err := NewWithLevel(env, level)
	if err != nil {
		return nil, err
	}
	return log.Named(service).With(zap.String("service", service)), nil
}
