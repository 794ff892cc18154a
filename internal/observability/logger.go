// Package observability wires the structured-logging and distributed
// tracing conventions every engine boundary uses: a shared *zap.Logger
// paired with an otel.Tracer.
package observability

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process-wide zap logger. "prod" and "production"
// get the JSON production config; any other environment uses the
// human-readable console encoder.
func NewLogger(environment string) (*zap.Logger, error) {
	var cfg zap.Config
	switch environment {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.OutputPaths = []string{"stdout"}
	return cfg.Build()
}

// MustLogger builds a logger or falls back to zap.NewNop so a failure to
// configure logging never blocks a CLI invocation from running.
func MustLogger(environment string) *zap.Logger {
	logger, err := NewLogger(environment)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// GetEnv reads an environment variable, falling back to a default when
// unset or empty.
func GetEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
