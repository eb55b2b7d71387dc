package logger

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

var root = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configures the process-wide logger. Level comes from LOG_LEVEL
// (default info); the service name is stamped on every line.
func Init(serviceName string) {
	level := zerolog.InfoLevel
	if raw, ok := os.LookupEnv("LOG_LEVEL"); ok {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(raw)); err == nil {
			level = parsed
		}
	}
	root = zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// L returns the root logger.
func L() *zerolog.Logger {
	return &root
}

// Ctx returns a logger bound to the trace of the given context, so log lines
// can be correlated with spans in Jaeger.
func Ctx(ctx context.Context) *zerolog.Logger {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return &root
	}
	bound := root.With().Str("trace_id", spanCtx.TraceID().String()).Logger()
	return &bound
}
