// Package logging configures the global zerolog logger and carries request
// scoped loggers through contexts.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// Setup sets the global level and output. DEV gets a coloured console writer,
// every other environment logs JSON.
func Setup(env, level string) error {
	return setup(os.Stderr, env, level)
}

func setup(out io.Writer, env, level string) error {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if env == "DEV" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()

	if level == "" {
		level = zerolog.InfoLevel.String()
	}
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || parsed == zerolog.NoLevel {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return fmt.Errorf("invalid LOG_LEVEL '%s'", level)
	}
	zerolog.SetGlobalLevel(parsed)
	return nil
}

// IntoContext attaches a request id and a logger carrying it.
func IntoContext(ctx context.Context, requestID string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	logger := log.With().Str("request_id", requestID).Logger()
	return logger.WithContext(ctx)
}

// FromContext returns the request logger, or the global logger when none was attached.
func FromContext(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l != zerolog.DefaultContextLogger && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}

func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
