// Package logging builds the process-wide hclog logger.
package logging

import (
	"context"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"

	"designator/internal/config"
)

// New returns a logger writing to stdout.
func New(name string, c config.LogConfig) hclog.Logger {
	return NewWithWriter(name, c, os.Stdout)
}

// NewWithWriter returns a logger writing to w. An unknown level falls back to info.
func NewWithWriter(name string, c config.LogConfig, w io.Writer) hclog.Logger {
	level := hclog.LevelFromString(c.Level)
	if level == hclog.NoLevel {
		level = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:            name,
		Level:           level,
		Output:          w,
		JSONFormat:      c.JSON,
		IncludeLocation: level <= hclog.Debug,
		TimeFormat:      "2006-01-02T15:04:05.000Z07:00",
	})
}

type requestIDKey struct{}

// WithRequestID returns a copy of ctx carrying the HTTP request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
