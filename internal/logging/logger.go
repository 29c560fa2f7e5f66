// Package logging defines the structured-logging interface used across the
// catalog client. Implementations wrap slog or zap.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "queue drained", "uploaded", n, "failed", m)
type Logger interface {
	// Debug logs verbose diagnostics (favorite matches, cache hits).
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Options selects and tunes a Logger implementation.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// File, when set, switches to the zap logger writing JSON lines to a
	// rotating file in addition to the console.
	File string
}

// New builds the logger described by opts.
func New(opts Options) (Logger, error) {
	if opts.File == "" {
		return NewTextLogger(opts.Level), nil
	}
	return NewZapLogger(opts)
}
