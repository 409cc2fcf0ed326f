// Package logging defines the structured-logging interface used by the
// wanderlog client. The default implementation wraps log/slog.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Warn(ctx, "cache write failed", "collection", "visited", "err", err)
type Logger interface {
	// Debug logs diagnostic details (debounce scheduling, skipped loads).
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a degraded but non-fatal condition.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs a failure that the caller has already absorbed.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
