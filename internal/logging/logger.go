// Package logging defines the structured-logging interface used across the
// client and its slog-backed implementation.
package logging

import "context"

// Logger writes leveled, structured records. Every call takes the request
// context; args are alternating keys and values:
//
//	log.Info(ctx, "submitted", "item", itemID, "mode", mode)
type Logger interface {
	// Debug is for request-level detail and is off by default.
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	// Warn marks conditions the client recovers from, such as a failed cache write.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that adds args to every record.
	With(args ...any) Logger
}
