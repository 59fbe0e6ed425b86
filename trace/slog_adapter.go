package trace

import (
	"context"
	"encoding/hex"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger at Debug level.
// Useful with --verbose to see the raw bytes on the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.Int("size", event.Size),
	}
	if len(event.Data) > 0 {
		attrs = append(attrs, slog.String("data", hex.EncodeToString(event.Data)))
	}
	if event.Truncated {
		attrs = append(attrs, slog.Bool("truncated", true))
	}

	level := slog.LevelDebug
	if event.Error != "" {
		attrs = append(attrs, slog.String("error", event.Error))
		level = slog.LevelWarn
	}

	a.logger.LogAttrs(context.Background(), level, "serial", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
