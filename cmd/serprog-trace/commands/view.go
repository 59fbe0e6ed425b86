// Package commands implements the serprog-trace CLI commands.
package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/retrofficina/go-serprog/trace"
)

// ParseDirectionFlag converts "in" or "out" to a trace.Direction.
func ParseDirectionFlag(s string) (trace.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return trace.DirectionIn, nil
	case "out":
		return trace.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (valid: in, out)", s)
	}
}

// RunView prints every event of the trace file matching filter to w.
func RunView(path string, filter trace.Filter, w io.Writer) error {
	reader, err := trace.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	return view(reader, w)
}

func view(reader *trace.Reader, w io.Writer) error {
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(w, event)
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event trace.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [session:%s] %-3s %d bytes\n",
		ts, shortenSessionID(event.SessionID), event.Direction.String(), event.Size)

	if event.Error != "" {
		fmt.Fprintf(w, "  error: %s\n", event.Error)
	}
	if len(event.Data) > 0 {
		for _, line := range strings.SplitAfter(strings.TrimRight(hex.Dump(event.Data), "\n"), "\n") {
			fmt.Fprintf(w, "  %s", line)
		}
		fmt.Fprintln(w)
	}
	if event.Truncated {
		fmt.Fprintf(w, "  ... %d more bytes\n", event.Size-len(event.Data))
	}

	fmt.Fprintln(w)
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
