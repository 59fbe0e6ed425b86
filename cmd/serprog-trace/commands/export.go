package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/retrofficina/go-serprog/trace"
)

// RunExport exports the trace file to the specified format.
func RunExport(path, format, output string, filter trace.Filter) error {
	if format != "jsonl" && format != "yaml" {
		return fmt.Errorf("unknown format: %s (supported: jsonl, yaml)", format)
	}

	reader, err := trace.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	return export(reader, format, w)
}

func export(reader *trace.Reader, format string, w io.Writer) error {
	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "yaml":
		return exportYAML(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, yaml)", format)
	}
}

func exportJSONL(reader *trace.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
}

// exportYAML writes one YAML document per event.
func exportYAML(reader *trace.Reader, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	encoder.SetIndent(2)

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(yamlEvent(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
}

// yamlEvent renders Data as a hex string; yaml.v3 would otherwise emit
// a sequence of integers.
func yamlEvent(event trace.Event) map[string]interface{} {
	m := map[string]interface{}{
		"timestamp":  event.Timestamp.UTC(),
		"session_id": event.SessionID,
		"direction":  event.Direction.String(),
		"size":       event.Size,
	}
	if len(event.Data) > 0 {
		m["data"] = fmt.Sprintf("% x", event.Data)
	}
	if event.Truncated {
		m["truncated"] = true
	}
	if event.Error != "" {
		m["error"] = event.Error
	}
	return m
}
