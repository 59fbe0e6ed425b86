package commands

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/retrofficina/go-serprog/trace"
)

func writeTrace(t *testing.T, events ...trace.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.trace")
	logger, err := trace.NewFileLogger(path)
	require.NoError(t, err)
	for _, e := range events {
		logger.Log(e)
	}
	require.NoError(t, logger.Close())
	return path
}

func sampleEvents() []trace.Event {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []trace.Event{
		{Timestamp: ts, SessionID: "0b6f2a9e-1111-2222-3333-444455556666", Direction: trace.DirectionOut, Size: 1, Data: []byte{0x03}},
		{Timestamp: ts, SessionID: "0b6f2a9e-1111-2222-3333-444455556666", Direction: trace.DirectionIn, Size: 1, Data: []byte{0x06}},
		{Timestamp: ts, SessionID: "0b6f2a9e-1111-2222-3333-444455556666", Direction: trace.DirectionIn, Size: 16, Error: "timeout waiting for data: expected 16 bytes"},
	}
}

func TestParseDirectionFlag(t *testing.T) {
	d, err := ParseDirectionFlag("IN")
	require.NoError(t, err)
	assert.Equal(t, trace.DirectionIn, d)

	d, err = ParseDirectionFlag("out")
	require.NoError(t, err)
	assert.Equal(t, trace.DirectionOut, d)

	_, err = ParseDirectionFlag("sideways")
	assert.Error(t, err)
}

func TestRunView(t *testing.T) {
	path := writeTrace(t, sampleEvents()...)

	var out bytes.Buffer
	require.NoError(t, RunView(path, trace.Filter{}, &out))

	text := out.String()
	assert.Contains(t, text, "2024-03-01T12:00:00.000000Z [session:0b6f2a9e] OUT 1 bytes")
	assert.Contains(t, text, "00000000  03")
	assert.Contains(t, text, "error: timeout waiting for data")
}

func TestRunViewFiltered(t *testing.T) {
	path := writeTrace(t, sampleEvents()...)
	out := trace.DirectionOut

	var buf bytes.Buffer
	require.NoError(t, RunView(path, trace.Filter{Direction: &out}, &buf))
	assert.Equal(t, 1, strings.Count(buf.String(), "[session:"))
}

func TestRunViewTruncated(t *testing.T) {
	path := writeTrace(t, trace.Event{Direction: trace.DirectionOut, Size: 300, Data: make([]byte, trace.MaxDataSize), Truncated: true})

	var buf bytes.Buffer
	require.NoError(t, RunView(path, trace.Filter{}, &buf))
	assert.Contains(t, buf.String(), "... 44 more bytes")
}

func TestRunViewMissingFile(t *testing.T) {
	err := RunView(filepath.Join(t.TempDir(), "nope.trace"), trace.Filter{}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "failed to open trace file")
}

func TestRunExportJSONL(t *testing.T) {
	path := writeTrace(t, sampleEvents()...)
	output := filepath.Join(t.TempDir(), "out.jsonl")

	require.NoError(t, RunExport(path, "jsonl", output, trace.Filter{}))

	data := readFile(t, output)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	var lines []map[string]interface{}
	for scanner.Scan() {
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		lines = append(lines, m)
	}
	require.Len(t, lines, 3)
	assert.Equal(t, "OUT", lines[0]["direction"])
	assert.Equal(t, "IN", lines[1]["direction"])
	assert.Contains(t, lines[2]["error"], "timeout")
}

func TestRunExportYAML(t *testing.T) {
	path := writeTrace(t, sampleEvents()...)

	var buf bytes.Buffer
	reader, err := trace.NewFilteredReader(path, trace.Filter{ErrorsOnly: true})
	require.NoError(t, err)
	defer reader.Close()
	require.NoError(t, export(reader, "yaml", &buf))

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "IN", doc["direction"])
	assert.Equal(t, 16, doc["size"])
	assert.NotContains(t, doc, "data")
}

func TestRunExportYAMLData(t *testing.T) {
	path := writeTrace(t, sampleEvents()[0])

	var buf bytes.Buffer
	reader, err := trace.NewReader(path)
	require.NoError(t, err)
	defer reader.Close()
	require.NoError(t, export(reader, "yaml", &buf))

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "03", doc["data"])
}

func TestRunExportUnknownFormat(t *testing.T) {
	path := writeTrace(t, sampleEvents()...)
	err := RunExport(path, "csv", "", trace.Filter{})
	assert.ErrorContains(t, err, "unknown format")
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}
