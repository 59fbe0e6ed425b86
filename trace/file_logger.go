package trace

import (
	"fmt"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger appends events to a trace file. It is safe for concurrent use.
//
// Log cannot fail the transfer it observes, so the first write error is
// kept, later events are dropped, and Close reports it.
type FileLogger struct {
	mu     sync.Mutex
	file   *os.File
	enc    *cbor.Encoder
	err    error
	closed bool
}

// NewFileLogger opens path for appending, creating it if needed.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileLogger{file: f, enc: encMode.NewEncoder(f)}, nil
}

// Log writes event to the file.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || l.err != nil {
		return
	}
	if err := l.enc.Encode(event); err != nil {
		l.err = fmt.Errorf("write %s: %w", l.file.Name(), err)
	}
}

// Close closes the file and returns the first write error, if any.
// Calling Close again is a no-op.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	cerr := l.file.Close()
	if l.err != nil {
		return l.err
	}
	return cerr
}

var _ Logger = (*FileLogger)(nil)
