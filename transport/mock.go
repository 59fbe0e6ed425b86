package transport

import (
	"bytes"
	"sync"

	"github.com/retrofficina/go-serprog/protocol"
)

// Mock is a deterministic in-memory Transport for tests.
// Responses are queued up front; every Write is recorded.
// A ReadExact that asks for more than is queued consumes what is left
// and fails as a real port would when its deadline expires.
type Mock struct {
	mu       sync.Mutex
	pending  bytes.Buffer
	written  bytes.Buffer
	writes   [][]byte
	reads    int
	writeErr error
	readErr  error
}

// NewMock returns an empty Mock.
func NewMock() *Mock {
	return &Mock{}
}

// Queue appends raw bytes to the response stream.
func (m *Mock) Queue(p ...byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending.Write(p)
}

// QueueAck appends an ACK followed by payload.
func (m *Mock) QueueAck(payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending.WriteByte(protocol.ACK)
	m.pending.Write(payload)
}

// SetWriteError makes every subsequent Write fail with err.
func (m *Mock) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// SetReadError makes every subsequent ReadExact fail with err.
func (m *Mock) SetReadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// Write records p.
func (m *Mock) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writeErr != nil {
		return 0, m.writeErr
	}
	m.writes = append(m.writes, append([]byte(nil), p...))
	return m.written.Write(p)
}

// ReadExact serves queued bytes.
func (m *Mock) ReadExact(p []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reads++
	if m.readErr != nil {
		return m.readErr
	}
	n, _ := m.pending.Read(p)
	if n < len(p) {
		return shortRead(n, len(p))
	}
	return nil
}

// Written returns everything written so far as one byte stream.
func (m *Mock) Written() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.written.Bytes()...)
}

// Writes returns each Write call's bytes in order.
func (m *Mock) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.writes))
	copy(out, m.writes)
	return out
}

// Reads returns the number of ReadExact calls.
func (m *Mock) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// Pending returns the number of queued bytes not yet consumed.
func (m *Mock) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending.Len()
}

// Reset clears queued responses, recorded writes and injected errors.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending.Reset()
	m.written.Reset()
	m.writes = nil
	m.reads = 0
	m.writeErr = nil
	m.readErr = nil
}

var _ Transport = (*Mock)(nil)
