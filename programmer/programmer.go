package programmer

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/retrofficina/go-serprog/protocol"
	"github.com/retrofficina/go-serprog/transport"
)

// Programmer drives an ÜRP EEPROM programmer over a Transport.
// It frames commands, checks the ACK/NAK handshake and splits transfers
// into chunks the device buffer can hold.
//
// One command is in flight at a time. Programmer is safe for concurrent
// use, but calls are serialized.
type Programmer struct {
	mu        sync.Mutex
	transport transport.Transport
	config    Config
	state     atomic.Uint32
}

// New creates a new Programmer that takes ownership of t.
// Nothing else may read or write t while the Programmer is in use.
//
// Example:
//
//	port, _ := transport.OpenSerial("/dev/ttyUSB0")
//	prog := programmer.New(port,
//	    programmer.WithProgress(sink),
//	    programmer.WithLogger(slog.Default()),
//	)
func New(t transport.Transport, opts ...Option) *Programmer {
	if t == nil {
		panic("transport cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Programmer{
		transport: t,
		config:    cfg,
	}
}

// State returns the state of the current command.
func (p *Programmer) State() State {
	return State(p.state.Load())
}

// QueryName asks the programmer for its 16-byte identity string.
// The name is decoded permissively and keeps its padding; use
// protocol.TrimName for display.
func (p *Programmer) QueryName() (string, error) {
	frame, _ := protocol.QueryName{}.Frame()

	var name [protocol.NameSize]byte
	if err := p.exchange("query name", frame, name[:]); err != nil {
		return "", err
	}
	return protocol.ParseNameResponse(name[:])
}

// Ping sends a NOP and waits for the bare ACK.
func (p *Programmer) Ping() error {
	frame, _ := protocol.Nop{}.Frame()
	return p.exchange("nop", frame, nil)
}

// ReadChunk reads length bytes starting at address in a single device
// operation. length must not exceed protocol.ChunkSize.
func (p *Programmer) ReadChunk(address uint32, length int) ([]byte, error) {
	frame, err := protocol.ReadN{Address: address, Length: length}.Frame()
	if err != nil {
		return nil, err
	}

	buf := make([]byte, length)
	if err := p.exchange("read", frame, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// readChunk fills dst from the EEPROM at address.
func (p *Programmer) readChunk(address uint32, dst []byte) error {
	frame, err := protocol.ReadN{Address: address, Length: len(dst)}.Frame()
	if err != nil {
		return err
	}
	return p.exchange("read", frame, dst)
}

// WriteChunk stages data at address and commits it with EXEC.
// len(data) must not exceed protocol.ChunkSize. The device sends no
// response for this pair, so nothing is read back.
func (p *Programmer) WriteChunk(address uint32, data []byte) error {
	header, err := protocol.WriteN{Length: len(data), Address: address}.Frame()
	if err != nil {
		return err
	}
	exec, _ := protocol.Exec{}.Frame()

	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.setState(StateIdle)

	if err := p.send(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := p.send(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}
	if err := p.send(exec); err != nil {
		return fmt.Errorf("write exec: %w", err)
	}
	return nil
}

// Read fills buf with EEPROM contents starting at base, one chunk at a time.
// On failure the prefix of buf read so far is left in place.
func (p *Programmer) Read(base uint32, buf []byte) error {
	return p.transfer("read", base, len(buf), func(address uint32, offset, n int) error {
		return p.readChunk(address, buf[offset:offset+n])
	})
}

// Write programs data into the EEPROM starting at base, one chunk at a time.
// On failure, chunks already committed stay written.
func (p *Programmer) Write(base uint32, data []byte) error {
	return p.transfer("write", base, len(data), func(address uint32, offset, n int) error {
		return p.WriteChunk(address, data[offset:offset+n])
	})
}

// Verify reads back len(want) bytes from base and compares them with want.
// The first differing byte is reported as a *MismatchError.
func (p *Programmer) Verify(base uint32, want []byte) error {
	got := make([]byte, len(want))
	if err := p.Read(base, got); err != nil {
		return err
	}

	if bytes.Equal(got, want) {
		return nil
	}
	for i := range want {
		if got[i] != want[i] {
			return &MismatchError{
				Address:  base + uint32(i),
				Expected: want[i],
				Actual:   got[i],
			}
		}
	}
	return nil
}

// Erase overwrites size bytes from base with 0xFF.
func (p *Programmer) Erase(base uint32, size int) error {
	if size < 0 {
		return fmt.Errorf("erase: negative size %d", size)
	}
	return p.Write(base, bytes.Repeat([]byte{0xFF}, size))
}

// transfer runs chunk over [base, base+total) in strictly ascending,
// ChunkSize-bounded pieces and stops at the first failure.
// Progress is reported after each chunk with the count before that chunk.
func (p *Programmer) transfer(operation string, base uint32, total int, chunk func(address uint32, offset, n int) error) error {
	if err := protocol.CheckRange(base, total); err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}

	startTime := time.Now()
	p.logDebug("transfer started",
		"operation", operation,
		"base", fmt.Sprintf("0x%06X", base),
		"size", total,
	)

	for offset := 0; offset < total; {
		n := min(protocol.ChunkSize, total-offset)
		address := base + uint32(offset)

		if err := chunk(address, offset, n); err != nil {
			p.logError("transfer aborted",
				"operation", operation,
				"address", fmt.Sprintf("0x%06X", address),
				"done", offset,
				"error", err,
			)
			return fmt.Errorf("%s chunk at 0x%06X: %w", operation, address, err)
		}

		p.reportProgress(offset, total)
		offset += n
	}

	p.logInfo("transfer complete",
		"operation", operation,
		"bytes", total,
		"elapsed", time.Since(startTime).String(),
	)
	return nil
}

// exchange sends frame and reads an ACK followed by len(payload) bytes.
func (p *Programmer) exchange(operation string, frame []byte, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.setState(StateIdle)

	if err := p.send(frame); err != nil {
		return fmt.Errorf("%s: write command: %w", operation, err)
	}
	return p.recvWithAck(operation, payload)
}

// recvWithAck reads the handshake byte and, only if it is ACK, exactly
// len(payload) bytes into payload. After a NAK nothing more is read.
func (p *Programmer) recvWithAck(operation string, payload []byte) error {
	p.setState(StateAwaitingAck)

	var ack [1]byte
	if err := p.transport.ReadExact(ack[:]); err != nil {
		return fmt.Errorf("%s: ack not received: %w", operation, err)
	}
	if err := protocol.CheckAck(operation, ack[0]); err != nil {
		return err
	}

	if len(payload) == 0 {
		return nil
	}

	p.setState(StateAwaitingPayload)
	if err := p.transport.ReadExact(payload); err != nil {
		return fmt.Errorf("%s: not enough data received: %w", operation, err)
	}

	if p.config.Logger != nil {
		p.logDebug("received payload",
			"operation", operation,
			"bytes", len(payload),
			"dump", hex.EncodeToString(payload),
		)
	}
	return nil
}

// send writes one frame to the transport.
func (p *Programmer) send(frame []byte) error {
	if _, err := p.transport.Write(frame); err != nil {
		return err
	}
	p.setState(StateFrameSent)

	// Apply inter-command delay if configured
	if p.config.CommandDelay > 0 {
		time.Sleep(p.config.CommandDelay)
	}
	return nil
}

func (p *Programmer) setState(s State) {
	p.state.Store(uint32(s))
}

// reportProgress calls the progress sink if configured.
func (p *Programmer) reportProgress(done, total int) {
	if p.config.Progress != nil {
		p.config.Progress.OnProgress(done, total)
	}
}

// logDebug logs a debug message if a logger is configured.
func (p *Programmer) logDebug(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (p *Programmer) logInfo(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (p *Programmer) logError(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Error(msg, keysAndValues...)
	}
}
