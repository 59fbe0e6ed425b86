// Package simulator emulates an ÜRP programmer with an attached EEPROM.
// A Device implements transport.Transport, so a programmer.Programmer can
// drive it exactly as it drives real hardware.
package simulator

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/retrofficina/go-serprog/protocol"
	"github.com/retrofficina/go-serprog/transport"
)

// DefaultName is the identity reported by a simulated programmer.
const DefaultName = "URP-PROGRAMMER\x00\x00"

// DefaultMemorySize is the size of the simulated EEPROM (128 KiB).
const DefaultMemorySize = 128 * 1024

// staged is a WRITE_N payload waiting for EXEC.
type staged struct {
	address uint32
	data    []byte
}

// Device is a simulated programmer. Writes are parsed as a command stream;
// responses are queued and served by ReadExact.
type Device struct {
	mu       sync.Mutex
	name     [protocol.NameSize]byte
	memory   []byte
	in       []byte
	out      bytes.Buffer
	staged   []staged
	commands int
	errors   int
	nakAfter int
	silent   bool
}

// Option configures a Device.
type Option func(*Device)

// WithName sets the identity string, padded or cut to 16 bytes.
func WithName(name string) Option {
	return func(d *Device) {
		d.name = [protocol.NameSize]byte{}
		copy(d.name[:], name)
	}
}

// WithMemorySize sets the EEPROM size. Accesses beyond it are rejected.
func WithMemorySize(size int) Option {
	return func(d *Device) {
		if size > 0 && size <= protocol.MaxAddress+1 {
			d.memory = bytes.Repeat([]byte{0xFF}, size)
		}
	}
}

// WithNakAfter makes the device answer NAK to every command that expects
// a response once n commands have been processed.
func WithNakAfter(n int) Option {
	return func(d *Device) {
		d.nakAfter = n
	}
}

// New creates a blank device (all bytes 0xFF).
func New(opts ...Option) *Device {
	d := &Device{nakAfter: -1}
	copy(d.name[:], DefaultName)
	d.memory = bytes.Repeat([]byte{0xFF}, DefaultMemorySize)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetSilent stops the device from answering, as if it were unplugged.
func (d *Device) SetSilent(silent bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.silent = silent
}

// Load copies data into the EEPROM at address.
func (d *Device) Load(address uint32, data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	copy(d.memory[address:], data)
}

// Memory returns a copy of length bytes starting at address.
func (d *Device) Memory(address uint32, length int) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]byte(nil), d.memory[address:int(address)+length]...)
}

// Commands returns the number of complete commands processed.
func (d *Device) Commands() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.commands
}

// Errors returns the number of writes the device could not commit.
func (d *Device) Errors() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.errors
}

// Write feeds host bytes into the command parser.
func (d *Device) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.in = append(d.in, p...)
	for d.step() {
	}
	return len(p), nil
}

// ReadExact serves queued response bytes.
func (d *Device) ReadExact(p []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.silent {
		return fmt.Errorf("%w: device not responding", transport.ErrTimeout)
	}
	n, _ := d.out.Read(p)
	switch {
	case n == len(p):
		return nil
	case n == 0:
		return fmt.Errorf("%w: expected %d bytes", transport.ErrTimeout, len(p))
	default:
		return fmt.Errorf("%w: got %d of %d bytes", transport.ErrTruncated, n, len(p))
	}
}

// step consumes one complete command from the input, if available.
func (d *Device) step() bool {
	if len(d.in) == 0 {
		return false
	}

	switch op := d.in[0]; op {
	case protocol.OpNop:
		d.consume(protocol.OpcodeSize)
		d.respond(nil)

	case protocol.OpQueryName:
		d.consume(protocol.OpcodeSize)
		d.respond(d.name[:])

	case protocol.OpReadN:
		if len(d.in) < protocol.HeaderSize {
			return false
		}
		address := protocol.Uint24(d.in[1:4])
		length := int(protocol.Uint24(d.in[4:7]))
		d.consume(protocol.HeaderSize)

		if !d.inRange(address, length) {
			d.nak()
			break
		}
		d.respond(d.memory[address : int(address)+length])

	case protocol.OpWriteN:
		if len(d.in) < protocol.HeaderSize {
			return false
		}
		length := int(protocol.Uint24(d.in[1:4]))
		address := protocol.Uint24(d.in[4:7])
		if len(d.in) < protocol.HeaderSize+length {
			return false
		}
		data := append([]byte(nil), d.in[protocol.HeaderSize:protocol.HeaderSize+length]...)
		d.consume(protocol.HeaderSize + length)
		d.commands++
		d.staged = append(d.staged, staged{address: address, data: data})

	case protocol.OpExec:
		d.consume(protocol.OpcodeSize)
		d.commands++
		for _, s := range d.staged {
			if !d.inRange(s.address, len(s.data)) {
				d.errors++
				continue
			}
			copy(d.memory[s.address:], s.data)
		}
		d.staged = nil

	default:
		d.consume(protocol.OpcodeSize)
		d.nak()
	}
	return true
}

func (d *Device) consume(n int) {
	d.in = d.in[n:]
}

func (d *Device) inRange(address uint32, length int) bool {
	return length > 0 && int(address)+length <= len(d.memory)
}

// respond queues ACK and payload, or NAK once the configured limit is hit.
func (d *Device) respond(payload []byte) {
	d.commands++
	if d.nakAfter >= 0 && d.commands > d.nakAfter {
		d.out.WriteByte(protocol.NAK)
		return
	}
	d.out.WriteByte(protocol.ACK)
	d.out.Write(payload)
}

func (d *Device) nak() {
	d.commands++
	d.out.WriteByte(protocol.NAK)
}

var _ transport.Transport = (*Device)(nil)
