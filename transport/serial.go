package transport

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// port is the subset of serial.Port used by Serial.
type port interface {
	io.ReadWriteCloser

	SetReadTimeout(t time.Duration) error
}

// Serial is a Transport over a local serial device.
type Serial struct {
	port   port
	path   string
	config Config
}

// OpenSerial opens the serial device at path in 8N1 mode.
// Failures wrap ErrUnavailable.
//
// Example:
//
//	port, err := transport.OpenSerial("/dev/ttyUSB0",
//	    transport.WithBaudRate(38400),
//	    transport.WithReadTimeout(5*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
func OpenSerial(path string, opts ...Option) (*Serial, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	p, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrUnavailable, path, err)
	}

	s, err := newSerial(p, path, cfg)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return s, nil
}

// newSerial applies the read timeout to an already open port.
func newSerial(p port, path string, cfg Config) (*Serial, error) {
	if err := p.SetReadTimeout(cfg.ReadTimeout); err != nil {
		return nil, fmt.Errorf("%w: set read timeout on %s: %w", ErrUnavailable, path, err)
	}
	return &Serial{port: p, path: path, config: cfg}, nil
}

// Write sends p to the device.
func (s *Serial) Write(p []byte) (int, error) {
	n, err := s.port.Write(p)
	if err != nil {
		return n, fmt.Errorf("write %s: %w", s.path, err)
	}
	return n, nil
}

// ReadExact reads exactly len(p) bytes. The port returns no data once the
// configured read timeout elapses, which ends the attempt.
func (s *Serial) ReadExact(p []byte) error {
	return readExact(s.port, p)
}

// Path returns the device path the transport was opened on.
func (s *Serial) Path() string {
	return s.path
}

// ReadTimeout returns the configured per-read deadline.
func (s *Serial) ReadTimeout() time.Duration {
	return s.config.ReadTimeout
}

// Close releases the serial device.
func (s *Serial) Close() error {
	return s.port.Close()
}

var _ Transport = (*Serial)(nil)
