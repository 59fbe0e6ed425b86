package transport

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Transport is the byte stream the programmer is attached to.
// Write blocks until all of p has been handed to the device.
// ReadExact blocks until len(p) bytes have arrived or the read deadline
// expires; a short read fails with ErrTimeout or ErrTruncated.
//
// A Transport carries one command at a time and is owned by a single
// programmer.
type Transport interface {
	io.Writer

	ReadExact(p []byte) error
}

var (
	// ErrUnavailable indicates the transport could not be opened.
	ErrUnavailable = errors.New("transport unavailable")

	// ErrTimeout indicates that no data arrived before the read deadline.
	ErrTimeout = errors.New("timeout waiting for data")

	// ErrTruncated indicates that fewer bytes than expected arrived
	// before the read deadline.
	ErrTruncated = errors.New("response truncated")
)

// readExact fills p from r. A zero-byte read, end of stream, or an expired
// deadline ends the attempt; what has been received so far decides between
// ErrTimeout and ErrTruncated.
func readExact(r io.Reader, p []byte) error {
	n := 0
	for n < len(p) {
		m, err := r.Read(p[n:])
		n += m
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrDeadlineExceeded) {
			return fmt.Errorf("read: %w", err)
		}
		if m == 0 && n < len(p) {
			return shortRead(n, len(p))
		}
	}
	return nil
}

// shortRead builds the error for a read that stopped after got of want bytes.
func shortRead(got, want int) error {
	if got == 0 {
		return fmt.Errorf("%w: expected %d bytes", ErrTimeout, want)
	}
	return fmt.Errorf("%w: got %d of %d bytes", ErrTruncated, got, want)
}
