package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrNak is matched by every NakError via errors.Is.
	ErrNak = errors.New("command rejected by programmer")

	// ErrChunkTooLarge indicates a single operation exceeds ChunkSize.
	ErrChunkTooLarge = errors.New("chunk exceeds device buffer")
)

// NakError represents a command rejected by the programmer.
// Ack holds the byte received in place of ACK.
type NakError struct {
	// Operation is the command that failed
	Operation string

	// Ack is the handshake byte actually received
	Ack byte
}

func (e *NakError) Error() string {
	return fmt.Sprintf("%s failed: %s (0x%02X)", e.Operation, getAckName(e.Ack), e.Ack)
}

// Is reports whether target is ErrNak.
func (e *NakError) Is(target error) bool {
	return target == ErrNak
}

// IsNak returns true if the error chain contains a NakError.
func IsNak(err error) bool {
	var nak *NakError
	return errors.As(err, &nak)
}

// AddressRangeError indicates an operation that would run past the
// 24-bit address space.
type AddressRangeError struct {
	Address uint32
	Length  int
}

func (e *AddressRangeError) Error() string {
	return fmt.Sprintf("address range 0x%06X+%d exceeds 0x%06X",
		e.Address, e.Length, MaxAddress)
}

// getAckName returns a human-readable name for a handshake byte.
func getAckName(b byte) string {
	switch b {
	case ACK:
		return "ACK"
	case NAK:
		return "NAK"
	default:
		return fmt.Sprintf("unexpected handshake byte 0x%02X", b)
	}
}
