package trace

import "time"

// Event is one transport-level exchange with the programmer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the bytes were written or read.
	Timestamp time.Time `cbor:"1,keyasint" json:"timestamp"`

	// SessionID identifies the programmer session (UUID).
	SessionID string `cbor:"2,keyasint" json:"session_id"`

	// Direction indicates byte flow relative to the host.
	Direction Direction `cbor:"3,keyasint" json:"direction"`

	// Size is the number of bytes requested or written.
	Size int `cbor:"4,keyasint" json:"size"`

	// Data holds the bytes, cut to MaxDataSize.
	Data []byte `cbor:"5,keyasint,omitempty" json:"data,omitempty"`

	// Truncated is set when Data was cut.
	Truncated bool `cbor:"6,keyasint,omitempty" json:"truncated,omitempty"`

	// Error is the transport error, if the operation failed.
	Error string `cbor:"7,keyasint,omitempty" json:"error,omitempty"`
}

// MaxDataSize is the largest payload copied into an event.
const MaxDataSize = 256

// Direction indicates the direction of byte flow.
type Direction uint8

const (
	// DirectionIn indicates bytes read from the programmer.
	DirectionIn Direction = 0
	// DirectionOut indicates bytes written to the programmer.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the direction by name for JSON and YAML exports.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
