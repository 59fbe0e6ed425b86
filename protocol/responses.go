package protocol

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// CheckAck validates the handshake byte that prefixes every response.
// Anything other than ACK is reported as a NakError for the given operation.
func CheckAck(operation string, b byte) error {
	if b != ACK {
		return &NakError{Operation: operation, Ack: b}
	}
	return nil
}

// DecodeName decodes the programmer identity field.
// Every byte that is not part of a valid UTF-8 sequence becomes U+FFFD,
// so a field of NameSize arbitrary bytes never fails to decode.
// The full field is returned, including any trailing NUL padding.
//
// Data format (NameSize bytes):
//
//	[NAME(16)]
func DecodeName(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		b.WriteRune(r)
		data = data[size:]
	}
	return b.String()
}

// ParseNameResponse decodes a QUERY_NAME payload, checking its size first.
func ParseNameResponse(data []byte) (string, error) {
	if len(data) != NameSize {
		return "", fmt.Errorf("invalid data length for Query Name response: got %d bytes, expected %d", len(data), NameSize)
	}
	return DecodeName(data), nil
}

// TrimName strips trailing NUL and space padding for display.
func TrimName(name string) string {
	return strings.TrimRight(name, "\x00 ")
}
