// Package protocol implements the wire format of the ÜRP EEPROM programmer,
// a serprog-style command set spoken over a serial line.
//
// This package provides functions to build command frames and interpret
// the handshake byte of responses. It performs no I/O.
//
// # Protocol Overview
//
// Every command is a single opcode byte, optionally followed by 24-bit
// little-endian fields:
//
//	QUERY_NAME: [0x03]
//	READ_N:     [0x0a][ADDR_0][ADDR_1][ADDR_2][LEN_0][LEN_1][LEN_2]
//	WRITE_N:    [0x0d][LEN_0][LEN_1][LEN_2][ADDR_0][ADDR_1][ADDR_2][DATA...]
//	EXEC:       [0x0f]
//
// The READ_N frame carries the address first while the WRITE_N header
// carries the length first. The firmware expects exactly this layout.
//
// Responses start with a handshake byte, ACK (0x06) or NAK (0x15),
// followed by a payload whose size is known from the request. Responses are
// never self-describing.
//
// # Command Builders
//
// Use the Build* functions, or the Command types, to create frames:
//
//	frame, err := protocol.BuildReadNCmd(0x001000, 64)
//	header, err := protocol.BuildWriteNHeader(0x001000, len(data))
//	frame, err := protocol.ReadN{Address: 0, Length: 16}.Frame()
//
// # Limits
//
// A single operation moves at most ChunkSize (64) bytes and must stay
// inside the 24-bit address space:
//
//	address + length - 1 <= MaxAddress
//
// # Error Handling
//
// A rejected command is reported as a NakError, which matches ErrNak:
//
//	if err := protocol.CheckAck("read", b); errors.Is(err, protocol.ErrNak) {
//	    // err.Error() returns: "read failed: NAK (0x15)"
//	}
package protocol
