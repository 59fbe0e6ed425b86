package protocol

// Handshake bytes sent by the programmer as the first byte of every response.
const (
	// ACK means the command was accepted; payload follows if one is expected
	ACK = 0x06

	// NAK means the command was rejected
	NAK = 0x15
)

// Command opcodes understood by the ÜRP programmer firmware.
const (
	// OpNop does nothing and is answered with a bare ACK
	OpNop = 0x00

	// OpQueryName requests the 16-byte programmer identity string
	OpQueryName = 0x03

	// OpReadN reads N bytes starting at a 24-bit address
	OpReadN = 0x0a

	// OpWriteN stages N bytes for writing at a 24-bit address
	OpWriteN = 0x0d

	// OpExec commits the most recently staged write into the EEPROM
	OpExec = 0x0f
)

// Frame sizes in bytes.
const (
	// OpcodeSize is the size of a bare opcode frame (NOP, QUERY_NAME, EXEC)
	OpcodeSize = 1

	// HeaderSize is the size of a READ_N frame or a WRITE_N header:
	// opcode(1) + two 24-bit little-endian fields(3+3)
	HeaderSize = 7

	// FieldSize is the size of an address or length field on the wire
	FieldSize = 3
)

// Device limits.
const (
	// ChunkSize is the maximum payload the programmer accepts per
	// read or write operation. It matches the device buffer.
	ChunkSize = 64

	// MaxAddress is the highest addressable byte (24-bit address space)
	MaxAddress = 0xFFFFFF

	// NameSize is the size of the programmer identity field
	NameSize = 16
)
