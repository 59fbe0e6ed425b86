package protocol

import (
	"fmt"
)

// BuildQueryNameCmd constructs a QUERY_NAME frame.
//
// Frame structure:
//
//	[OP_QUERY_NAME]
func BuildQueryNameCmd() []byte {
	return []byte{OpQueryName}
}

// BuildExecCmd constructs an EXEC frame that commits the staged write.
//
// Frame structure:
//
//	[OP_EXEC]
func BuildExecCmd() []byte {
	return []byte{OpExec}
}

// BuildReadNCmd constructs a READ_N frame.
// The length must be between 1 and ChunkSize, and the addressed range
// must fit inside the 24-bit address space.
//
// Frame structure (address before length, both little-endian):
//
//	[OP_READ_N][ADDR_0][ADDR_1][ADDR_2][LEN_0][LEN_1][LEN_2]
func BuildReadNCmd(address uint32, length int) ([]byte, error) {
	if err := checkChunk(address, length); err != nil {
		return nil, err
	}

	frame := make([]byte, 0, HeaderSize)
	frame = append(frame, OpReadN)
	frame = putUint24(frame, address)
	frame = putUint24(frame, uint32(length))

	return frame, nil
}

// BuildWriteNHeader constructs the WRITE_N header for a chunk of length bytes.
// The raw data bytes are sent right after the header, without a length prefix.
//
// Frame structure (length before address, the mirror image of READ_N):
//
//	[OP_WRITE_N][LEN_0][LEN_1][LEN_2][ADDR_0][ADDR_1][ADDR_2]
func BuildWriteNHeader(address uint32, length int) ([]byte, error) {
	if err := checkChunk(address, length); err != nil {
		return nil, err
	}

	frame := make([]byte, 0, HeaderSize)
	frame = append(frame, OpWriteN)
	frame = putUint24(frame, uint32(length))
	frame = putUint24(frame, address)

	return frame, nil
}

// CheckRange validates that [address, address+length) lies inside the
// 24-bit address space. A zero length is always valid.
func CheckRange(address uint32, length int) error {
	if length < 0 {
		return fmt.Errorf("negative length %d", length)
	}
	if length == 0 {
		return nil
	}
	if uint64(address)+uint64(length)-1 > MaxAddress {
		return &AddressRangeError{Address: address, Length: length}
	}
	return nil
}

// checkChunk validates a single device operation.
func checkChunk(address uint32, length int) error {
	if length <= 0 {
		return fmt.Errorf("chunk length must be positive, got %d", length)
	}
	if length > ChunkSize {
		return fmt.Errorf("%w: %d > %d", ErrChunkTooLarge, length, ChunkSize)
	}
	return CheckRange(address, length)
}

// putUint24 appends the low 24 bits of v in little-endian order.
func putUint24(dst []byte, v uint32) []byte {
	return append(dst, byte(v), byte(v>>8), byte(v>>16))
}

// Uint24 decodes a 24-bit little-endian field.
func Uint24(b []byte) uint32 {
	_ = b[2]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}
