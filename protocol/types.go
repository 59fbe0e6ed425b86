package protocol

// Command is a single programmer command that can be encoded into a wire frame.
// Implementations are Nop, QueryName, ReadN, WriteN and Exec.
type Command interface {
	// Opcode returns the command identifier that prefixes the frame
	Opcode() byte

	// Frame returns the exact byte sequence to send for this command
	Frame() ([]byte, error)
}

// Nop is the no-operation command.
type Nop struct{}

// QueryName requests the programmer identity string.
type QueryName struct{}

// ReadN reads Length bytes starting at Address.
type ReadN struct {
	Address uint32
	Length  int
}

// WriteN stages Length bytes for writing at Address.
// Only the header is produced by Frame; the raw data follows it on the wire.
type WriteN struct {
	Length  int
	Address uint32
}

// Exec commits the staged write.
type Exec struct{}

func (Nop) Opcode() byte       { return OpNop }
func (QueryName) Opcode() byte { return OpQueryName }
func (ReadN) Opcode() byte     { return OpReadN }
func (WriteN) Opcode() byte    { return OpWriteN }
func (Exec) Opcode() byte      { return OpExec }

func (Nop) Frame() ([]byte, error)       { return []byte{OpNop}, nil }
func (QueryName) Frame() ([]byte, error) { return BuildQueryNameCmd(), nil }
func (c ReadN) Frame() ([]byte, error)   { return BuildReadNCmd(c.Address, c.Length) }
func (c WriteN) Frame() ([]byte, error)  { return BuildWriteNHeader(c.Address, c.Length) }
func (Exec) Frame() ([]byte, error)      { return BuildExecCmd(), nil }

// Compile-time interface satisfaction checks.
var (
	_ Command = Nop{}
	_ Command = QueryName{}
	_ Command = ReadN{}
	_ Command = WriteN{}
	_ Command = Exec{}
)
