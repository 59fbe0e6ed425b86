package programmer

// State is the position of the single in-flight command.
type State uint8

const (
	// StateIdle means no command is in flight
	StateIdle State = iota
	// StateFrameSent means the command frame has been written
	StateFrameSent
	// StateAwaitingAck means the handshake byte is being read
	StateAwaitingAck
	// StateAwaitingPayload means the response payload is being read
	StateAwaitingPayload
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateFrameSent:
		return "FRAME_SENT"
	case StateAwaitingAck:
		return "AWAITING_ACK"
	case StateAwaitingPayload:
		return "AWAITING_PAYLOAD"
	default:
		return "UNKNOWN"
	}
}
