// Package transport provides the byte stream the programmer talks over.
//
// The Transport interface has two methods: a blocking Write and a
// blocking ReadExact bounded by a read deadline. Three implementations are
// provided:
//   - Serial: a local serial device opened through go.bug.st/serial
//   - Stream: any io.ReadWriter, e.g. a net.Conn or a pipe
//   - Mock: a deterministic in-memory transport for tests
//
// A short read never blocks forever. When the deadline expires ReadExact
// returns ErrTimeout if nothing arrived, or ErrTruncated if only part of
// the expected bytes did:
//
//	port, err := transport.OpenSerial("/dev/ttyUSB0", transport.WithReadTimeout(5*time.Second))
//	if err != nil {
//	    // errors.Is(err, transport.ErrUnavailable)
//	}
//	buf := make([]byte, 17)
//	if err := port.ReadExact(buf); errors.Is(err, transport.ErrTimeout) {
//	    // device did not answer
//	}
package transport
