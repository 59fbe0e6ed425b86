package transport

import "io"

// Stream adapts any io.ReadWriter, such as a net.Conn with a read deadline
// or one end of a pipe, to the Transport interface.
type Stream struct {
	rw io.ReadWriter
}

// NewStream wraps rw. Deadlines, if any, are the caller's responsibility.
func NewStream(rw io.ReadWriter) *Stream {
	if rw == nil {
		panic("stream cannot be nil")
	}
	return &Stream{rw: rw}
}

// Write sends p to the underlying stream.
func (s *Stream) Write(p []byte) (int, error) {
	return s.rw.Write(p)
}

// ReadExact reads exactly len(p) bytes.
func (s *Stream) ReadExact(p []byte) error {
	return readExact(s.rw, p)
}

// Close closes the underlying stream if it implements io.Closer.
func (s *Stream) Close() error {
	if c, ok := s.rw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

var _ Transport = (*Stream)(nil)
