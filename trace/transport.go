package trace

import (
	"time"

	"github.com/google/uuid"

	"github.com/retrofficina/go-serprog/transport"
)

// Transport records every write and read of the wrapped transport.Transport
// as an Event before returning the result to the caller.
type Transport struct {
	next      transport.Transport
	logger    Logger
	sessionID string
	now       func() time.Time
}

// Wrap returns a Transport that logs traffic of next to logger under a
// fresh session ID. A nil logger disables tracing.
func Wrap(next transport.Transport, logger Logger) *Transport {
	if logger == nil {
		logger = NoopLogger{}
	}
	return &Transport{
		next:      next,
		logger:    logger,
		sessionID: uuid.NewString(),
		now:       time.Now,
	}
}

// SessionID returns the ID stamped on every event of this transport.
func (t *Transport) SessionID() string {
	return t.sessionID
}

// Write forwards p and records it as an outgoing event.
func (t *Transport) Write(p []byte) (int, error) {
	n, err := t.next.Write(p)
	t.record(DirectionOut, p, len(p), err)
	return n, err
}

// ReadExact forwards the read and records what arrived. On a short read
// the event holds the requested size and no data.
func (t *Transport) ReadExact(p []byte) error {
	err := t.next.ReadExact(p)
	if err != nil {
		t.record(DirectionIn, nil, len(p), err)
		return err
	}
	t.record(DirectionIn, p, len(p), nil)
	return nil
}

func (t *Transport) record(dir Direction, data []byte, size int, err error) {
	event := Event{
		Timestamp: t.now(),
		SessionID: t.sessionID,
		Direction: dir,
		Size:      size,
	}

	if len(data) > MaxDataSize {
		data = data[:MaxDataSize]
		event.Truncated = true
	}
	if len(data) > 0 {
		event.Data = append([]byte(nil), data...)
	}
	if err != nil {
		event.Error = err.Error()
	}

	t.logger.Log(event)
}

var _ transport.Transport = (*Transport)(nil)
