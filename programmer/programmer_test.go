package programmer

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/retrofficina/go-serprog/protocol"
	"github.com/retrofficina/go-serprog/transport"
)

// Mock logger for testing
type MockLogger struct {
	debugMsgs []string
	infoMsgs  []string
	errorMsgs []string
}

func (l *MockLogger) Debug(msg string, kv ...interface{}) {
	l.debugMsgs = append(l.debugMsgs, msg)
}

func (l *MockLogger) Info(msg string, kv ...interface{}) {
	l.infoMsgs = append(l.infoMsgs, msg)
}

func (l *MockLogger) Error(msg string, kv ...interface{}) {
	l.errorMsgs = append(l.errorMsgs, msg)
}

// progressRecorder collects every progress report.
type progressRecorder struct {
	reports []Progress
}

func (r *progressRecorder) OnProgress(done, total int) {
	r.reports = append(r.reports, Progress{Done: done, Total: total})
}

// stubTransport lets a test assert exactly which reads were attempted.
type stubTransport struct{ mock.Mock }

func (s *stubTransport) Write(p []byte) (int, error) {
	ret := s.Called(p)
	return ret.Int(0), ret.Error(1)
}

func (s *stubTransport) ReadExact(p []byte) error {
	ret := s.Called(len(p))
	if fill, ok := ret.Get(0).([]byte); ok {
		copy(p, fill)
	}
	return ret.Error(1)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		options []Option
	}{
		{
			name:    "with no options",
			options: nil,
		},
		{
			name: "with all options",
			options: []Option{
				WithProgress(ProgressFunc(func(int, int) {})),
				WithLogger(&MockLogger{}),
				WithCommandDelay(time.Millisecond),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := transport.NewMock()
			prog := New(device, tt.options...)
			require.NotNil(t, prog)
			assert.Same(t, device, prog.transport)
			assert.Equal(t, StateIdle, prog.State())
		})
	}

	assert.Panics(t, func() { New(nil) })
}

func TestQueryName(t *testing.T) {
	device := transport.NewMock()
	device.QueueAck([]byte("URP-PROGRAMMER\x00\x00"))

	prog := New(device)
	name, err := prog.QueryName()
	require.NoError(t, err)

	assert.Equal(t, "URP-PROGRAMMER\x00\x00", name)
	assert.Equal(t, "URP-PROGRAMMER", protocol.TrimName(name))
	assert.Equal(t, []byte{protocol.OpQueryName}, device.Written())
	assert.Equal(t, StateIdle, prog.State())
}

func TestQueryNameInvalidBytes(t *testing.T) {
	device := transport.NewMock()
	device.QueueAck(bytes.Repeat([]byte{0xFF}, protocol.NameSize))

	name, err := New(device).QueryName()
	require.NoError(t, err)
	assert.Equal(t, protocol.NameSize, len([]rune(name)))
}

func TestQueryNameFailures(t *testing.T) {
	tests := []struct {
		name    string
		queue   []byte
		wantErr error
	}{
		{name: "nak", queue: []byte{protocol.NAK}, wantErr: protocol.ErrNak},
		{name: "no answer", queue: nil, wantErr: transport.ErrTimeout},
		{name: "short name", queue: append([]byte{protocol.ACK}, "URP"...), wantErr: transport.ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := transport.NewMock()
			device.Queue(tt.queue...)

			prog := New(device)
			_, err := prog.QueryName()
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, StateIdle, prog.State())
		})
	}
}

func TestNakDoesNotConsumePayload(t *testing.T) {
	device := transport.NewMock()
	device.Queue(protocol.NAK, 0xAA, 0xBB, 0xCC)

	_, err := New(device).ReadChunk(0, 3)
	require.Error(t, err)
	assert.True(t, protocol.IsNak(err))
	assert.Equal(t, 1, device.Reads())
	assert.Equal(t, 3, device.Pending())
}

func TestNakStopsReading(t *testing.T) {
	st := &stubTransport{}
	st.On("Write", mock.Anything).Return(protocol.HeaderSize, nil).Once()
	st.On("ReadExact", 1).Return([]byte{protocol.NAK}, nil).Once()

	_, err := New(st).ReadChunk(0x000100, 16)
	assert.ErrorIs(t, err, protocol.ErrNak)

	st.AssertExpectations(t)
	st.AssertNumberOfCalls(t, "ReadExact", 1)
}

func TestReadChunk(t *testing.T) {
	device := transport.NewMock()
	device.QueueAck([]byte{1, 2, 3, 4})

	data, err := New(device).ReadChunk(0x123456, 4)
	require.NoError(t, err)

	assert.Equal(t, []byte{1, 2, 3, 4}, data)
	assert.Equal(t, []byte{0x0a, 0x56, 0x34, 0x12, 0x04, 0x00, 0x00}, device.Written())
}

func TestReadChunkRejectsOversize(t *testing.T) {
	device := transport.NewMock()

	_, err := New(device).ReadChunk(0, protocol.ChunkSize+1)
	assert.ErrorIs(t, err, protocol.ErrChunkTooLarge)
	assert.Empty(t, device.Written())
}

func TestWriteChunk(t *testing.T) {
	device := transport.NewMock()
	data := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	require.NoError(t, New(device).WriteChunk(0x001000, data))

	assert.Equal(t, [][]byte{
		{0x0d, 0x0a, 0x00, 0x00, 0x00, 0x10, 0x00},
		data,
		{0x0f},
	}, device.Writes())
	assert.Equal(t, 0, device.Reads(), "write must not wait for a response")
}

func TestWriteChunkErrors(t *testing.T) {
	device := transport.NewMock()
	prog := New(device)

	err := prog.WriteChunk(0, make([]byte, protocol.ChunkSize+1))
	assert.ErrorIs(t, err, protocol.ErrChunkTooLarge)

	boom := errors.New("line dropped")
	device.SetWriteError(boom)
	err = prog.WriteChunk(0, []byte{1})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateIdle, prog.State())
}

func TestPing(t *testing.T) {
	device := transport.NewMock()
	device.QueueAck(nil)

	require.NoError(t, New(device).Ping())
	assert.Equal(t, []byte{protocol.OpNop}, device.Written())
	assert.Equal(t, 1, device.Reads())
}

func TestReadChunking(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		wantChunks int
		wantLast   int
	}{
		{name: "empty", total: 0, wantChunks: 0},
		{name: "one byte", total: 1, wantChunks: 1, wantLast: 1},
		{name: "exact chunk", total: 64, wantChunks: 1, wantLast: 64},
		{name: "one over", total: 65, wantChunks: 2, wantLast: 1},
		{name: "two chunks", total: 128, wantChunks: 2, wantLast: 64},
		{name: "odd size", total: 1000, wantChunks: 16, wantLast: 1000 % 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := make([]byte, tt.total)
			for i := range want {
				want[i] = byte(i * 7)
			}

			device := transport.NewMock()
			for off := 0; off < tt.total; off += protocol.ChunkSize {
				device.QueueAck(want[off:min(off+protocol.ChunkSize, tt.total)])
			}

			rec := &progressRecorder{}
			prog := New(device, WithProgress(rec))

			got := make([]byte, tt.total)
			require.NoError(t, prog.Read(0x000200, got))
			assert.Equal(t, want, got)

			frames := device.Writes()
			require.Len(t, frames, tt.wantChunks)
			for i, frame := range frames {
				assert.Equal(t, byte(protocol.OpReadN), frame[0])
				assert.Equal(t, uint32(0x000200+i*protocol.ChunkSize), protocol.Uint24(frame[1:4]))
			}
			if tt.wantChunks > 0 {
				last := frames[len(frames)-1]
				assert.Equal(t, uint32(tt.wantLast), protocol.Uint24(last[4:7]))
			}

			require.Len(t, rec.reports, tt.wantChunks)
			for i, r := range rec.reports {
				assert.Equal(t, i*protocol.ChunkSize, r.Done)
				assert.Equal(t, tt.total, r.Total)
			}
		})
	}
}

func TestReadFirstFrame(t *testing.T) {
	device := transport.NewMock()
	device.QueueAck(make([]byte, 64))
	device.QueueAck(make([]byte, 64))

	require.NoError(t, New(device).Read(0, make([]byte, 128)))

	frames := device.Writes()
	require.Len(t, frames, 2)
	assert.Equal(t, []byte{0x0a, 0x00, 0x00, 0x00, 0x40, 0x00, 0x00}, frames[0])
	assert.Equal(t, []byte{0x0a, 0x40, 0x00, 0x00, 0x40, 0x00, 0x00}, frames[1])
}

func TestWriteChunking(t *testing.T) {
	data := make([]byte, 150)
	for i := range data {
		data[i] = byte(i)
	}

	device := transport.NewMock()
	rec := &progressRecorder{}
	require.NoError(t, New(device, WithProgress(rec)).Write(0x000010, data))

	writes := device.Writes()
	require.Len(t, writes, 9, "three chunks of header, data and exec")

	wantLens := []int{64, 64, 22}
	for i, n := range wantLens {
		header, payload, exec := writes[i*3], writes[i*3+1], writes[i*3+2]
		address := uint32(0x10 + i*64)

		assert.Equal(t, []byte{0x0d, byte(n), 0, 0, byte(address), byte(address >> 8), byte(address >> 16)}, header)
		assert.Equal(t, data[i*64:i*64+n], payload)
		assert.Equal(t, []byte{0x0f}, exec)
	}

	assert.Equal(t, []Progress{{0, 150}, {64, 150}, {128, 150}}, rec.reports)
}

func TestTransferAbortsOnFailure(t *testing.T) {
	device := transport.NewMock()
	device.QueueAck(make([]byte, 64))
	device.Queue(protocol.NAK)
	device.QueueAck(make([]byte, 64))

	rec := &progressRecorder{}
	logger := &MockLogger{}
	prog := New(device, WithProgress(rec), WithLogger(logger))

	err := prog.Read(0, make([]byte, 192))
	require.Error(t, err)
	assert.ErrorIs(t, err, protocol.ErrNak)
	assert.Contains(t, err.Error(), "read chunk at 0x000040")

	assert.Len(t, device.Writes(), 2, "no chunk after the failing one")
	assert.Equal(t, []Progress{{0, 192}}, rec.reports)
	assert.Equal(t, []string{"transfer aborted"}, logger.errorMsgs)
	assert.Empty(t, logger.infoMsgs)
}

func TestTransferTimeout(t *testing.T) {
	device := transport.NewMock()
	device.QueueAck(make([]byte, 10))

	err := New(device).Read(0, make([]byte, 64))
	assert.ErrorIs(t, err, transport.ErrTruncated)
}

func TestTransferRangeChecked(t *testing.T) {
	device := transport.NewMock()
	prog := New(device)

	var rangeErr *protocol.AddressRangeError
	err := prog.Write(0xFFFFC0, make([]byte, 65))
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, uint32(0xFFFFC0), rangeErr.Address)
	assert.Empty(t, device.Written(), "nothing sent for an invalid range")

	// the last byte is addressable; the mock simply has no answer queued
	err = prog.Read(protocol.MaxAddress, make([]byte, 1))
	assert.ErrorIs(t, err, transport.ErrTimeout)
}

func TestFramesMatchCommands(t *testing.T) {
	frame := func(cmd protocol.Command) []byte {
		b, err := cmd.Frame()
		require.NoError(t, err)
		return b
	}

	device := transport.NewMock()
	device.QueueAck([]byte("URP-PROGRAMMER\x00\x00"))
	device.QueueAck(nil)
	device.QueueAck([]byte{0xAA, 0xBB})

	prog := New(device)
	_, err := prog.QueryName()
	require.NoError(t, err)
	require.NoError(t, prog.Ping())
	_, err = prog.ReadChunk(0x0000F0, 2)
	require.NoError(t, err)
	require.NoError(t, prog.WriteChunk(0x000400, []byte{1, 2, 3}))

	assert.Equal(t, [][]byte{
		frame(protocol.QueryName{}),
		frame(protocol.Nop{}),
		frame(protocol.ReadN{Address: 0x0000F0, Length: 2}),
		frame(protocol.WriteN{Length: 3, Address: 0x000400}),
		{1, 2, 3},
		frame(protocol.Exec{}),
	}, device.Writes())
}
