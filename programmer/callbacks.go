package programmer

// Progress is a snapshot of a chunked transfer.
type Progress struct {
	// Done is the number of bytes transferred before the chunk that just
	// completed was counted
	Done int

	// Total is the size of the whole transfer
	Total int
}

// Percent returns floor(Done/Total*100), or 0 for an empty transfer.
func (p Progress) Percent() int {
	if p.Total <= 0 {
		return 0
	}
	return int(int64(p.Done) * 100 / int64(p.Total))
}

// ProgressSink receives progress once per completed chunk.
// OnProgress is called synchronously from the transfer loop and must
// return promptly; it cannot influence the transfer.
//
// Example:
//
//	prog := programmer.New(port,
//	    programmer.WithProgress(programmer.ProgressFunc(func(done, total int) {
//	        fmt.Printf("\r%3d%%", programmer.Progress{Done: done, Total: total}.Percent())
//	    })),
//	)
type ProgressSink interface {
	OnProgress(done, total int)
}

// ProgressFunc adapts an ordinary function to ProgressSink.
type ProgressFunc func(done, total int)

// OnProgress calls f(done, total).
func (f ProgressFunc) OnProgress(done, total int) {
	f(done, total)
}

// Logger is an optional logging interface that can be provided to the programmer.
// *slog.Logger satisfies it directly.
//
// Example:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
//	prog := programmer.New(port, programmer.WithLogger(logger))
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
