// Package trace records the raw byte traffic between host and programmer.
//
// Wrap a transport.Transport to emit one Event per write and per read.
// Events go to any Logger:
//   - FileLogger appends them to a file as a stream of CBOR items
//   - SlogAdapter prints them through log/slog
//   - MultiLogger fans out to several loggers
//
// Reader decodes a trace file again, optionally filtered; the
// serprog-trace command is built on it.
//
//	fl, err := trace.NewFileLogger("session.trace")
//	if err != nil {
//	    return err
//	}
//	defer fl.Close()
//
//	prog := programmer.New(trace.Wrap(port, fl))
package trace
