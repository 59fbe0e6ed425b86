// Package programmer provides a high-level API for the ÜRP EEPROM programmer.
//
// # Overview
//
// A Programmer owns one transport.Transport and offers:
//   - Identification of the programmer (QueryName, Ping)
//   - Single device operations of at most 64 bytes (ReadChunk, WriteChunk)
//   - Transfers of any size, split into chunks (Read, Write)
//   - Read-back verification and 0xFF fill (Verify, Erase)
//
// # Basic Usage
//
//	port, err := transport.OpenSerial("/dev/ttyUSB0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	prog := programmer.New(port)
//
//	name, err := prog.QueryName()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("connected to", protocol.TrimName(name))
//
//	buf := make([]byte, 8192)
//	if err := prog.Read(0x000000, buf); err != nil {
//	    log.Fatal(err)
//	}
//
// # Progress Tracking
//
// Chunked transfers report after every chunk. The value passed is the
// number of bytes transferred before that chunk, so the first report is
// always 0 and the loop never reports 100%:
//
//	prog := programmer.New(port,
//	    programmer.WithProgress(programmer.ProgressFunc(func(done, total int) {
//	        fmt.Printf("\r%3d%%", programmer.Progress{Done: done, Total: total}.Percent())
//	    })),
//	)
//
// # Error Handling
//
// Every failure aborts the operation in progress. Nothing is retried and
// nothing already written is rolled back:
//   - protocol.ErrNak: the programmer rejected a command
//   - transport.ErrTimeout: no answer before the read deadline
//   - transport.ErrTruncated: the answer was shorter than expected
//   - *protocol.AddressRangeError: the transfer leaves the 24-bit space
//   - *MismatchError: Verify found a differing byte
//
// # Concurrency
//
// Commands are strictly sequential; the device is a single half-duplex
// endpoint. There is no way to cancel a transfer once it has started.
package programmer
