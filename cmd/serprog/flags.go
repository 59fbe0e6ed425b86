package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/retrofficina/go-serprog/protocol"
	"github.com/retrofficina/go-serprog/transport"
)

// options holds the parsed command line.
type options struct {
	port       string
	baudRate   int
	timeout    time.Duration
	addr       uint32
	size       int
	sizeSet    bool
	readFile   string
	writeFile  string
	verifyFile string
	erase      bool
	noVerify   bool
	traceFile  string
	verbose    bool
}

// operation returns the name of the requested operation, or "" when the
// tool should only identify the programmer.
func (o *options) operation() string {
	switch {
	case o.readFile != "":
		return "read"
	case o.writeFile != "":
		return "write"
	case o.verifyFile != "":
		return "verify"
	case o.erase:
		return "erase"
	default:
		return ""
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("serprog", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, `serprog - CLI for the ÜRP EEPROM programmer

Usage:
  serprog [flags]

Flags:
`)
		fs.PrintDefaults()
	}

	opts := &options{}
	var addr, size string

	fs.StringVar(&opts.port, "port", "/dev/ttyUSB0", "Serial port device")
	fs.StringVar(&opts.port, "p", "/dev/ttyUSB0", "Shorthand for -port")
	fs.IntVar(&opts.baudRate, "baudrate", transport.DefaultBaudRate, "Serial port baud rate")
	fs.IntVar(&opts.baudRate, "b", transport.DefaultBaudRate, "Shorthand for -baudrate")
	fs.StringVar(&size, "size", "", "Size in bytes (decimal, 0x hex or 0b binary)")
	fs.StringVar(&size, "s", "", "Shorthand for -size")
	fs.StringVar(&addr, "addr", "0", "Starting address (decimal, 0x hex or 0b binary)")
	fs.StringVar(&addr, "a", "0", "Shorthand for -addr")
	fs.StringVar(&opts.readFile, "read", "", "Read EEPROM into `file`")
	fs.StringVar(&opts.readFile, "r", "", "Shorthand for -read")
	fs.StringVar(&opts.writeFile, "write", "", "Write `file` to EEPROM")
	fs.StringVar(&opts.writeFile, "w", "", "Shorthand for -write")
	fs.StringVar(&opts.verifyFile, "verify", "", "Compare EEPROM contents with `file`")
	fs.BoolVar(&opts.erase, "erase", false, "Fill the range with 0xFF")
	fs.BoolVar(&opts.noVerify, "no-verify", false, "Skip read-back after -write or -erase")
	fs.DurationVar(&opts.timeout, "timeout", transport.DefaultReadTimeout, "Read timeout")
	fs.StringVar(&opts.traceFile, "trace", "", "Record serial traffic to `file` (CBOR)")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&opts.verbose, "v", false, "Shorthand for -verbose")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	a, err := parseNumber(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid -addr: %w", err)
	}
	if a > protocol.MaxAddress {
		return nil, fmt.Errorf("invalid -addr: 0x%X exceeds 0x%06X", a, protocol.MaxAddress)
	}
	opts.addr = uint32(a)

	if size != "" {
		n, err := parseNumber(size)
		if err != nil {
			return nil, fmt.Errorf("invalid -size: %w", err)
		}
		if n > protocol.MaxAddress+1 {
			return nil, fmt.Errorf("invalid -size: %d exceeds the 24-bit address space", n)
		}
		opts.size = int(n)
		opts.sizeSet = true
	}

	if err := opts.validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// validate checks flag combinations.
func (o *options) validate() error {
	selected := 0
	for _, set := range []bool{o.readFile != "", o.writeFile != "", o.verifyFile != "", o.erase} {
		if set {
			selected++
		}
	}
	if selected > 1 {
		return errors.New("-read, -write, -verify and -erase are mutually exclusive")
	}
	if op := o.operation(); op != "" && !o.sizeSet {
		return fmt.Errorf("-%s requires -size", op)
	}
	if o.noVerify && o.writeFile == "" && !o.erase {
		return errors.New("-no-verify only applies to -write and -erase")
	}
	return nil
}

// parseNumber accepts decimal, "0x" hexadecimal and "0b" binary numbers.
// A leading zero does not select octal.
func parseNumber(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	base := 10
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s, base = s[2:], 16
	case strings.HasPrefix(s, "0b"), strings.HasPrefix(s, "0B"):
		s, base = s[2:], 2
	}

	n, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			return 0, fmt.Errorf("%q: %w", numErr.Num, numErr.Err)
		}
		return 0, err
	}
	return n, nil
}
