// Command serprog reads and writes EEPROMs through an ÜRP programmer.
//
// Usage:
//
//	serprog [flags]
//
// Examples:
//
//	# Identify the programmer
//	serprog -port /dev/ttyUSB0
//
//	# Dump 8 KiB starting at 0x2000
//	serprog -addr 0x2000 -size 8192 -read dump.bin
//
//	# Program a 32 KiB image and verify it
//	serprog -size 32768 -write image.bin
//
//	# Record the serial traffic of a session
//	serprog -size 64 -read head.bin -trace session.trace
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/retrofficina/go-serprog/trace"
	"github.com/retrofficina/go-serprog/transport"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run parses args, opens the serial port and performs the requested
// operation.
func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, opts.verbose)

	port, err := transport.OpenSerial(opts.port,
		transport.WithBaudRate(opts.baudRate),
		transport.WithReadTimeout(opts.timeout),
	)
	if err != nil {
		return fmt.Errorf("cannot open serial port: %w", err)
	}
	defer port.Close()

	var t transport.Transport = port

	var tracers []trace.Logger
	if opts.traceFile != "" {
		fl, err := trace.NewFileLogger(opts.traceFile)
		if err != nil {
			return fmt.Errorf("cannot open trace file: %w", err)
		}
		defer func() {
			if err := fl.Close(); err != nil {
				logger.Warn("trace file incomplete", "error", err)
			}
		}()
		tracers = append(tracers, fl)
	}
	if opts.verbose {
		tracers = append(tracers, trace.NewSlogAdapter(logger))
	}
	if len(tracers) > 0 {
		traced := trace.Wrap(port, trace.NewMultiLogger(tracers...))
		logger.Debug("tracing serial traffic", "session", traced.SessionID())
		t = traced
	}

	return session(opts, t, logger, stdout, stderr)
}

// newLogger builds the console logger. Debug output is only shown with
// -verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
