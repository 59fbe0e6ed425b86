package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/retrofficina/go-serprog/programmer"
	"github.com/retrofficina/go-serprog/protocol"
	"github.com/retrofficina/go-serprog/transport"
)

// session identifies the programmer and runs the selected operation over t.
func session(opts *options, t transport.Transport, logger *slog.Logger, stdout, stderr io.Writer) error {
	bar := newPercentBar(stderr)
	prog := programmer.New(t,
		programmer.WithLogger(logger),
		programmer.WithProgress(bar),
	)

	name, err := prog.QueryName()
	if err != nil {
		return fmt.Errorf("cannot get programmer name: %w", err)
	}
	logger.Info("successfully connected", "programmer", protocol.TrimName(name))

	switch opts.operation() {
	case "read":
		fmt.Fprintf(stdout, "reading %d bytes into %s\n", opts.size, opts.readFile)
		data := make([]byte, opts.size)
		err := prog.Read(opts.addr, data)
		bar.finish(err == nil)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.readFile, data, 0644); err != nil {
			return fmt.Errorf("cannot write output file: %w", err)
		}

	case "write":
		data, err := readInput(opts.writeFile, opts.size)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "writing %d bytes from %s\n", opts.size, opts.writeFile)
		err = prog.Write(opts.addr, data)
		bar.finish(err == nil)
		if err != nil {
			return err
		}
		if !opts.noVerify {
			return verify(prog, bar, opts.addr, data, stdout)
		}

	case "verify":
		data, err := readInput(opts.verifyFile, opts.size)
		if err != nil {
			return err
		}
		return verify(prog, bar, opts.addr, data, stdout)

	case "erase":
		fmt.Fprintf(stdout, "erasing %d bytes at 0x%06X\n", opts.size, opts.addr)
		err := prog.Erase(opts.addr, opts.size)
		bar.finish(err == nil)
		if err != nil {
			return err
		}
		if !opts.noVerify {
			return blankCheck(prog, bar, opts.addr, opts.size, stdout)
		}
	}

	return nil
}

func verify(prog *programmer.Programmer, bar *percentBar, addr uint32, data []byte, stdout io.Writer) error {
	fmt.Fprintf(stdout, "verifying %d bytes\n", len(data))
	err := prog.Verify(addr, data)
	bar.finish(err == nil)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, "verification OK")
	return nil
}

// blankCheck reads back an erased range and expects only 0xFF.
func blankCheck(prog *programmer.Programmer, bar *percentBar, addr uint32, size int, stdout io.Writer) error {
	fmt.Fprintln(stdout, "blank checking")
	err := prog.Verify(addr, bytes.Repeat([]byte{0xFF}, size))
	bar.finish(err == nil)
	if err != nil {
		return fmt.Errorf("EEPROM is not blank: %w", err)
	}
	fmt.Fprintln(stdout, "erased successfully")
	return nil
}

// readInput reads exactly size bytes from the start of path.
func readInput(path string, size int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open input file: %w", err)
	}
	defer f.Close()

	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, fmt.Errorf("cannot read %d bytes from %s: %w", size, path, err)
	}
	return data, nil
}

// percentBar renders transfer progress as a single updating percent line.
type percentBar struct {
	w    io.Writer
	last int
}

func newPercentBar(w io.Writer) *percentBar {
	return &percentBar{w: w, last: -1}
}

// OnProgress redraws the line when the percentage changes.
func (b *percentBar) OnProgress(done, total int) {
	pct := programmer.Progress{Done: done, Total: total}.Percent()
	if pct == b.last {
		return
	}
	b.last = pct
	fmt.Fprintf(b.w, "\r%3d%%", pct)
}

// finish ends the line, drawing 100% if the transfer succeeded.
func (b *percentBar) finish(ok bool) {
	if b.last < 0 {
		return
	}
	if ok {
		fmt.Fprint(b.w, "\r100%")
	}
	fmt.Fprintln(b.w)
	b.last = -1
}
