// Command serprog-trace views and exports serial trace files.
//
// Trace files are written by serprog when run with the -trace flag.
//
// Usage:
//
//	serprog-trace <command> [flags] <file.trace>
//
// Commands:
//
//	view     View trace file with hex dumps
//	export   Export trace file to JSONL or YAML
//
// Examples:
//
//	# View all traffic
//	serprog-trace view session.trace
//
//	# View only bytes received from the programmer
//	serprog-trace view -direction in session.trace
//
//	# Export failed reads and writes to YAML
//	serprog-trace export -format yaml -errors session.trace
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/retrofficina/go-serprog/cmd/serprog-trace/commands"
	"github.com/retrofficina/go-serprog/trace"
)

const usage = `serprog-trace - ÜRP programmer trace viewer

Usage:
  serprog-trace <command> [flags] <file.trace>

Commands:
  view     View trace file with hex dumps
  export   Export trace file to JSONL or YAML

Use "serprog-trace <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// filterFlags registers the flags shared by view and export.
func filterFlags(fs *flag.FlagSet) func() (trace.Filter, error) {
	session := fs.String("session", "", "Filter by session ID")
	direction := fs.String("direction", "", "Filter by direction (in, out)")
	errorsOnly := fs.Bool("errors", false, "Show only failed operations")

	return func() (trace.Filter, error) {
		filter := trace.Filter{SessionID: *session, ErrorsOnly: *errorsOnly}
		if *direction != "" {
			d, err := commands.ParseDirectionFlag(*direction)
			if err != nil {
				return trace.Filter{}, err
			}
			filter.Direction = &d
		}
		return filter, nil
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `serprog-trace view - View trace file with hex dumps

Usage:
  serprog-trace view [flags] <file.trace>

Flags:
`)
		fs.PrintDefaults()
	}

	buildFilter := filterFlags(fs)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: trace file path required")
		fs.Usage()
		os.Exit(1)
	}

	filter, err := buildFilter()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := commands.RunView(fs.Arg(0), filter, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `serprog-trace export - Export trace file to JSONL or YAML

Usage:
  serprog-trace export [flags] <file.trace>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, yaml)")
	output := fs.String("o", "", "Output file (default: stdout)")
	buildFilter := filterFlags(fs)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: trace file path required")
		fs.Usage()
		os.Exit(1)
	}

	filter, err := buildFilter()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := commands.RunExport(fs.Arg(0), *format, *output, filter); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
