// Command psu-log is a tool for viewing and analyzing SCPI session trace files.
//
// Trace files are created by psuctl when run with the -trace flag.
//
// Usage:
//
//	psu-log <command> [flags] <file.plog>
//
// Commands:
//
//	view     View trace file in human-readable format
//	export   Export trace file to JSONL, CSV or YAML
//	filter   Filter trace file and write to new file
//	stats    Show statistics about the trace file
//
// Examples:
//
//	# View all events
//	psu-log view bench.plog
//
//	# View only commands written to the instrument
//	psu-log view --direction out bench.plog
//
//	# View only measurement exchanges
//	psu-log view --cmd MEAS bench.plog
//
//	# Export to JSONL
//	psu-log export --format jsonl bench.plog
//
//	# Filter by session and save to new file
//	psu-log filter --session 3f2a9c1e-... -o session.plog bench.plog
//
//	# Show statistics
//	psu-log stats bench.plog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/psu-tools/psu-go/cmd/psu-log/commands"
)

const usage = `psu-log - SCPI Session Trace Analyzer

Usage:
  psu-log <command> [flags] <file.plog>

Commands:
  view     View trace file in human-readable format
  export   Export trace file to JSONL, CSV or YAML
  filter   Filter trace file and write to new file
  stats    Show statistics about the trace file

Use "psu-log <command> -help" for more information about a command.
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
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// filterFlags registers the event selection flags shared by view and filter.
func filterFlags(fs *flag.FlagSet) *commands.FilterOptions {
	opts := &commands.FilterOptions{}
	fs.StringVar(&opts.SessionID, "session", "", "Filter by session ID")
	fs.StringVar(&opts.Resource, "resource", "", "Filter by endpoint resource identifier")
	fs.StringVar(&opts.Command, "cmd", "", "Filter exchanges by command prefix (case-insensitive)")
	fs.StringVar(&opts.Direction, "direction", "", "Filter by direction (in, out)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (command, response, state, error)")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter events at or after time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter events before time (RFC3339)")
	return opts
}

func parseArgs(fs *flag.FlagSet, args []string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: trace file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `psu-log view - View trace file in human-readable format

Usage:
  psu-log view [flags] <file.plog>

Flags:
`)
		fs.PrintDefaults()
	}

	opts := filterFlags(fs)
	path := parseArgs(fs, args)

	filter, err := opts.Build()
	if err != nil {
		fail(err)
	}
	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `psu-log export - Export trace file to JSONL, CSV or YAML

Usage:
  psu-log export [flags] <file.plog>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv, yaml)")
	output := fs.String("o", "", "Output file (default: stdout)")
	path := parseArgs(fs, args)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `psu-log filter - Filter trace file and write to new file

Usage:
  psu-log filter [flags] -o <out.plog> <file.plog>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (required)")
	opts := filterFlags(fs)
	path := parseArgs(fs, args)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	count, err := commands.RunFilter(path, *output, *opts)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Filtered %d events to %s\n", count, *output)
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `psu-log stats - Show statistics about the trace file

Usage:
  psu-log stats <file.plog>
`)
	}

	path := parseArgs(fs, args)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
