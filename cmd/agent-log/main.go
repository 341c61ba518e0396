// Command agent-log is a tool for viewing and analyzing agent trace files.
//
// Trace files are created by passing a log.FileLogger to agents, e.g. by
// running agent-example with the -protocol-log flag.
//
// Usage:
//
//	agent-log <command> [flags] <file.alog>
//
// Commands:
//
//	view     View trace in human-readable format
//	export   Export trace to JSONL or CSV format
//	filter   Filter trace and write to new file
//	stats    Show statistics about the trace
//
// Examples:
//
//	# View all events
//	agent-log view thermostat.alog
//
//	# View only value changes of one agent
//	agent-log view -name setpoint -category change thermostat.alog
//
//	# Export to CSV
//	agent-log export -format csv -o trace.csv thermostat.alog
//
//	# Keep one agent's events in a new file
//	agent-log filter -agent abc12345 -o setpoint.alog thermostat.alog
//
//	# Show statistics
//	agent-log stats thermostat.alog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mash-protocol/agent-go/cmd/agent-log/commands"
)

const usage = `agent-log - Agent Trace Analyzer

Usage:
  agent-log <command> [flags] <file.alog>

Commands:
  view     View trace in human-readable format
  export   Export trace to JSONL or CSV format
  filter   Filter trace and write to new file
  stats    Show statistics about the trace

Use "agent-log <command> -help" for more information about a command.
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

// newFlagSet returns a flag set with the usage text shared by all commands.
func newFlagSet(name, summary string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "agent-log %s - %s\n\nUsage:\n  agent-log %s [flags] <file.alog>\n\nFlags:\n", name, summary, name)
		fs.PrintDefaults()
	}
	return fs
}

// addFilterFlags registers the event filter flags on fs.
func addFilterFlags(fs *flag.FlagSet, opts *commands.FilterOptions) {
	fs.StringVar(&opts.AgentID, "agent", "", "Filter by agent ID or ID prefix")
	fs.StringVar(&opts.AgentName, "name", "", "Filter by agent name")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (change, subscription)")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
}

// parseArgs parses args and returns the log file path.
func parseArgs(fs *flag.FlagSet, args []string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
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
	fs := newFlagSet("view", "View trace in human-readable format")
	var opts commands.FilterOptions
	addFilterFlags(fs, &opts)
	path := parseArgs(fs, args)

	if err := commands.RunView(path, opts, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := newFlagSet("export", "Export trace to JSONL or CSV format")
	var opts commands.FilterOptions
	addFilterFlags(fs, &opts)
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	path := parseArgs(fs, args)

	if err := commands.RunExport(path, *format, *output, opts, os.Stdout); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := newFlagSet("filter", "Filter trace and write to new file")
	var opts commands.FilterOptions
	addFilterFlags(fs, &opts)
	output := fs.String("o", "", "Output file (required)")
	path := parseArgs(fs, args)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	n, err := commands.RunFilter(path, *output, opts)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Filtered %d events to %s\n", n, *output)
}

func runStats(args []string) {
	fs := newFlagSet("stats", "Show statistics about the trace")
	path := parseArgs(fs, args)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
