package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/docimport"
	"github.com/etnz/docimport/renderer"
	"github.com/google/subcommands"
)

type parseCmd struct {
	loadFlags
	output      string
	companyOnly bool
	strict      bool
}

func (*parseCmd) Name() string { return "parse" }
func (*parseCmd) Synopsis() string {
	return "extract activities from broker documents into a JSONL file"
}
func (*parseCmd) Usage() string {
	return `docimp parse [-o <file>] [-company-only] [-strict] <document>...

  Extracts the activities of each document (.pdf, .txt, .csv or .json) and
  writes them as JSON lines, one activity per line, in document order.
  Documents yielding no activity are summarized on stderr.

Usage Examples:
$ docimp parse -o activities.jsonl statements/*.pdf
$ docimp parse -rows-path '$.transactions[*]' export.json

`
}

func (p *parseCmd) SetFlags(f *flag.FlagSet) {
	p.loadFlags.SetFlags(f)
	f.StringVar(&p.output, "o", "", "Output file, appended to. Writes to stdout by default.")
	f.BoolVar(&p.companyOnly, "company-only", false, "Accept activities identifying the security by company name only.")
	f.BoolVar(&p.strict, "strict", false, "Fail unless every document is imported.")
}

func (p *parseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one document is required")
		return subcommands.ExitUsageError
	}
	opts, err := p.options()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	pipeline, err := NewPipeline(p.companyOnly)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	entries := importFiles(ctx, pipeline, f.Args(), opts)

	var w io.Writer = os.Stdout
	if p.output != "" {
		// Open the file in append mode, creating it if it doesn't exist.
		out, err := os.OpenFile(p.output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening output file %q: %v\n", p.output, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
		w = out
	}
	n, err := writeActivities(w, entries)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing activities: %v\n", err)
		return subcommands.ExitFailure
	}

	imported := 0
	for _, e := range entries {
		if e.Result.Status == docimport.StatusOK {
			imported++
			continue
		}
		fmt.Fprintf(os.Stderr, "%s: %s\n", e.Document, e.Result.Status)
	}
	fmt.Fprintf(os.Stderr, "Imported %d activities from %d of %d documents\n", n, imported, len(entries))
	if p.strict && imported < len(entries) {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// writeActivities encodes the activities of successful entries and
// returns how many were written.
func writeActivities(w io.Writer, entries []renderer.Entry) (int, error) {
	n := 0
	for _, e := range entries {
		if err := docimport.EncodeActivities(w, e.Result.Activities); err != nil {
			return n, fmt.Errorf("%s: %w", e.Document, err)
		}
		n += len(e.Result.Activities)
	}
	return n, nil
}
