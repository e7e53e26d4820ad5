package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/docimport/renderer"
	"github.com/google/subcommands"
)

type reportCmd struct {
	loadFlags
	companyOnly bool
	raw         bool
}

func (*reportCmd) Name() string { return "report" }
func (*reportCmd) Synopsis() string {
	return "display what an import of documents would yield"
}
func (*reportCmd) Usage() string {
	return `docimp report [-markdown] [-company-only] <document>...

  Processes the documents like parse, without writing anything, and
  displays a report: the number of documents per status, the activities
  found and the documents that yielded none.

`
}

func (r *reportCmd) SetFlags(f *flag.FlagSet) {
	r.loadFlags.SetFlags(f)
	f.BoolVar(&r.companyOnly, "company-only", false, "Accept activities identifying the security by company name only.")
	f.BoolVar(&r.raw, "markdown", false, "Print the raw markdown instead of rendering it.")
}

func (r *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one document is required")
		return subcommands.ExitUsageError
	}
	opts, err := r.options()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	pipeline, err := NewPipeline(r.companyOnly)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	entries := importFiles(ctx, pipeline, f.Args(), opts)
	if err := printMarkdown(os.Stdout, renderer.ReportMarkdown(entries), r.raw); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
