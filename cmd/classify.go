package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/docimport"
	"github.com/google/subcommands"
)

type classifyCmd struct {
	loadFlags
}

func (*classifyCmd) Name() string { return "classify" }
func (*classifyCmd) Synopsis() string {
	return "tell which broker produced each document"
}
func (*classifyCmd) Usage() string {
	return `docimp classify <document>...

  Prints, for each document, the brokers whose extractor recognizes it.
  Nothing is extracted. A document is imported only when exactly one
  broker recognizes it.

`
}

func (c *classifyCmd) SetFlags(f *flag.FlagSet) {
	c.loadFlags.SetFlags(f)
}

func (c *classifyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one document is required")
		return subcommands.ExitUsageError
	}
	opts, err := c.options()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	reg, err := NewRegistry(*zoneName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	status := subcommands.ExitSuccess
	for _, file := range f.Args() {
		doc, err := docimport.LoadDocument(file, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			status = subcommands.ExitFailure
			continue
		}
		printClassification(os.Stdout, file, reg.Classify(doc, doc.Kind))
	}
	return status
}

func printClassification(w io.Writer, file string, matches []docimport.Extractor) {
	switch len(matches) {
	case 0:
		fmt.Fprintf(w, "%s: no match\n", file)
	case 1:
		fmt.Fprintf(w, "%s: %s\n", file, matches[0].Name())
	default:
		fmt.Fprintf(w, "%s: ambiguous (%s)\n", file, strings.Join(docimport.Names(matches), ", "))
	}
}
