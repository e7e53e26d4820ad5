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

type brokersCmd struct{}

func (*brokersCmd) Name() string     { return "brokers" }
func (*brokersCmd) Synopsis() string { return "list the supported brokers" }
func (*brokersCmd) Usage() string {
	return `docimp brokers

  Lists the brokers whose documents can be imported, with the file kinds
  each one reads.

`
}

func (*brokersCmd) SetFlags(*flag.FlagSet) {}

func (*brokersCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	reg, err := NewRegistry(*zoneName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printBrokers(os.Stdout, reg)
	return subcommands.ExitSuccess
}

func printBrokers(w io.Writer, reg *docimport.Registry) {
	for _, e := range reg.Extractors() {
		kinds := []string{string(docimport.KindPDF), string(docimport.KindCSV)}
		if k, ok := e.(docimport.KindsSupporter); ok {
			kinds = kinds[:0]
			for _, kind := range k.Kinds() {
				kinds = append(kinds, string(kind))
			}
		}
		fmt.Fprintf(w, "%-12s %s\n", e.Name(), strings.Join(kinds, ", "))
	}
}
