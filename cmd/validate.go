package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/etnz/docimport"
	"github.com/etnz/docimport/renderer"
	"github.com/google/subcommands"
)

type validateCmd struct {
	companyOnly bool
	list        bool
	raw         bool
}

func (*validateCmd) Name() string { return "validate" }
func (*validateCmd) Synopsis() string {
	return "check that activities in JSONL files are well formed"
}
func (*validateCmd) Usage() string {
	return `docimp validate [-company-only] [-list] [<file.jsonl>...]

  Reads activities written by parse, from the files or from stdin, and
  reports every activity that is not well formed. Useful after editing an
  activity file by hand.

`
}

func (v *validateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&v.companyOnly, "company-only", false, "Accept activities identifying the security by company name only.")
	f.BoolVar(&v.list, "list", false, "Display the well formed activities.")
	f.BoolVar(&v.raw, "markdown", false, "With -list, print the raw markdown instead of rendering it.")
}

func (v *validateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	loc, err := time.LoadLocation(*zoneName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot load zone %q: %v\n", *zoneName, err)
		return subcommands.ExitFailure
	}
	validator := docimport.Validator{AllowCompanyOnly: v.companyOnly, Clock: docimport.SystemClock, Location: loc}

	files := f.Args()
	if len(files) == 0 {
		files = []string{"-"}
	}
	var valid []*docimport.Activity
	rejected := 0
	for _, file := range files {
		activities, err := readActivities(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		ok, errs := validateAll(validator, activities)
		for _, err := range errs {
			fmt.Fprintf(os.Stderr, "%s: %v\n", file, err)
		}
		valid = append(valid, ok...)
		rejected += len(errs)
	}

	if v.list {
		if err := printMarkdown(os.Stdout, renderer.ActivitiesMarkdown("Activities", valid), v.raw); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	if rejected > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d activities are not well formed\n", rejected, rejected+len(valid))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func readActivities(file string) ([]*docimport.Activity, error) {
	var r io.Reader = os.Stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	activities, err := docimport.DecodeActivities(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return activities, nil
}

// validateAll splits activities into the well formed ones and the errors
// of the others, which tell the activity's position and description.
func validateAll(v docimport.Validator, activities []*docimport.Activity) ([]*docimport.Activity, []error) {
	var (
		valid []*docimport.Activity
		errs  []error
	)
	for i, a := range activities {
		if _, err := v.Validate(a); err != nil {
			errs = append(errs, fmt.Errorf("activity %d (%s): %w", i+1, renderer.Activity(a), err))
			continue
		}
		valid = append(valid, a)
	}
	return valid, errs
}
