// Command docimp imports broker documents into a file of activities.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/docimport/cmd"
	"github.com/google/subcommands"
)

func main() {
	cmd.Completion().Complete("docimp")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	cmd.SetupLogging()

	if name := flag.Arg(0); name != "" && !registered(commander, name) {
		if ok, code := cmd.RunExtension(name, flag.Args()[1:]); ok {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

func registered(c *subcommands.Commander, name string) (found bool) {
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		found = found || cmd.Name() == name
	})
	return found
}
