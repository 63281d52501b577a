// Package cli wires the command-line surface: generate, list, stats
// and purge subcommands over the shared config and archive.
package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds the subcommand structs for registration and tests.
type commands struct {
	Generate *GenerateCommand
	List     *ListCommand
	Stats    *StatsCommand
	Purge    *PurgeCommand
}

func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "almagest"
	parser.LongDescription = "Astronomical event calendar generator: aspects, ingresses, stations, eclipses, almanac and more."

	cmds := &commands{
		Generate: &GenerateCommand{globals: &globals, version: version},
		List:     &ListCommand{globals: &globals, version: version},
		Stats:    &StatsCommand{globals: &globals, version: version},
		Purge:    &PurgeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("generate", "Detect events and export them", "Run every enabled detector over the configured year range and export the results.", cmds.Generate)
	parser.AddCommand("list", "List archived events", "List events from the SQLite archive with optional filters.", cmds.List)
	parser.AddCommand("stats", "Show archive statistics", "Show event counts and time bounds of the SQLite archive.", cmds.Stats)
	parser.AddCommand("purge", "Delete archived events for a year range", "Delete archived events whose start time falls in the given years.", cmds.Purge)

	return parser, &globals, cmds
}

// Run parses os.Args and executes the matched subcommand.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil). --version is
// handled before the parser since go-flags insists on a subcommand.
func RunWithArgs(version string, args []string) error {
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("almagest %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}
	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok && flagsErr.Type == goflags.ErrHelp {
			return nil
		}
		return err
	}
	return nil
}
