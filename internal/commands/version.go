package commands

import (
	"errors"
	"fmt"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"
)

// VersionCommand handles the version command functionality
type VersionCommand struct{}

// VersionOptions holds command-line options for the version command
type VersionOptions struct {
	Short bool `short:"s" long:"short" description:"Print only the version number"`
	Help  bool `short:"h" long:"help"  description:"Show this help message"`
}

// Help returns the help text for the version command
func (c *VersionCommand) Help() string {
	var opts VersionOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = OptionsUsage

	formatter := &HelpFormatter{
		Command:     "version",
		Description: "Print the clara-release build information.",
		Examples: []Example{
			{Command: "clara-release version", Description: "Show version, commit, and build date"},
			{Command: "clara-release version --short", Description: "Show only the version number"},
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the version command
func (c *VersionCommand) Synopsis() string {
	return "Print build information"
}

// Run executes the version command with the given arguments
func (c *VersionCommand) Run(args []string) int {
	var opts VersionOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = OptionsUsage

	_, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		fmt.Printf("Error parsing arguments: %v\n", err)
		return 1
	}

	if opts.Short {
		fmt.Println(BuildVersion)
		return 0
	}

	fmt.Printf("clara-release %s (commit %s, built %s)\n", BuildVersion, BuildCommit, BuildDate)
	return 0
}

// VersionCommandFactory creates a new version command instance
func VersionCommandFactory() (cli.Command, error) {
	return &VersionCommand{}, nil
}
