package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"

	"github.com/claraverse-space/clara-release/pkg/gitmeta"
	"github.com/claraverse-space/clara-release/pkg/notes"
	"github.com/claraverse-space/clara-release/pkg/pipeline"
	"github.com/claraverse-space/clara-release/pkg/term"
	"github.com/claraverse-space/clara-release/pkg/version"
)

// BuildCommand handles the build command functionality
type BuildCommand struct{}

// BuildOptions holds command-line options for the build command
type BuildOptions struct {
	Tag     string `short:"t" long:"tag"     description:"Version tag to stamp into the binaries" default:"dev"`
	SkipUI  bool   `          long:"skip-ui" description:"Skip the UI build stage"`
	Dist    string `          long:"dist"    description:"Output directory override"`
	Config  string `short:"c" long:"config"  description:"Path to config file"`
	Verbose bool   `short:"v" long:"verbose" description:"Verbose output"`
	Help    bool   `short:"h" long:"help"    description:"Show this help message"`
}

// Help returns the help text for the build command
func (c *BuildCommand) Help() string {
	var opts BuildOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = OptionsUsage

	formatter := &HelpFormatter{
		Command:     "build",
		Description: "Build the release matrix, package it, and write the checksum manifest, without publishing.",
		Examples: []Example{
			{Command: "clara-release build", Description: "Build a local dev matrix"},
			{Command: "clara-release build --tag v1.2.3", Description: "Build binaries stamped with v1.2.3"},
			{Command: "clara-release build --skip-ui --verbose", Description: "Skip the UI stage with detailed output"},
		},
		Notes: []string{
			"Equivalent to 'release --skip-upload' but accepts any tag, including 'dev'.",
			"Targets that fail to build are reported at the end and the command exits non-zero.",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the build command
func (c *BuildCommand) Synopsis() string {
	return "Build and package the release matrix locally"
}

// Run executes the build command with the given arguments
func (c *BuildCommand) Run(args []string) int {
	var opts BuildOptions
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

	// A dev build may use any stamp; a real-looking tag still has to parse.
	if opts.Tag != "dev" {
		if err := version.Validate(opts.Tag); err != nil {
			fmt.Println(term.Fail("%v", err))
			return 1
		}
	}

	cfg, err := loadPipelineConfig(opts.Config, opts.Dist)
	if err != nil {
		fmt.Println(term.Fail("%v", err))
		return 1
	}

	root, err := os.Getwd()
	if err != nil {
		fmt.Println(term.Fail("%v", err))
		return 1
	}

	p := &pipeline.Pipeline{
		Config:    cfg,
		Tag:       opts.Tag,
		Root:      root,
		Commit:    gitmeta.ShortCommit(root),
		Toolchain: gitmeta.Toolchain(),
		SkipUI:    opts.SkipUI,
		Verbose:   opts.Verbose,
		Out:       func(line string) { fmt.Println(line) },
	}

	fmt.Println(term.Header(fmt.Sprintf("Building %s %s", cfg.Product, opts.Tag)))

	summary, err := p.Run()
	if err != nil {
		fmt.Println(term.Fail("%v", err))
		return 1
	}

	for _, asset := range summary.Assets {
		info, statErr := os.Stat(asset.ArchivePath)
		if statErr != nil {
			continue
		}
		fmt.Println(term.Success("%s (%s)", asset.Name, notes.HumanSize(info.Size())))
	}
	fmt.Println(term.Success("Checksums written to %s", summary.ManifestPath))

	if !summary.AllTargetsSucceeded() {
		fmt.Println(term.Warn("%d target(s) failed to build:", len(summary.Failures)))
		for _, failure := range summary.Failures {
			fmt.Println(term.Fail("  %s: %v", failure.Target.Description, failure.Err))
		}
		return 1
	}
	return 0
}

// BuildCommandFactory creates a new build command instance
func BuildCommandFactory() (cli.Command, error) {
	return &BuildCommand{}, nil
}
