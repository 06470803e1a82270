package commands

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"

	"github.com/claraverse-space/clara-release/pkg/checksum"
	"github.com/claraverse-space/clara-release/pkg/term"
)

// ChecksumsCommand handles the checksums command functionality
type ChecksumsCommand struct{}

// ChecksumsOptions holds command-line options for the checksums command
type ChecksumsOptions struct {
	Dist    string `short:"d" long:"dist"    description:"Directory containing the packaged archives"`
	Output  string `short:"o" long:"output"  description:"Write the manifest to a file instead of stdout"`
	Config  string `short:"c" long:"config"  description:"Path to config file"`
	Verbose bool   `short:"v" long:"verbose" description:"Verbose output"`
	Help    bool   `short:"h" long:"help"    description:"Show this help message"`
}

// Help returns the help text for the checksums command
func (c *ChecksumsCommand) Help() string {
	var opts ChecksumsOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = OptionsUsage

	formatter := &HelpFormatter{
		Command:     "checksums",
		Description: "Recompute the SHA-256 checksum manifest for an existing output directory.",
		Examples: []Example{
			{Command: "clara-release checksums", Description: "Print the manifest for ./dist"},
			{Command: "clara-release checksums --output dist/checksums.txt", Description: "Rewrite the manifest file"},
		},
		Notes: []string{
			"Covers every .zip archive in the directory, in name order.",
			"Manifest lines use the standard two-space format accepted by sha256sum -c.",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the checksums command
func (c *ChecksumsCommand) Synopsis() string {
	return "Recompute the checksum manifest for packaged archives"
}

// Run executes the checksums command with the given arguments
func (c *ChecksumsCommand) Run(args []string) int {
	var opts ChecksumsOptions
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

	dist := opts.Dist
	if dist == "" {
		cfg, cfgErr := loadPipelineConfig(opts.Config, "")
		if cfgErr != nil {
			fmt.Println(term.Fail("%v", cfgErr))
			return 1
		}
		dist = cfg.Dist
	}

	manifest, err := manifestForDist(dist, opts.Verbose)
	if err != nil {
		fmt.Println(term.Fail("%v", err))
		return 1
	}

	if opts.Output != "" {
		if err := manifest.WriteFile(opts.Output); err != nil {
			fmt.Println(term.Fail("%v", err))
			return 1
		}
		fmt.Println(term.Success("Wrote %d checksum(s) to %s", manifest.Len(), opts.Output))
		return 0
	}

	fmt.Print(manifest.Render())
	return 0
}

// manifestForDist digests every archive in the directory, in name order.
func manifestForDist(dist string, verbose bool) (*checksum.Manifest, error) {
	archives, err := filepath.Glob(filepath.Join(dist, "*.zip"))
	if err != nil {
		return nil, err
	}
	if len(archives) == 0 {
		return nil, fmt.Errorf("no archives found in %s", dist)
	}
	sort.Strings(archives)

	manifest := &checksum.Manifest{}
	for _, path := range archives {
		if verbose {
			fmt.Println(term.Step("Hashing %s", filepath.Base(path)))
		}
		if err := manifest.AppendFile(path, filepath.Base(path)); err != nil {
			return nil, err
		}
	}
	return manifest, nil
}

// ChecksumsCommandFactory creates a new checksums command instance
func ChecksumsCommandFactory() (cli.Command, error) {
	return &ChecksumsCommand{}, nil
}
