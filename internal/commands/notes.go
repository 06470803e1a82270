package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"

	"github.com/claraverse-space/clara-release/pkg/checksum"
	"github.com/claraverse-space/clara-release/pkg/config"
	"github.com/claraverse-space/clara-release/pkg/gitmeta"
	"github.com/claraverse-space/clara-release/pkg/notes"
	"github.com/claraverse-space/clara-release/pkg/term"
	"github.com/claraverse-space/clara-release/pkg/version"
)

// NotesCommand handles the notes command functionality
type NotesCommand struct{}

// NotesOptions holds command-line options for the notes command
type NotesOptions struct {
	Tag     string `short:"t" long:"tag"     description:"Release tag the notes describe"                   required:"true"`
	Dist    string `short:"d" long:"dist"    description:"Directory containing the packaged archives"`
	Output  string `short:"o" long:"output"  description:"Write the notes to a file instead of stdout"`
	Repo    string `          long:"repo"    description:"owner/repo override (defaults to the origin remote)"`
	Config  string `short:"c" long:"config"  description:"Path to config file"`
	Verbose bool   `short:"v" long:"verbose" description:"Verbose output"`
	Help    bool   `short:"h" long:"help"    description:"Show this help message"`
}

// Help returns the help text for the notes command
func (c *NotesCommand) Help() string {
	var opts NotesOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = OptionsUsage

	formatter := &HelpFormatter{
		Command:     "notes",
		Description: "Render release notes for an existing output directory.",
		Examples: []Example{
			{Command: "clara-release notes --tag v1.2.3", Description: "Print notes for the archives in ./dist"},
			{Command: "clara-release notes --tag v1.2.3 --output notes.md", Description: "Write the notes to a file"},
		},
		Notes: []string{
			"Archive digests are recomputed from the files, not read from the manifest.",
			"The output is deterministic for a given set of archives.",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the notes command
func (c *NotesCommand) Synopsis() string {
	return "Render release notes for packaged archives"
}

// Run executes the notes command with the given arguments
func (c *NotesCommand) Run(args []string) int {
	var opts NotesOptions
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

	if err := version.Validate(opts.Tag); err != nil {
		fmt.Println(term.Fail("%v", err))
		return 1
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

	owner, repo, err := resolveSlug(root, opts.Repo, cfg)
	if err != nil {
		fmt.Println(term.Fail("%v", err))
		return 1
	}

	dist := cfg.Dist
	if !filepath.IsAbs(dist) {
		dist = filepath.Join(root, dist)
	}

	input, err := c.assembleInput(opts.Tag, dist, cfg, root)
	if err != nil {
		fmt.Println(term.Fail("%v", err))
		return 1
	}

	gen := &notes.Generator{Owner: owner, Repo: repo, Product: cfg.Product, Tagline: cfg.Description}
	body := gen.Generate(*input)

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(body), 0o600); err != nil {
			fmt.Println(term.Fail("failed to write notes: %v", err))
			return 1
		}
		fmt.Println(term.Success("Wrote release notes to %s", opts.Output))
		return 0
	}

	fmt.Print(body)
	return 0
}

// assembleInput reconstructs the notes input from the archives on disk.
func (c *NotesCommand) assembleInput(
	tag, dist string,
	cfg *config.Config,
	root string,
) (*notes.Input, error) {
	archives, err := filepath.Glob(filepath.Join(dist, "*.zip"))
	if err != nil {
		return nil, err
	}
	if len(archives) == 0 {
		return nil, fmt.Errorf("no archives found in %s", dist)
	}
	sort.Strings(archives)

	input := &notes.Input{
		Version:   tag,
		Commit:    gitmeta.ShortCommit(root),
		Toolchain: gitmeta.Toolchain(),
	}

	for _, path := range archives {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		digest, err := checksum.File(path)
		if err != nil {
			return nil, err
		}

		name := filepath.Base(path)
		input.Assets = append(input.Assets, notes.Asset{
			Description: describeArchive(name, cfg),
			Filename:    name,
			Size:        info.Size(),
			Digest:      digest,
		})

		// The newest archive dates the build.
		stamp := info.ModTime().UTC().Format("2006-01-02T15:04:05Z")
		if stamp > input.BuildTime {
			input.BuildTime = stamp
		}
	}

	return input, nil
}

// describeArchive maps an archive name back onto its matrix target.
func describeArchive(name string, cfg *config.Config) string {
	for _, target := range cfg.Targets {
		if strings.HasSuffix(name, fmt.Sprintf("-%s-%s.zip", target.OS, target.Arch)) {
			return target.Description
		}
	}
	return strings.TrimSuffix(name, ".zip")
}

// NotesCommandFactory creates a new notes command instance
func NotesCommandFactory() (cli.Command, error) {
	return &NotesCommand{}, nil
}
