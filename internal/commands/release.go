package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"

	"github.com/claraverse-space/clara-release/pkg/gitmeta"
	"github.com/claraverse-space/clara-release/pkg/notes"
	"github.com/claraverse-space/clara-release/pkg/pipeline"
	"github.com/claraverse-space/clara-release/pkg/publish"
	"github.com/claraverse-space/clara-release/pkg/term"
	"github.com/claraverse-space/clara-release/pkg/version"
)

// NotesFileName is the rendered release notes file written into dist.
const NotesFileName = "release-notes.md"

// ReleaseCommand handles the release command functionality
type ReleaseCommand struct{}

// ReleaseOptions holds command-line options for the release command
type ReleaseOptions struct {
	Tag        string `short:"t" long:"tag"         description:"Release tag, e.g. v1.2.3"                           required:"true"`
	Name       string `          long:"name"        description:"Release title (defaults to the tag)"`
	Notes      string `          long:"notes"       description:"Release notes body (defaults to generated notes)"`
	NotesFile  string `          long:"notes-file"  description:"Read the release notes body from a file"`
	Draft      bool   `          long:"draft"       description:"Create the release as a draft"`
	Prerelease bool   `          long:"prerelease"  description:"Mark the release as a prerelease (auto-detected from the tag)"`
	SkipUpload bool   `          long:"skip-upload" description:"Build and package only; do not touch GitHub"`
	SkipUI     bool   `          long:"skip-ui"     description:"Skip the UI build stage"`
	Repo       string `          long:"repo"        description:"owner/repo override (defaults to the origin remote)"`
	Token      string `          long:"token"       description:"GitHub API token"`
	TokenFile  string `          long:"token-file"  description:"Read the GitHub API token from a file"`
	Dist       string `          long:"dist"        description:"Output directory override"`
	Config     string `short:"c" long:"config"      description:"Path to config file"`
	Verbose    bool   `short:"v" long:"verbose"     description:"Verbose output"`
	Help       bool   `short:"h" long:"help"        description:"Show this help message"`
}

// Help returns the help text for the release command
func (c *ReleaseCommand) Help() string {
	var opts ReleaseOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = OptionsUsage

	formatter := &HelpFormatter{
		Command:     "release",
		Description: "Build the full release matrix, package it, and publish it to GitHub.",
		Examples: []Example{
			{Command: "clara-release release --tag v1.2.3", Description: "Build and publish v1.2.3"},
			{Command: "clara-release release --tag v1.3.0-rc1 --draft", Description: "Draft a release candidate"},
			{Command: "clara-release release --tag v1.2.3 --skip-upload", Description: "Build and package without publishing"},
		},
		Notes: []string{
			"The pipeline runs: UI build, matrix build, Windows metadata and signing,",
			"packaging, checksum manifest, release notes, then publish.",
			"A release that already exists for the tag is reused; an asset that already",
			"exists on it is a hard error and is never overwritten.",
			"If some targets fail to build, the successful ones are still packaged and",
			"published, and the command exits non-zero.",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the release command
func (c *ReleaseCommand) Synopsis() string {
	return "Build, package, and publish a release"
}

// Run executes the release command with the given arguments
func (c *ReleaseCommand) Run(args []string) int {
	var opts ReleaseOptions
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
	cfg.Repo = owner + "/" + repo

	// Fail before building anything when publishing has no token.
	var token string
	if !opts.SkipUpload {
		token, err = publish.ResolveToken(opts.Token, opts.TokenFile)
		if err != nil {
			fmt.Println(term.Fail("%v", err))
			return 1
		}
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

	fmt.Println(term.Header(fmt.Sprintf("Releasing %s %s", cfg.Product, opts.Tag)))

	summary, err := p.Run()
	if err != nil {
		fmt.Println(term.Fail("%v", err))
		return 1
	}

	body, err := c.releaseNotes(opts, cfg.Product, cfg.Description, owner, repo, summary)
	if err != nil {
		fmt.Println(term.Fail("%v", err))
		return 1
	}
	notesPath := filepath.Join(p.Dist(), NotesFileName)
	if err := os.WriteFile(notesPath, []byte(body), 0o600); err != nil {
		fmt.Println(term.Fail("failed to write release notes: %v", err))
		return 1
	}
	fmt.Println(term.Success("Release notes written to %s", notesPath))

	if opts.SkipUpload {
		fmt.Println(term.Success("Build complete; skipping upload"))
		return c.exitStatus(summary)
	}

	pub := publish.New(token, owner, repo)
	if err := c.publish(context.Background(), pub, opts, root, body, summary); err != nil {
		fmt.Println(term.Fail("%v", err))
		return 1
	}

	return c.exitStatus(summary)
}

// releaseNotes picks the notes body: explicit flag, notes file, or the
// generated notes for this run's artifacts.
func (c *ReleaseCommand) releaseNotes(
	opts ReleaseOptions,
	product, tagline, owner, repo string,
	summary *pipeline.Summary,
) (string, error) {
	if opts.Notes != "" {
		return opts.Notes, nil
	}
	if opts.NotesFile != "" {
		data, err := os.ReadFile(opts.NotesFile) // #nosec G304 -- operator-chosen notes file
		if err != nil {
			return "", fmt.Errorf("failed to read notes file: %w", err)
		}
		return string(data), nil
	}

	gen := &notes.Generator{Owner: owner, Repo: repo, Product: product, Tagline: tagline}
	return gen.Generate(summary.NotesInput()), nil
}

// publish creates or reuses the release for the tag and uploads every
// packaged asset, the manifest last.
func (c *ReleaseCommand) publish(
	ctx context.Context,
	pub *publish.Publisher,
	opts ReleaseOptions,
	root, body string,
	summary *pipeline.Summary,
) error {
	// The release points at the exact commit that was built; when the
	// commit cannot be determined the default branch is used instead.
	commitish, _ := gitmeta.HeadCommit(root)

	spec := publish.ReleaseSpec{
		Tag:             opts.Tag,
		Name:            opts.Name,
		Notes:           body,
		Draft:           opts.Draft,
		Prerelease:      opts.Prerelease || version.IsPrerelease(opts.Tag),
		TargetCommitish: commitish,
	}

	release, err := pub.CreateOrGet(ctx, spec)
	if err != nil {
		return err
	}
	fmt.Println(term.Success("Release %s ready (id %d)", opts.Tag, release.GetID()))

	uploads := make([]string, 0, len(summary.Assets)+1)
	for _, asset := range summary.Assets {
		uploads = append(uploads, asset.ArchivePath)
	}
	uploads = append(uploads, summary.ManifestPath)

	for _, path := range uploads {
		if err := pub.UploadAsset(ctx, release, path); err != nil {
			if publish.IsConflict(err) {
				return fmt.Errorf(
					"%w: delete the asset on GitHub or use a new tag", err,
				)
			}
			return fmt.Errorf("upload aborted: %w", err)
		}
		fmt.Println(term.Success("Uploaded %s", filepath.Base(path)))
	}

	if url := release.GetHTMLURL(); url != "" {
		fmt.Println(term.Success("Release published: %s", url))
	}
	return nil
}

// exitStatus maps the build summary onto the process exit code: a partial
// matrix still publishes but exits non-zero.
func (c *ReleaseCommand) exitStatus(summary *pipeline.Summary) int {
	if summary.AllTargetsSucceeded() {
		return 0
	}
	fmt.Println(term.Warn("%d target(s) failed to build:", len(summary.Failures)))
	for _, failure := range summary.Failures {
		fmt.Println(term.Fail("  %s: %v", failure.Target.Description, failure.Err))
	}
	return 1
}

// ReleaseCommandFactory creates a new release command instance
func ReleaseCommandFactory() (cli.Command, error) {
	return &ReleaseCommand{}, nil
}
