package commands

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"

	"github.com/claraverse-space/clara-release/pkg/gitmeta"
	"github.com/claraverse-space/clara-release/pkg/publish"
	"github.com/claraverse-space/clara-release/pkg/signing"
	"github.com/claraverse-space/clara-release/pkg/term"
	"github.com/claraverse-space/clara-release/pkg/tools"
)

// DoctorCommand handles the doctor command functionality
type DoctorCommand struct{}

// DoctorOptions holds command-line options for the doctor command
type DoctorOptions struct {
	Config  string `short:"c" long:"config"  description:"Path to config file"`
	Verbose bool   `short:"v" long:"verbose" description:"Verbose output"`
	Help    bool   `short:"h" long:"help"    description:"Show this help message"`
}

// Help returns the help text for the doctor command
func (c *DoctorCommand) Help() string {
	var opts DoctorOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = OptionsUsage

	formatter := &HelpFormatter{
		Command:     "doctor",
		Description: "Check that the release environment has everything a run needs.",
		Examples: []Example{
			{Command: "clara-release doctor", Description: "Run the preflight checks"},
			{Command: "clara-release doctor --verbose", Description: "Show every check result"},
		},
		Notes: []string{
			"Required: the Go toolchain, a git repository, and a resolvable owner/repo slug.",
			"Optional: npm (UI build), windres and signtool (Windows stages), and a",
			"GitHub token; missing optional tools are reported as warnings because the",
			"pipeline skips those stages cleanly.",
			"",
			"Exit codes:",
			"  0: All required checks passed",
			"  1: One or more required checks failed",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the doctor command
func (c *DoctorCommand) Synopsis() string {
	return "Check the release environment"
}

// Run executes the doctor command with the given arguments
func (c *DoctorCommand) Run(args []string) int {
	var opts DoctorOptions
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

	fmt.Println(term.Header("Release environment check"))

	var problems []string
	var warnings []string

	problems = append(problems, c.checkToolchain(opts.Verbose)...)
	problems = append(problems, c.checkRepository(opts.Verbose)...)
	problems = append(problems, c.checkConfig(opts.Config, opts.Verbose)...)
	warnings = append(warnings, c.checkToken()...)
	warnings = append(warnings, c.checkOptionalTools(opts.Verbose)...)

	return c.printResults(problems, warnings)
}

// checkToolchain verifies the Go compiler is on PATH.
func (c *DoctorCommand) checkToolchain(verbose bool) []string {
	if _, err := exec.LookPath("go"); err != nil {
		return []string{"Go toolchain not found on PATH"}
	}
	if verbose {
		fmt.Println(term.Success("Go toolchain: %s", gitmeta.Toolchain()))
	}
	return nil
}

// checkRepository verifies the working directory is a git repository with
// a resolvable owner/repo slug.
func (c *DoctorCommand) checkRepository(verbose bool) []string {
	var problems []string

	if _, err := gitmeta.HeadCommit("."); err != nil {
		problems = append(problems, fmt.Sprintf("not in a git repository: %v", err))
		return problems
	}
	if verbose {
		fmt.Println(term.Success("Git repository at HEAD %s", gitmeta.ShortCommit(".")))
	}

	slug, err := gitmeta.RepoSlug(".")
	if err != nil {
		problems = append(problems, err.Error())
	} else if verbose {
		fmt.Println(term.Success("Repository slug: %s", slug))
	}

	return problems
}

// checkConfig verifies the pipeline config loads and validates.
func (c *DoctorCommand) checkConfig(path string, verbose bool) []string {
	cfg, err := loadPipelineConfig(path, "")
	if err != nil {
		return []string{err.Error()}
	}
	if verbose {
		fmt.Println(term.Success("Config: %s, %d target(s)", cfg.Product, len(cfg.Targets)))
	}
	return nil
}

// checkToken reports whether a GitHub token is configured.
func (c *DoctorCommand) checkToken() []string {
	if publish.TokenFromEnv() == "" {
		return []string{"no GitHub token in GITHUB_TOKEN or GH_TOKEN; publishing will fail"}
	}
	return nil
}

// checkOptionalTools probes the tools whose absence only skips a stage.
func (c *DoctorCommand) checkOptionalTools(verbose bool) []string {
	var warnings []string

	if _, err := exec.LookPath("npm"); err != nil {
		warnings = append(warnings, "npm not found; the UI build stage will be skipped")
	} else if verbose {
		fmt.Println(term.Success("npm found"))
	}

	// The Windows stages only matter on a Windows host.
	if runtime.GOOS != "windows" {
		if verbose {
			fmt.Println(term.Step("Skipping windres and signtool checks on %s", runtime.GOOS))
		}
		return warnings
	}

	windres := &tools.Resolver{Tool: "windres", Names: []string{"windres"}}
	if _, err := windres.Resolve(); err != nil {
		warnings = append(warnings, "windres not found; Windows metadata embedding will be skipped")
	} else if verbose {
		fmt.Println(term.Success("windres found"))
	}

	signer := signing.FromEnv("", "")
	if signer.CertPath == "" {
		warnings = append(warnings,
			fmt.Sprintf("%s not set; Windows binaries will not be signed", signing.CertPathEnv))
	} else if _, err := os.Stat(signer.CertPath); err != nil {
		warnings = append(warnings,
			fmt.Sprintf("certificate %s not readable: %v", signer.CertPath, err))
	} else if verbose {
		fmt.Println(term.Success("Signing certificate present"))
	}

	return warnings
}

// printResults prints the final results and returns the exit code.
func (c *DoctorCommand) printResults(problems, warnings []string) int {
	if len(problems) == 0 && len(warnings) == 0 {
		fmt.Println(term.Success("All checks passed"))
		return 0
	}

	for _, warning := range warnings {
		fmt.Println(term.Warn("%s", warning))
	}
	for _, problem := range problems {
		fmt.Println(term.Fail("%s", problem))
	}

	if len(problems) > 0 {
		return 1
	}
	fmt.Println(term.Success("Required checks passed; review the warnings above"))
	return 0
}

// DoctorCommandFactory creates a new doctor command instance
func DoctorCommandFactory() (cli.Command, error) {
	return &DoctorCommand{}, nil
}
