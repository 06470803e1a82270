package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"

	"github.com/claraverse-space/clara-release/pkg/config"
	"github.com/claraverse-space/clara-release/pkg/gitmeta"
)

// Build information, assigned by cmd/clara-release from its ldflags vars.
var (
	BuildVersion = "dev"
	BuildCommit  = "none"
	BuildDate    = "unknown"
)

// BaseCommand provides common functionality for all commands
type BaseCommand struct {
	Name        string
	Description string
	Examples    []Example
	Notes       []string
}

// CommonOptions defines options shared across multiple commands
type CommonOptions struct {
	Config  string `long:"config"  description:"Path to config file (defaults to .clara-release.yaml when present)" short:"c"`
	Help    bool   `long:"help"    description:"Show this help message"                                             short:"h"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"                                              short:"v"`
}

// ParseArgsWithHelp parses arguments and handles help display
func (bc *BaseCommand) ParseArgsWithHelp(opts any, args []string) ([]string, error) {
	parser := flags.NewParser(opts, flags.Default)

	remaining, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil // Help was shown, exit gracefully
		}
		return nil, fmt.Errorf("error parsing arguments: %w", err)
	}

	return remaining, nil
}

// GenerateHelp creates standardized help output
func (bc *BaseCommand) GenerateHelp(parser *flags.Parser) string {
	formatter := &HelpFormatter{
		Command:     bc.Name,
		Description: bc.Description,
		Examples:    bc.Examples,
		Notes:       bc.Notes,
	}
	return formatter.FormatHelp(parser)
}

// ConfigFileExists checks if the config file exists
func (bc *BaseCommand) ConfigFileExists(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", configPath)
	}
	return nil
}

// loadPipelineConfig loads the pipeline config, applying a dist override
// when given.
func loadPipelineConfig(path, distOverride string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if distOverride != "" {
		cfg.Dist = distOverride
	}
	return cfg, nil
}

// resolveSlug determines the owner/repo pair from the flag override, the
// config, or the git remote, in that order.
func resolveSlug(root, override string, cfg *config.Config) (string, string, error) {
	slug := override
	if slug == "" {
		slug = cfg.Repo
	}
	if slug == "" {
		detected, err := gitmeta.RepoSlug(root)
		if err != nil {
			return "", "", err
		}
		slug = detected
	}
	return splitSlug(slug)
}

func splitSlug(slug string) (string, string, error) {
	parts := strings.Split(slug, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo slug %q: expected owner/repo", slug)
	}
	return parts[0], parts[1], nil
}
