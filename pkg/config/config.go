// Package config defines the release pipeline configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/claraverse-space/clara-release/pkg/buildmatrix"
)

// DefaultFileName is the config file looked up in the project root when no
// explicit path is given.
const DefaultFileName = ".clara-release.yaml"

// Config describes one product's release pipeline.
type Config struct {
	// Product is the archive name prefix, e.g. "claracore".
	Product string `yaml:"product"`
	// MainPackage is the package compiled for each target.
	MainPackage string `yaml:"main_package"`
	// Repo is the owner/repo slug override; auto-detected when empty.
	Repo string `yaml:"repo"`
	// Dist is the output root for binaries, staging dirs, and archives.
	Dist string `yaml:"dist"`
	// Targets is the fixed, ordered build matrix.
	Targets []buildmatrix.Target `yaml:"targets"`
	// AuxFiles are copied into each archive when present in the project
	// root; missing files are skipped.
	AuxFiles []string `yaml:"aux_files"`
	// UIDir is the UI source tree; empty or absent skips the UI build.
	UIDir string `yaml:"ui_dir"`
	// UIOutputDir is the static-asset directory the UI build must produce.
	UIOutputDir string `yaml:"ui_output_dir"`
	// RCFile is the Windows resource descriptor compiled by the metadata
	// stage on Windows hosts.
	RCFile string `yaml:"rc_file"`
	// SysoFile is the intermediate linkable object the metadata stage
	// produces and the run always cleans up.
	SysoFile string `yaml:"syso_file"`
	// Description is the product description embedded by the signing stage.
	Description string `yaml:"description"`
}

// DefaultConfig returns the ClaraCore pipeline configuration.
func DefaultConfig() *Config {
	return &Config{
		Product:     "claracore",
		MainPackage: ".",
		Dist:        "dist",
		Targets: []buildmatrix.Target{
			{OS: "linux", Arch: "amd64", Filename: "claracore-linux-amd64", Description: "Linux x64"},
			{OS: "linux", Arch: "arm64", Filename: "claracore-linux-arm64", Description: "Linux ARM64"},
			{OS: "darwin", Arch: "amd64", Filename: "claracore-darwin-amd64", Description: "macOS Intel"},
			{OS: "darwin", Arch: "arm64", Filename: "claracore-darwin-arm64", Description: "macOS Apple Silicon"},
			{OS: "windows", Arch: "amd64", Filename: "claracore-windows-amd64.exe", Description: "Windows x64"},
		},
		AuxFiles:    []string{"README.md", "LICENSE.md", "config.example.yaml"},
		UIDir:       "ui",
		UIOutputDir: "proxy/ui_dist",
		RCFile:      "claracore.rc",
		SysoFile:    "claracore_windows.syso",
		Description: "ClaraCore AI Inference Server",
	}
}

// Load reads a config file. An empty path falls back to DefaultFileName,
// and a missing default file yields DefaultConfig.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path) // #nosec G304 -- operator-chosen config path
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the config for the fields the pipeline cannot default.
func (c *Config) Validate() error {
	if c.Product == "" {
		return fmt.Errorf("product must not be empty")
	}
	if c.MainPackage == "" {
		return fmt.Errorf("main_package must not be empty")
	}
	if c.Dist == "" {
		return fmt.Errorf("dist must not be empty")
	}
	if len(c.Targets) == 0 {
		return fmt.Errorf("at least one build target is required")
	}
	for i, t := range c.Targets {
		if t.OS == "" || t.Arch == "" {
			return fmt.Errorf("target %d: os and arch must not be empty", i)
		}
		if t.Filename == "" {
			return fmt.Errorf("target %d (%s/%s): filename must not be empty", i, t.OS, t.Arch)
		}
	}
	return nil
}
