package commands

// Common constants used across command implementations
const (
	// Command usage patterns
	OptionsUsage = "[OPTIONS]"

	// Configuration file names
	ConfigFileName = ".clara-release.yaml"

	// Test configuration templates
	ValidPipelineConfig = `product: claracore
main_package: .
dist: dist
targets:
- os: linux
  arch: amd64
  filename: claracore-linux-amd64
  description: Linux x64
aux_files:
- README.md
`
)
