// Package uibuild runs the UI asset build ahead of the server compile.
//
// The UI toolchain is a black box: given a source tree it either produces
// the static-asset directory or fails. The pipeline only prepares the
// invocation and verifies the output.
package uibuild

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/claraverse-space/clara-release/pkg/stage"
)

// Builder runs the npm build for the UI source tree.
type Builder struct {
	// Dir is the UI source tree; a missing directory skips the stage.
	Dir string
	// OutputDir must exist after a successful build.
	OutputDir string
	// NpmCmd overrides the npm executable in tests.
	NpmCmd string
}

func (b *Builder) npm() string {
	if b.NpmCmd != "" {
		return b.NpmCmd
	}
	return "npm"
}

func (b *Builder) run(args ...string) error {
	cmd := exec.Command(b.npm(), args...) // #nosec G204 -- fixed npm subcommands
	cmd.Dir = b.Dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s %s failed: %w (output: %s)",
			b.npm(), strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Build produces the static assets. A missing UI tree is an intentional
// skip; a failing npm invocation or missing output is a stage failure that
// callers treat as fatal because the server embeds the assets.
func (b *Builder) Build() stage.Outcome {
	if b.Dir == "" {
		return stage.Skip("no UI directory configured")
	}
	if _, err := os.Stat(b.Dir); err != nil {
		return stage.Skip("UI directory %s not found", b.Dir)
	}

	// Install dependencies only when node_modules is missing.
	if _, err := os.Stat(filepath.Join(b.Dir, "node_modules")); err != nil {
		if err := b.run("install"); err != nil {
			return stage.Fail("%v", err)
		}
	}

	if err := b.run("run", "build"); err != nil {
		return stage.Fail("%v", err)
	}

	if b.OutputDir != "" {
		if _, err := os.Stat(b.OutputDir); err != nil {
			return stage.Fail("UI build finished but output missing at %s", b.OutputDir)
		}
	}

	return stage.Succeed()
}
