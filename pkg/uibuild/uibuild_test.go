package uibuild

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claraverse-space/clara-release/pkg/stage"
)

func stubNpm(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub npm requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "npm")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestBuildSkipsWithoutDir(t *testing.T) {
	b := &Builder{}
	assert.Equal(t, stage.Skipped, b.Build().Status)

	b = &Builder{Dir: filepath.Join(t.TempDir(), "ui")}
	outcome := b.Build()
	assert.Equal(t, stage.Skipped, outcome.Status)
	assert.Contains(t, outcome.Reason, "not found")
}

func TestBuildRunsNpm(t *testing.T) {
	uiDir := t.TempDir()
	outDir := filepath.Join(uiDir, "dist")

	// Stub npm creates the output dir on "run build".
	npm := stubNpm(t, `
if [ "$1" = "run" ]; then mkdir -p "`+outDir+`"; fi
exit 0
`)

	b := &Builder{Dir: uiDir, OutputDir: outDir, NpmCmd: npm}
	outcome := b.Build()
	require.Equal(t, stage.Succeeded, outcome.Status, "outcome: %s", outcome)
	assert.DirExists(t, outDir)
}

func TestBuildSkipsInstallWhenNodeModulesPresent(t *testing.T) {
	uiDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(uiDir, "node_modules"), 0o755))

	// Stub npm fails on install but succeeds on run; with node_modules
	// present install must never run.
	npm := stubNpm(t, `
if [ "$1" = "install" ]; then exit 1; fi
exit 0
`)

	b := &Builder{Dir: uiDir, NpmCmd: npm}
	assert.Equal(t, stage.Succeeded, b.Build().Status)
}

func TestBuildFailedNpm(t *testing.T) {
	uiDir := t.TempDir()
	npm := stubNpm(t, "echo broken >&2\nexit 1\n")

	b := &Builder{Dir: uiDir, NpmCmd: npm}
	outcome := b.Build()
	assert.Equal(t, stage.Failed, outcome.Status)
	assert.Contains(t, outcome.Reason, "broken")
}

func TestBuildMissingOutput(t *testing.T) {
	uiDir := t.TempDir()
	npm := stubNpm(t, "exit 0\n")

	b := &Builder{
		Dir:       uiDir,
		OutputDir: filepath.Join(uiDir, "dist"),
		NpmCmd:    npm,
	}
	outcome := b.Build()
	assert.Equal(t, stage.Failed, outcome.Status)
	assert.Contains(t, outcome.Reason, "output missing")
}
