package tools

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStub(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	return path
}

func TestResolveExplicitPathWins(t *testing.T) {
	dir := t.TempDir()
	stub := writeStub(t, dir, "mytool")

	r := &Resolver{Tool: "mytool", Explicit: stub, Names: []string{"definitely-not-a-real-tool"}}
	path, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, stub, path)
}

func TestResolveMissingExplicitFallsThrough(t *testing.T) {
	dir := t.TempDir()
	fallback := writeStub(t, dir, "fallback-tool")

	r := &Resolver{
		Tool:      "mytool",
		Explicit:  filepath.Join(dir, "does-not-exist"),
		Fallbacks: []string{fallback},
	}
	path, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, fallback, path)
}

func TestResolvePathLookup(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH stub requires a POSIX shell")
	}
	dir := t.TempDir()
	writeStub(t, dir, "clara-probe-tool")
	t.Setenv("PATH", dir)

	r := &Resolver{Tool: "clara-probe-tool", Names: []string{"clara-probe-tool"}}
	path, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "clara-probe-tool"), path)
}

func TestResolveNotFound(t *testing.T) {
	r := &Resolver{
		Tool:      "signtool",
		Names:     []string{"definitely-not-a-real-tool"},
		Fallbacks: []string{filepath.Join(t.TempDir(), "nope")},
		Hint:      "install the Windows SDK",
	}
	path, err := r.Resolve()
	assert.Empty(t, path)
	assert.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "signtool")
	assert.Contains(t, err.Error(), "install the Windows SDK")
}

func TestIsNotFoundOther(t *testing.T) {
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(os.ErrNotExist))
}
