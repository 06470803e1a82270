// Package buildmatrix cross-compiles the server binary for the declared
// target matrix.
package buildmatrix

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Target is one (platform, architecture) pair of the build matrix.
type Target struct {
	OS          string `yaml:"os"`
	Arch        string `yaml:"arch"`
	Filename    string `yaml:"filename"`
	Description string `yaml:"description"`
}

// Artifact is the compiled binary for one target.
type Artifact struct {
	Target Target
	Path   string
	Size   int64
	Digest string
}

// Failure records one target whose compile step did not produce a binary.
type Failure struct {
	Target Target
	Err    error
}

// Builder compiles the main package once per target. Compiles run
// sequentially; the cross-compilation environment is built per invocation
// and never written into the process environment, so no invocation can
// leak configuration into another.
type Builder struct {
	// MainPackage is the package to compile, e.g. "." or "./cmd/claracore".
	MainPackage string
	// Root is the directory the compiler runs in.
	Root string
	// Dist is the output directory for compiled binaries.
	Dist string
	// Version, Commit, and Date are injected via -X linker flags.
	Version string
	Commit  string
	Date    string
	// GoCmd is the compiler command. Defaults to "go".
	GoCmd string
	// Verbose echoes each compiler invocation.
	Verbose bool
	// Output receives progress lines. Defaults to discarding via fmt noop
	// when nil; callers normally pass os.Stdout.
	Output func(string)
}

func (b *Builder) print(line string) {
	if b.Output != nil {
		b.Output(line)
	}
}

func (b *Builder) goCmd() string {
	if b.GoCmd != "" {
		return b.GoCmd
	}
	return "go"
}

// ldflags returns linker flags for the target. Non-Windows binaries strip
// symbol tables for size. Windows binaries keep symbols and carry embedded
// metadata, which reduces false positives from security scanners.
func (b *Builder) ldflags(t Target) string {
	flags := []string{
		"-X main.version=" + b.Version,
		"-X main.commit=" + b.Commit,
		"-X main.date=" + b.Date,
	}
	if t.OS != "windows" {
		flags = append(flags, "-w", "-s")
	}
	return strings.Join(flags, " ")
}

// env returns the compiler environment for one target invocation.
func (b *Builder) env(t Target) []string {
	env := append([]string(nil), os.Environ()...)
	env = append(env,
		"GOOS="+t.OS,
		"GOARCH="+t.Arch,
	)
	if t.OS == "windows" && runtime.GOOS == "windows" {
		// CGO stays on so the resource object compiled by the metadata
		// stage is linked into the binary.
		env = append(env, "CGO_ENABLED=1")
	} else {
		env = append(env, "CGO_ENABLED=0")
	}
	return env
}

// BuildTarget compiles one target and verifies the expected output exists.
func (b *Builder) BuildTarget(t Target) (Artifact, error) {
	outPath := filepath.Join(b.Dist, t.Filename)

	args := []string{"build", "-trimpath"}
	if t.OS == "windows" {
		args = append(args, "-buildmode=exe")
	}
	args = append(args, "-ldflags", b.ldflags(t), "-o", outPath, b.MainPackage)

	cmd := exec.Command(b.goCmd(), args...) // #nosec G204 -- compiler invocation with fixed arguments
	cmd.Dir = b.Root
	cmd.Env = b.env(t)

	if b.Verbose {
		b.print(fmt.Sprintf("Running: %s %s", b.goCmd(), strings.Join(args, " ")))
	}

	if out, err := cmd.CombinedOutput(); err != nil {
		return Artifact{}, fmt.Errorf(
			"compile failed for %s/%s: %w (output: %s)",
			t.OS, t.Arch, err, strings.TrimSpace(string(out)),
		)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return Artifact{}, fmt.Errorf("binary not found after build: %s", outPath)
	}

	return Artifact{Target: t, Path: outPath, Size: info.Size()}, nil
}
