// Package winmeta compiles the Windows resource descriptor into a linkable
// object so the Windows build carries embedded product metadata.
package winmeta

import (
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/claraverse-space/clara-release/pkg/stage"
	"github.com/claraverse-space/clara-release/pkg/tools"
)

// Embedder runs windres to produce the .syso object the compiler links
// into the Windows binary. The stage only applies on a Windows build host;
// a missing resource compiler or descriptor file skips the stage with a
// warning rather than failing the run.
type Embedder struct {
	// RCFile is the resource descriptor in the project root.
	RCFile string
	// SysoFile is the intermediate object produced next to RCFile.
	SysoFile string
	// Resolver locates the resource compiler. A zero value probes PATH
	// for windres.
	Resolver *tools.Resolver
	// HostOS overrides runtime.GOOS in tests.
	HostOS string
}

func (e *Embedder) hostOS() string {
	if e.HostOS != "" {
		return e.HostOS
	}
	return runtime.GOOS
}

func (e *Embedder) resolver() *tools.Resolver {
	if e.Resolver != nil {
		return e.Resolver
	}
	return &tools.Resolver{
		Tool:  "windres",
		Names: []string{"windres"},
		Hint:  "install with: choco install mingw",
	}
}

// Embed compiles the descriptor. The returned outcome is Skipped when the
// stage does not apply and Failed when the resource compiler errored;
// neither aborts the release.
func (e *Embedder) Embed() stage.Outcome {
	if e.hostOS() != "windows" {
		return stage.Skip("not building on a Windows host")
	}

	if _, err := os.Stat(e.RCFile); err != nil {
		return stage.Skip("%s not found, building without embedded metadata", e.RCFile)
	}

	windres, err := e.resolver().Resolve()
	if err != nil {
		return stage.Skip("%v", err)
	}

	cmd := exec.Command(windres, "-i", e.RCFile, "-o", e.SysoFile, "-O", "coff") // #nosec G204 -- resolved tool with fixed arguments
	if out, err := cmd.CombinedOutput(); err != nil {
		return stage.Fail("windres failed: %v (output: %s)", err, strings.TrimSpace(string(out)))
	}

	return stage.Succeed()
}

// Cleanup removes the intermediate object. It runs at the end of every run
// regardless of outcome so stale metadata never leaks into later builds.
func (e *Embedder) Cleanup() {
	if e.SysoFile != "" {
		os.Remove(e.SysoFile)
	}
}
