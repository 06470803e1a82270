// Package pipeline orchestrates the release stages: matrix build, optional
// metadata and signing, packaging, and the checksum manifest.
//
// The pipeline is sequential by design. Target builds share the compiler
// process and a low-frequency release task gains nothing from concurrency
// worth the interference risk, so targets compile one at a time.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claraverse-space/clara-release/pkg/archive"
	"github.com/claraverse-space/clara-release/pkg/buildmatrix"
	"github.com/claraverse-space/clara-release/pkg/checksum"
	"github.com/claraverse-space/clara-release/pkg/config"
	"github.com/claraverse-space/clara-release/pkg/notes"
	"github.com/claraverse-space/clara-release/pkg/signing"
	"github.com/claraverse-space/clara-release/pkg/stage"
	"github.com/claraverse-space/clara-release/pkg/uibuild"
	"github.com/claraverse-space/clara-release/pkg/winmeta"
)

// ManifestName is the checksum manifest file written to the dist root and
// uploaded as the final release asset.
const ManifestName = "checksums.txt"

// Summary collects everything a run produced.
type Summary struct {
	Tag       string
	BuildTime string
	Commit    string
	Toolchain string

	Artifacts []buildmatrix.Artifact
	Failures  []buildmatrix.Failure
	Assets    []archive.Asset

	Manifest     *checksum.Manifest
	ManifestPath string
}

// AllTargetsSucceeded reports whether every declared target built.
func (s *Summary) AllTargetsSucceeded() bool {
	return len(s.Failures) == 0
}

// NotesInput assembles the release-notes input from the run results.
func (s *Summary) NotesInput() notes.Input {
	in := notes.Input{
		Version:   s.Tag,
		BuildTime: s.BuildTime,
		Commit:    s.Commit,
		Toolchain: s.Toolchain,
	}
	for i, asset := range s.Assets {
		entry := s.Manifest.Entries()[i]
		info, err := os.Stat(asset.ArchivePath)
		var size int64
		if err == nil {
			size = info.Size()
		}
		in.Assets = append(in.Assets, notes.Asset{
			Description: asset.Artifact.Target.Description,
			Filename:    asset.Name,
			Size:        size,
			Digest:      entry.Digest,
		})
	}
	return in
}

// Pipeline runs the local stages for one tag.
type Pipeline struct {
	Config *config.Config
	Tag    string
	// Root is the project root being released.
	Root string
	// Commit is the source revision recorded in build metadata.
	Commit string
	// Toolchain is the compiler version recorded in the notes.
	Toolchain string
	SkipUI    bool
	Verbose   bool

	// GoCmd overrides the compiler command in tests.
	GoCmd string
	// Embedder, Signer, and UI override the default stages in tests.
	Embedder *winmeta.Embedder
	Signer   *signing.Signer
	UI       *uibuild.Builder

	// Out receives progress lines; nil discards them.
	Out func(string)
}

func (p *Pipeline) print(format string, args ...any) {
	if p.Out != nil {
		p.Out(fmt.Sprintf(format, args...))
	}
}

// Dist returns the output root of this run.
func (p *Pipeline) Dist() string {
	return filepath.Join(p.Root, p.Config.Dist)
}

func (p *Pipeline) embedder() *winmeta.Embedder {
	if p.Embedder != nil {
		return p.Embedder
	}
	return &winmeta.Embedder{
		RCFile:   filepath.Join(p.Root, p.Config.RCFile),
		SysoFile: filepath.Join(p.Root, p.Config.SysoFile),
	}
}

func (p *Pipeline) signer() *signing.Signer {
	if p.Signer != nil {
		return p.Signer
	}
	return signing.FromEnv(p.Config.Description, "https://github.com/"+p.Config.Repo)
}

func (p *Pipeline) ui() *uibuild.Builder {
	if p.UI != nil {
		return p.UI
	}
	var dir, out string
	if p.Config.UIDir != "" {
		dir = filepath.Join(p.Root, p.Config.UIDir)
	}
	if p.Config.UIOutputDir != "" {
		out = filepath.Join(p.Root, p.Config.UIOutputDir)
	}
	return &uibuild.Builder{Dir: dir, OutputDir: out}
}

// Run executes the local pipeline: dist reset, UI build, metadata stage,
// matrix build with per-binary signing, packaging, and the manifest.
// Per-target build failures are recorded in the summary and do not abort
// the run; the error is non-nil only for unrecoverable failures.
func (p *Pipeline) Run() (*Summary, error) {
	dist := p.Dist()

	// A leftover tree from a crashed run is never read, only replaced.
	if err := os.RemoveAll(dist); err != nil {
		return nil, fmt.Errorf("failed to reset output directory: %w", err)
	}
	if err := os.MkdirAll(dist, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	if !p.SkipUI {
		outcome := p.ui().Build()
		p.print("UI build %s", outcome)
		if outcome.Status == stage.Failed {
			return nil, fmt.Errorf("UI build failed: %s", outcome.Reason)
		}
	}

	embedder := p.embedder()
	if outcome := embedder.Embed(); outcome.Status != stage.Succeeded {
		p.print("Windows metadata %s", outcome)
	}
	defer embedder.Cleanup()

	builder := &buildmatrix.Builder{
		MainPackage: p.Config.MainPackage,
		Root:        p.Root,
		Dist:        dist,
		Version:     p.Tag,
		Commit:      p.Commit,
		Date:        time.Now().UTC().Format("2006-01-02T15:04:05Z"),
		GoCmd:       p.GoCmd,
		Verbose:     p.Verbose,
		Output:      p.Out,
	}

	summary := &Summary{
		Tag:       p.Tag,
		BuildTime: builder.Date,
		Commit:    p.Commit,
		Toolchain: p.Toolchain,
		Manifest:  &checksum.Manifest{},
	}

	signer := p.signer()
	for _, target := range p.Config.Targets {
		p.print("Building %s...", target.Description)
		artifact, err := builder.BuildTarget(target)
		if err != nil {
			p.print("Failed to build %s: %v", target.Description, err)
			summary.Failures = append(summary.Failures, buildmatrix.Failure{Target: target, Err: err})
			continue
		}

		if target.OS == "windows" {
			if outcome := signer.Sign(artifact.Path); outcome.Status != stage.Succeeded {
				p.print("Code signing %s", outcome)
			}
		}

		// The binary digest is computed exactly once per artifact.
		digest, err := checksum.File(artifact.Path)
		if err != nil {
			return nil, err
		}
		artifact.Digest = digest

		summary.Artifacts = append(summary.Artifacts, artifact)
		p.print("Built %s (%s)", target.Filename, notes.HumanSize(artifact.Size))
	}

	if len(summary.Artifacts) == 0 {
		return summary, fmt.Errorf("no binaries were built successfully")
	}

	packager := &archive.Packager{
		Root:     p.Root,
		Dist:     dist,
		Product:  p.Config.Product,
		Tag:      p.Tag,
		AuxFiles: p.Config.AuxFiles,
	}
	for _, artifact := range summary.Artifacts {
		asset, err := packager.Package(artifact)
		if err != nil {
			return summary, fmt.Errorf("failed to package %s: %w", artifact.Target.Filename, err)
		}
		if err := summary.Manifest.AppendFile(asset.ArchivePath, asset.Name); err != nil {
			return summary, err
		}
		summary.Assets = append(summary.Assets, asset)
	}

	summary.ManifestPath = filepath.Join(dist, ManifestName)
	if err := summary.Manifest.WriteFile(summary.ManifestPath); err != nil {
		return summary, err
	}

	return summary, nil
}
