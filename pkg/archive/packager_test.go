package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claraverse-space/clara-release/pkg/buildmatrix"
)

func testArtifact(t *testing.T, dist string) buildmatrix.Artifact {
	t.Helper()
	path := filepath.Join(dist, "claracore-linux-amd64")
	require.NoError(t, os.WriteFile(path, []byte("fake binary"), 0o755))
	return buildmatrix.Artifact{
		Target: buildmatrix.Target{OS: "linux", Arch: "amd64", Filename: "claracore-linux-amd64"},
		Path:   path,
		Size:   int64(len("fake binary")),
	}
}

func newPackager(root, dist string) *Packager {
	return &Packager{
		Root:     root,
		Dist:     dist,
		Product:  "claracore",
		Tag:      "v1.2.3",
		AuxFiles: []string{"README.md", "LICENSE.md", "config.example.yaml"},
	}
}

func zipEntryNames(t *testing.T, path string) []string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names
}

func TestPackageNaming(t *testing.T) {
	root := t.TempDir()
	dist := t.TempDir()

	asset, err := newPackager(root, dist).Package(testArtifact(t, dist))
	require.NoError(t, err)

	assert.Equal(t, "claracore-v1.2.3-linux-amd64.zip", asset.Name)
	assert.Equal(t, filepath.Join(dist, "claracore-v1.2.3-linux-amd64.zip"), asset.ArchivePath)
	assert.FileExists(t, asset.ArchivePath)
	assert.DirExists(t, filepath.Join(dist, "claracore-v1.2.3-linux-amd64"))
}

func TestPackageIncludesPresentAuxFiles(t *testing.T) {
	root := t.TempDir()
	dist := t.TempDir()

	// Only two of the three auxiliary files exist; the missing one is
	// skipped without error.
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# readme"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "LICENSE.md"), []byte("license"), 0o644))

	asset, err := newPackager(root, dist).Package(testArtifact(t, dist))
	require.NoError(t, err)

	names := zipEntryNames(t, asset.ArchivePath)
	assert.ElementsMatch(t, []string{"claracore-linux-amd64", "README.md", "LICENSE.md"}, names)
}

func TestPackageIdempotent(t *testing.T) {
	root := t.TempDir()
	dist := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# readme"), 0o644))

	p := newPackager(root, dist)
	artifact := testArtifact(t, dist)

	first, err := p.Package(artifact)
	require.NoError(t, err)
	firstBytes, err := os.ReadFile(first.ArchivePath)
	require.NoError(t, err)

	// Drop a stray file into the staging dir; re-packaging must replace,
	// not merge.
	stageDir := filepath.Join(dist, "claracore-v1.2.3-linux-amd64")
	require.NoError(t, os.WriteFile(filepath.Join(stageDir, "stale.txt"), []byte("stale"), 0o644))

	second, err := p.Package(artifact)
	require.NoError(t, err)
	secondBytes, err := os.ReadFile(second.ArchivePath)
	require.NoError(t, err)

	assert.Equal(t, firstBytes, secondBytes, "unchanged input must produce a byte-identical archive")
	assert.NotContains(t, zipEntryNames(t, second.ArchivePath), "stale.txt")
	assert.NoFileExists(t, filepath.Join(stageDir, "stale.txt"))
}

func TestPackageReplacesExistingArchive(t *testing.T) {
	root := t.TempDir()
	dist := t.TempDir()

	archivePath := filepath.Join(dist, "claracore-v1.2.3-linux-amd64.zip")
	require.NoError(t, os.WriteFile(archivePath, []byte("not a zip"), 0o644))

	asset, err := newPackager(root, dist).Package(testArtifact(t, dist))
	require.NoError(t, err)

	// The replacement is a readable archive, not the stale file.
	names := zipEntryNames(t, asset.ArchivePath)
	assert.Contains(t, names, "claracore-linux-amd64")
}

func TestPackageMissingBinary(t *testing.T) {
	root := t.TempDir()
	dist := t.TempDir()

	artifact := buildmatrix.Artifact{
		Target: buildmatrix.Target{OS: "linux", Arch: "amd64"},
		Path:   filepath.Join(dist, "does-not-exist"),
	}
	_, err := newPackager(root, dist).Package(artifact)
	assert.Error(t, err)
}
