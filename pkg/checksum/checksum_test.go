package checksum

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestFileDeterminism(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "artifact", []byte("release payload"))

	first, err := File(path)
	require.NoError(t, err)
	second, err := File(path)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same bytes must yield the same digest")
	assert.Len(t, first, 64)
	assert.Equal(t, strings.ToLower(first), first, "digest must be lowercase hex")
}

func TestFileSingleByteChange(t *testing.T) {
	dir := t.TempDir()
	content := []byte("release payload")
	path := writeFile(t, dir, "artifact", content)

	before, err := File(path)
	require.NoError(t, err)

	// Flip one byte in the middle of the content.
	flipped := append([]byte(nil), content...)
	flipped[len(flipped)/2] ^= 0x01
	require.NoError(t, os.WriteFile(path, flipped, 0o644))

	after, err := File(path)
	require.NoError(t, err)
	assert.NotEqual(t, before, after, "a single flipped byte must change the digest")
}

func TestFileLargerThanChunk(t *testing.T) {
	dir := t.TempDir()
	big := make([]byte, chunkSize*3+17)
	for i := range big {
		big[i] = byte(i % 251)
	}
	path := writeFile(t, dir, "big", big)

	digest, err := File(path)
	require.NoError(t, err)
	assert.Len(t, digest, 64)
}

func TestFileMissing(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestManifestRender(t *testing.T) {
	var m Manifest
	m.Append("aaaa", "claracore-v1.2.3-linux-amd64.zip")
	m.Append("bbbb", "claracore-v1.2.3-darwin-arm64.zip")

	rendered := m.Render()
	lines := strings.Split(strings.TrimRight(rendered, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "aaaa  claracore-v1.2.3-linux-amd64.zip", lines[0])
	assert.Equal(t, "bbbb  claracore-v1.2.3-darwin-arm64.zip", lines[1])
}

func TestManifestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "artifact", []byte("data"))

	var m Manifest
	require.NoError(t, m.AppendFile(path, "artifact"))
	require.Equal(t, 1, m.Len())

	out := filepath.Join(dir, "checksums.txt")
	require.NoError(t, m.WriteFile(out))

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, m.Render(), string(content))

	digest, err := File(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), digest+"  artifact")
}
