// Package checksum computes artifact digests and builds the checksum manifest.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// chunkSize is the read size used when streaming file contents into the hash.
const chunkSize = 4096

// File returns the lowercase hexadecimal SHA-256 digest of the file contents.
func File(path string) (string, error) {
	f, err := os.Open(path) // #nosec G304 -- hashing operator-chosen artifacts
	if err != nil {
		return "", fmt.Errorf("failed to open file for checksumming: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, chunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Entry is one (digest, filename) pair of the manifest.
type Entry struct {
	Digest   string
	Filename string
}

// Manifest is the ordered list of digests for one release run.
type Manifest struct {
	entries []Entry
}

// Append adds one entry; order of calls is the order of the manifest.
func (m *Manifest) Append(digest, filename string) {
	m.entries = append(m.entries, Entry{Digest: digest, Filename: filename})
}

// AppendFile hashes path and appends its digest under name.
func (m *Manifest) AppendFile(path, name string) error {
	digest, err := File(path)
	if err != nil {
		return err
	}
	m.Append(digest, name)
	return nil
}

// Entries returns the manifest entries in order.
func (m *Manifest) Entries() []Entry {
	return m.entries
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	return len(m.entries)
}

// Render serializes the manifest as one "<digest>  <filename>" line per entry.
func (m *Manifest) Render() string {
	var b strings.Builder
	for _, e := range m.entries {
		fmt.Fprintf(&b, "%s  %s\n", e.Digest, e.Filename)
	}
	return b.String()
}

// WriteFile writes the rendered manifest to path.
func (m *Manifest) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(m.Render()), 0o644); err != nil {
		return fmt.Errorf("failed to write checksum manifest: %w", err)
	}
	return nil
}
