package commands

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestArchive(t *testing.T, path, member, content string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create archive: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create(member)
	if err != nil {
		t.Fatalf("Failed to add archive member: %v", err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write archive member: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close archive: %v", err)
	}
}

func TestChecksumsCommand_Help(t *testing.T) {
	cmd := &ChecksumsCommand{}
	help := cmd.Help()

	expectedStrings := []string{
		"checksum manifest",
		"--output",
		"--dist",
		"--help",
	}
	for _, expected := range expectedStrings {
		if !strings.Contains(help, expected) {
			t.Errorf("Help output should contain '%s', but got: %s", expected, help)
		}
	}
}

func TestChecksumsCommand_Synopsis(t *testing.T) {
	cmd := &ChecksumsCommand{}
	expected := "Recompute the checksum manifest for packaged archives"
	if synopsis := cmd.Synopsis(); synopsis != expected {
		t.Errorf("Expected synopsis '%s', got '%s'", expected, synopsis)
	}
}

func TestChecksumsCommand_Run_Help(t *testing.T) {
	cmd := &ChecksumsCommand{}
	if exitCode := cmd.Run([]string{"--help"}); exitCode != 0 {
		t.Errorf("Expected exit code 0 for --help, got %d", exitCode)
	}
}

func TestChecksumsCommand_Run_InvalidFlag(t *testing.T) {
	cmd := &ChecksumsCommand{}
	if exitCode := cmd.Run([]string{"--invalid-flag"}); exitCode == 0 {
		t.Error("Expected non-zero exit code for invalid flag")
	}
}

func TestChecksumsCommand_Run_EmptyDist(t *testing.T) {
	cmd := &ChecksumsCommand{}
	if exitCode := cmd.Run([]string{"--dist", t.TempDir()}); exitCode == 0 {
		t.Error("Expected non-zero exit code for a dist with no archives")
	}
}

func TestChecksumsCommand_Run_WriteOutput(t *testing.T) {
	dist := t.TempDir()
	writeTestArchive(t, filepath.Join(dist, "claracore-v1.0.0-linux-amd64.zip"), "claracore", "bin-a")
	writeTestArchive(t, filepath.Join(dist, "claracore-v1.0.0-darwin-arm64.zip"), "claracore", "bin-b")

	output := filepath.Join(dist, "checksums.txt")
	cmd := &ChecksumsCommand{}
	if exitCode := cmd.Run([]string{"--dist", dist, "--output", output}); exitCode != 0 {
		t.Fatalf("Expected exit code 0, got %d", exitCode)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("Failed to read manifest: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 manifest lines, got %d: %q", len(lines), string(data))
	}

	// Name order, and the two-space sha256sum format.
	if !strings.HasSuffix(lines[0], "  claracore-v1.0.0-darwin-arm64.zip") {
		t.Errorf("Expected darwin archive first, got %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "  claracore-v1.0.0-linux-amd64.zip") {
		t.Errorf("Expected linux archive second, got %q", lines[1])
	}
	for _, line := range lines {
		digest := strings.SplitN(line, "  ", 2)[0]
		if len(digest) != 64 {
			t.Errorf("Expected 64-char sha256 digest, got %q", digest)
		}
	}
}

func TestManifestForDist_IgnoresNonArchives(t *testing.T) {
	dist := t.TempDir()
	writeTestArchive(t, filepath.Join(dist, "claracore-v1.0.0-linux-amd64.zip"), "claracore", "bin")
	if err := os.WriteFile(filepath.Join(dist, "claracore-linux-amd64"), []byte("raw"), 0o755); err != nil {
		t.Fatalf("Failed to write binary: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dist, "checksums.txt"), []byte("old"), 0o644); err != nil {
		t.Fatalf("Failed to write manifest: %v", err)
	}

	manifest, err := manifestForDist(dist, false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if manifest.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", manifest.Len())
	}
	if manifest.Entries()[0].Filename != "claracore-v1.0.0-linux-amd64.zip" {
		t.Errorf("Unexpected manifest entry: %+v", manifest.Entries()[0])
	}
}
