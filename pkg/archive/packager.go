// Package archive stages build artifacts with auxiliary files and packages
// them into distributable zip archives.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/claraverse-space/clara-release/pkg/buildmatrix"
)

// Asset is one packaged archive, ready for upload.
type Asset struct {
	Artifact    buildmatrix.Artifact
	ArchivePath string
	// Name is the archive file name, used as the remote asset name.
	Name string
}

// Packager stages one artifact per target and produces its archive.
// Packaging is idempotent, not additive: pre-existing staging directories
// and archives of the same name are removed first.
type Packager struct {
	// Root is the project root the auxiliary files are copied from.
	Root string
	// Dist is the output root holding staging directories and archives.
	Dist string
	// Product and Tag form the archive name prefix.
	Product string
	Tag     string
	// AuxFiles are copied into the staging directory when present;
	// a missing auxiliary file is silently skipped.
	AuxFiles []string
}

// StageName returns the staging directory and archive base name for a target.
func (p *Packager) StageName(t buildmatrix.Target) string {
	return fmt.Sprintf("%s-%s-%s-%s", p.Product, p.Tag, t.OS, t.Arch)
}

// Package stages the artifact binary plus auxiliary files and zips the
// staging directory contents.
func (p *Packager) Package(artifact buildmatrix.Artifact) (Asset, error) {
	name := p.StageName(artifact.Target)
	stageDir := filepath.Join(p.Dist, name)

	if err := os.RemoveAll(stageDir); err != nil {
		return Asset{}, fmt.Errorf("failed to remove stale staging directory: %w", err)
	}
	if err := os.MkdirAll(stageDir, 0o755); err != nil {
		return Asset{}, fmt.Errorf("failed to create staging directory: %w", err)
	}

	binaryName := filepath.Base(artifact.Path)
	if err := copyFile(artifact.Path, filepath.Join(stageDir, binaryName)); err != nil {
		return Asset{}, fmt.Errorf("failed to stage binary: %w", err)
	}

	for _, aux := range p.AuxFiles {
		src := filepath.Join(p.Root, aux)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := copyFile(src, filepath.Join(stageDir, aux)); err != nil {
			return Asset{}, fmt.Errorf("failed to stage %s: %w", aux, err)
		}
	}

	archivePath := filepath.Join(p.Dist, name+".zip")
	if err := os.Remove(archivePath); err != nil && !os.IsNotExist(err) {
		return Asset{}, fmt.Errorf("failed to remove stale archive: %w", err)
	}
	if err := zipDirectory(archivePath, stageDir); err != nil {
		return Asset{}, err
	}

	return Asset{
		Artifact:    artifact,
		ArchivePath: archivePath,
		Name:        name + ".zip",
	}, nil
}

// copyFile copies src to dst preserving mode and modification time, so
// re-packaging an unchanged binary yields a byte-identical archive.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src) // #nosec G304 -- staging operator-chosen files
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// zipDirectory archives the contents of dirPath (no top-level folder entry)
// with deterministic entry order.
func zipDirectory(zipPath, dirPath string) error {
	zipFile, err := os.Create(zipPath) // #nosec G304 -- archive path under the dist root
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer zipFile.Close()

	zw := zip.NewWriter(zipFile)

	var files []string
	err = filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk staging directory: %w", err)
	}
	sort.Strings(files)

	for _, path := range files {
		if err := addZipEntry(zw, dirPath, path); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

func addZipEntry(zw *zip.Writer, dirPath, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	relPath, err := filepath.Rel(dirPath, path)
	if err != nil {
		return fmt.Errorf("failed to get relative path: %w", err)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("failed to create archive header: %w", err)
	}
	header.Method = zip.Deflate
	header.Name = filepath.ToSlash(relPath)

	entry, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create archive entry: %w", err)
	}

	f, err := os.Open(path) // #nosec G304 -- reading staged files
	if err != nil {
		return fmt.Errorf("failed to open file for archiving: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(entry, f); err != nil {
		return fmt.Errorf("failed to write archive entry: %w", err)
	}
	return nil
}
