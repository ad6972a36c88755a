package imageset

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FromArchive extracts a zip archive into dest and loads the collection
// rooted at the archive's first top-level directory, in sorted order.
func FromArchive(archivePath, dest string) (*Collection, error) {
	if err := Extract(archivePath, dest); err != nil {
		return nil, err
	}
	dirs, err := subdirs(dest)
	if err != nil {
		return nil, err
	}
	if len(dirs) == 0 {
		return nil, ErrNoFolders
	}
	return FromDir(filepath.Join(dest, dirs[0]))
}

// Extract unpacks a zip archive into dest. Entries that would land outside
// dest and entries that are not regular files or directories are skipped.
func Extract(archivePath, dest string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer zr.Close()

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("failed to create extraction directory: %w", err)
	}

	for _, f := range zr.File {
		target, ok := safeJoin(dest, f.Name)
		if !ok {
			continue
		}
		mode := f.Mode()
		switch {
		case mode.IsDir():
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", f.Name, err)
			}
		case mode.IsRegular():
			if err := extractFile(f, target); err != nil {
				return err
			}
		}
	}
	return nil
}

// safeJoin resolves an archive entry name under dest.
func safeJoin(dest, name string) (string, bool) {
	name = strings.ReplaceAll(name, "\\", "/")
	if name == "" || strings.HasPrefix(name, "/") || filepath.IsAbs(name) {
		return "", false
	}
	target := filepath.Join(dest, filepath.FromSlash(name))
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return target, true
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(f.Name), err)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", f.Name, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	return out.Close()
}
