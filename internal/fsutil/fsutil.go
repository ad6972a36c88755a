// Package fsutil holds the folder handling of a report run: the per-user
// data directory, upload and output folder maintenance and output file
// naming.
package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// AppName is the directory created under the user's data directory.
const AppName = "DocumentGenerator"

// DataDir returns the writable application directory, creating it if
// needed. On Windows it lives under LOCALAPPDATA, elsewhere under
// XDG_DATA_HOME or ~/.local/share. If that cannot be created the system
// temp directory is used instead.
func DataDir() string {
	if dir, err := EnsureDir(filepath.Join(dataBase(), AppName)); err == nil {
		return dir
	}
	dir := filepath.Join(os.TempDir(), AppName)
	_ = os.MkdirAll(dir, 0o755)
	return dir
}

func dataBase() string {
	if runtime.GOOS == "windows" {
		if base := os.Getenv("LOCALAPPDATA"); base != "" {
			return base
		}
		home, _ := os.UserHomeDir()
		return home
	}
	if base := os.Getenv("XDG_DATA_HOME"); base != "" {
		return base
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share")
}

// EnsureDir creates dir and its parents and returns it.
func EnsureDir(dir string) (string, error) {
	if dir == "" {
		return "", errors.New("empty directory path")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	return dir, nil
}

// CleanDir removes everything inside dir but keeps dir itself. A missing
// dir is not an error. Entries that cannot be removed are reported through
// the returned error; the rest are still removed.
func CleanDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read directory: %w", err)
	}
	var errs []error
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		if err := os.RemoveAll(p); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete %s: %w", p, err))
		}
	}
	return errors.Join(errs...)
}

// RemoveFiles deletes the given files. Missing files are not an error; the
// other failures are joined into the returned error.
func RemoveFiles(paths ...string) error {
	var errs []error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("failed to delete %s: %w", p, err))
		}
	}
	return errors.Join(errs...)
}

// SanitizeName turns a case name into a file name base. Letters, digits,
// spaces and ".", "_", "-" are kept, every other character becomes "_" and
// the result is trimmed of spaces. An empty result becomes "claim_<ordinal>".
func SanitizeName(name string, ordinal int) string {
	var sb strings.Builder
	for _, r := range norm.NFC.String(name) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || strings.ContainsRune(" ._-", r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}
	if s := strings.TrimSpace(sb.String()); s != "" {
		return s
	}
	return fmt.Sprintf("claim_%d", ordinal)
}

// UniquePath returns path, or path with " (n)" before the extension when a
// name was already taken by an earlier call with the same seen map.
func UniquePath(path string, seen map[string]bool) string {
	key := strings.ToLower(path)
	if !seen[key] {
		seen[key] = true
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, n, ext)
		if k := strings.ToLower(candidate); !seen[k] {
			seen[k] = true
			return candidate
		}
	}
}
