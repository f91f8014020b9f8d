package platform

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
)

// EnsureDir creates dir and any missing parents. It succeeds if dir exists.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// CopyFile copies src to dst, preserving the source permissions.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dst, err)
	}

	// OpenFile only applies the mode on creation.
	return applyMode(dst, info.Mode())
}

// applyMode sets the permission bits of path from mode. Windows has no Unix
// permission bits, so it is skipped there.
func applyMode(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	if err := os.Chmod(path, mode.Perm()); err != nil {
		return fmt.Errorf("setting mode %o on %s: %w", mode.Perm(), path, err)
	}
	return nil
}

// FindFiles returns the regular files directly inside dir whose name satisfies
// match, sorted by name. A missing dir yields no files and no error.
func FindFiles(dir string, match func(name string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var found []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if match(e.Name()) {
			found = append(found, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(found)
	return found, nil
}
