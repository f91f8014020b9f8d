// Package archive extracts the zip containers used by both baseline sources:
// NuGet packages (.nupkg) and platform artifacts.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ExtractZip extracts every entry of the zip file at archivePath into destDir.
// Entry names are checked by entryPath, so zip.ErrInsecurePath from the
// reader is not fatal on its own.
func ExtractZip(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return fmt.Errorf("opening zip archive: %w", err)
	}
	defer r.Close()

	return extractAll(&r.Reader, destDir, rawName)
}

// ExtractNupkg extracts a NuGet package. Entry names are URL-unescaped
// ("System%20Application" becomes "System Application") and the OPC
// packaging parts ([Content_Types].xml, _rels/, package/) are skipped.
func ExtractNupkg(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return fmt.Errorf("opening package: %w", err)
	}
	defer r.Close()

	return extractAll(&r.Reader, destDir, nupkgName)
}

// ExtractZipReader extracts a zip read from ra into destDir.
func ExtractZipReader(ra io.ReaderAt, size int64, destDir string) error {
	r, err := zip.NewReader(ra, size)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return fmt.Errorf("opening zip archive: %w", err)
	}
	return extractAll(r, destDir, rawName)
}

// entryName maps a zip entry name to the relative path it is extracted to.
// ok is false for entries that are not extracted.
type entryName func(name string) (rel string, ok bool, err error)

func rawName(name string) (string, bool, error) {
	return name, true, nil
}

var opcParts = []string{"[Content_Types].xml", "_rels/", "package/"}

func nupkgName(name string) (string, bool, error) {
	slashed := strings.ReplaceAll(name, `\`, "/")
	for _, part := range opcParts {
		if slashed == part || (strings.HasSuffix(part, "/") && strings.HasPrefix(slashed, part)) {
			return "", false, nil
		}
	}
	unescaped, err := url.PathUnescape(slashed)
	if err != nil {
		return "", false, fmt.Errorf("package entry %q: %w", name, err)
	}
	return unescaped, true, nil
}

func extractAll(r *zip.Reader, destDir string, nameOf entryName) error {
	root, err := filepath.Abs(destDir)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", destDir, err)
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", root, err)
	}

	for _, f := range r.File {
		rel, ok, err := nameOf(f.Name)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		target, err := entryPath(root, rel)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %w", target, err)
			}
			continue
		}

		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

// entryPath maps a zip entry name below root and rejects names that escape it.
// Backslash separators are treated as slashes.
func entryPath(root, name string) (string, error) {
	clean := filepath.FromSlash(strings.ReplaceAll(name, `\`, "/"))
	target := filepath.Join(root, clean)
	if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("zip entry %q escapes destination", name)
	}
	return target, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", target, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening zip entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("extracting %s: %w", f.Name, err)
	}
	return out.Close()
}
