package feed

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bcbuild/baseline/internal/archive"
	"go.uber.org/zap"
)

// PackageURL returns the flat-container download URL of a package version.
func (c *Client) PackageURL(packageID, version string) string {
	id := strings.ToLower(packageID)
	ver := strings.ToLower(version)
	return fmt.Sprintf("%s/%s/%s/%s.%s.nupkg", c.baseURL, id, ver, id, ver)
}

// FetchPackage downloads packageID at version and extracts its contents into
// destDir. The .nupkg itself is removed once extracted.
func (c *Client) FetchPackage(ctx context.Context, packageID, version, destDir string) error {
	url := c.PackageURL(packageID, version)

	resp, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", destDir, err)
	}

	f, err := os.CreateTemp(destDir, "*.nupkg")
	if err != nil {
		return fmt.Errorf("creating package file: %w", err)
	}
	pkgPath := f.Name()
	defer os.Remove(pkgPath)

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		f.Close()
		return fmt.Errorf("downloading %s: %w", url, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing package file: %w", err)
	}

	c.logger.Info("downloaded package",
		zap.String("package", packageID),
		zap.String("version", version),
		zap.Int64("bytes", n))

	if err := archive.ExtractNupkg(pkgPath, destDir); err != nil {
		return fmt.Errorf("extracting %s: %w", filepath.Base(url), err)
	}
	return nil
}
