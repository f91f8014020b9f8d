package baseline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bcbuild/baseline/internal/feed"
	"github.com/bcbuild/baseline/internal/platform"
)

// Sandbox artifacts are fetched for the worldwide (W1) localization.
const (
	sandboxKind   = "sandbox"
	sandboxRegion = "W1"
)

// ArtifactSource stages a baseline package in stagingDir and returns the
// path of the single .app file for the extension.
type ArtifactSource interface {
	Name() string
	Stage(ctx context.Context, extensionName, version, stagingDir string) (string, error)
}

// ArtifactStore resolves and downloads platform artifacts.
type ArtifactStore interface {
	ResolveURL(ctx context.Context, kind, region, version string) (string, error)
	Download(ctx context.Context, url, destDir string) error
}

// PackageFeed is the package feed used for version lookup and package
// download.
type PackageFeed interface {
	LatestVersionFinder
	FetchPackage(ctx context.Context, packageID, version, destDir string) error
}

// PlatformSource fetches the sandbox artifact of a platform version.
type PlatformSource struct {
	Store ArtifactStore
}

func (PlatformSource) Name() string { return "platform artifact store" }

// Stage downloads the W1 sandbox artifact for version and returns the file
// in its Extensions folder whose name ends in "<extensionName>_<version>.app".
func (s PlatformSource) Stage(ctx context.Context, extensionName, version, stagingDir string) (string, error) {
	if s.Store == nil {
		return "", fmt.Errorf("%w: no artifact store configured", ErrFetch)
	}
	url, err := s.Store.ResolveURL(ctx, sandboxKind, sandboxRegion, version)
	if err != nil {
		return "", fmt.Errorf("%w: resolving %s artifact %s: %w", ErrFetch, sandboxKind, version, err)
	}
	if url == "" {
		return "", fmt.Errorf("%w: no %s artifact for version %s", ErrArtifactNotFound, sandboxKind, version)
	}
	if err := s.Store.Download(ctx, url, stagingDir); err != nil {
		return "", fmt.Errorf("%w: downloading %s: %w", ErrFetch, url, err)
	}

	dir := filepath.Join(stagingDir, sandboxKind, version, sandboxRegion, "Extensions")
	suffix := extensionName + "_" + version + ".app"
	return findSingle(dir, func(name string) bool {
		return strings.HasSuffix(name, suffix)
	})
}

// FeedSource fetches the baseline package from the package feed.
type FeedSource struct {
	Feed      PackageFeed
	PackageID string
}

func (FeedSource) Name() string { return "package feed" }

// Stage extracts the feed package into stagingDir and returns the .app file
// under Apps/<extensionName>/Default.
func (s FeedSource) Stage(ctx context.Context, extensionName, version, stagingDir string) (string, error) {
	if s.Feed == nil {
		return "", fmt.Errorf("%w: no package feed configured", ErrFetch)
	}
	if err := s.Feed.FetchPackage(ctx, s.PackageID, version, stagingDir); err != nil {
		if errors.Is(err, feed.ErrNotFound) {
			return "", fmt.Errorf("%w: %s %s: %w", ErrArtifactNotFound, s.PackageID, version, err)
		}
		return "", fmt.Errorf("%w: fetching %s %s: %w", ErrFetch, s.PackageID, version, err)
	}

	dir := filepath.Join(stagingDir, "Apps", extensionName, "Default")
	return findSingle(dir, func(name string) bool {
		return strings.EqualFold(filepath.Ext(name), ".app")
	})
}

// SourceFor returns the artifact source used by mode: the platform store for
// Clean builds, the package feed for Default builds.
func SourceFor(mode BuildMode, store ArtifactStore, pkgFeed PackageFeed, packageID string) ArtifactSource {
	if mode == ModeClean {
		return PlatformSource{Store: store}
	}
	return FeedSource{Feed: pkgFeed, PackageID: packageID}
}

func findSingle(dir string, match func(name string) bool) (string, error) {
	files, err := platform.FindFiles(dir, match)
	if err != nil {
		return "", fmt.Errorf("%w: searching %s: %w", ErrFetch, dir, err)
	}
	switch len(files) {
	case 0:
		return "", fmt.Errorf("%w: no matching .app file in %s", ErrArtifactNotFound, dir)
	case 1:
		return files[0], nil
	default:
		names := make([]string, len(files))
		for i, f := range files {
			names[i] = filepath.Base(f)
		}
		return "", fmt.Errorf("%w: %d files in %s: %s", ErrAmbiguousArtifact, len(files), dir, strings.Join(names, ", "))
	}
}
