package baseline

import (
	"context"
	"fmt"
	"strings"

	"github.com/bcbuild/baseline/internal/config"
)

// LatestVersionFinder looks up the newest published version of a package.
type LatestVersionFinder interface {
	LatestVersion(ctx context.Context, packageID string) (string, error)
}

// ResolveVersion determines the baseline version for mode. Clean builds ask
// the feed for the newest version of settings.PackageID; Default builds use
// settings.BaselineVersion. Nothing is cached and nothing is retried.
func ResolveVersion(ctx context.Context, mode BuildMode, feed LatestVersionFinder, settings config.Settings) (string, error) {
	switch mode {
	case ModeClean:
		if feed == nil {
			return "", fmt.Errorf("%w: no package feed configured", ErrResolution)
		}
		if settings.PackageID == "" {
			return "", fmt.Errorf("%w: %s is not set", ErrResolution, config.KeyPackageID)
		}
		v, err := feed.LatestVersion(ctx, settings.PackageID)
		if err != nil {
			return "", fmt.Errorf("%w: latest version of %s: %w", ErrResolution, settings.PackageID, err)
		}
		return v, nil

	case ModeDefault:
		v := strings.TrimSpace(settings.BaselineVersion)
		if v == "" {
			return "", fmt.Errorf("%w: %s is not set", ErrResolution, config.KeyBaselineVersion)
		}
		return v, nil

	default:
		return "", fmt.Errorf("%w: unsupported build mode %d", ErrResolution, int(mode))
	}
}
