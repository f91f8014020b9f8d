package baseline

import (
	"context"
	"fmt"
	"testing"

	"github.com/bcbuild/baseline/internal/config"
	"github.com/bcbuild/baseline/internal/feed"
	"github.com/stretchr/testify/require"
)

func TestResolveVersionClean(t *testing.T) {
	f := &fakeFeed{latest: "26.0.30000.0"}
	got, err := ResolveVersion(context.Background(), ModeClean, f, config.Settings{PackageID: "Microsoft.BCApps.Baseline"})
	require.NoError(t, err)
	require.Equal(t, "26.0.30000.0", got)
}

func TestResolveVersionCleanNotFound(t *testing.T) {
	f := &fakeFeed{latestErr: fmt.Errorf("%w: Microsoft.BCApps.Baseline", feed.ErrNotFound)}
	_, err := ResolveVersion(context.Background(), ModeClean, f, config.Settings{PackageID: "Microsoft.BCApps.Baseline"})
	require.ErrorIs(t, err, ErrResolution)
	require.ErrorIs(t, err, feed.ErrNotFound)
}

func TestResolveVersionCleanWithoutFeed(t *testing.T) {
	_, err := ResolveVersion(context.Background(), ModeClean, nil, config.Settings{PackageID: "x"})
	require.ErrorIs(t, err, ErrResolution)
}

func TestResolveVersionDefault(t *testing.T) {
	got, err := ResolveVersion(context.Background(), ModeDefault, nil, config.Settings{BaselineVersion: "24.0.0"})
	require.NoError(t, err)
	require.Equal(t, "24.0.0", got)
}

func TestResolveVersionDefaultMissing(t *testing.T) {
	_, err := ResolveVersion(context.Background(), ModeDefault, &fakeFeed{latest: "1.0.0.0"}, config.Settings{})
	require.ErrorIs(t, err, ErrResolution)
}
