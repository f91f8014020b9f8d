package baseline

import (
	"context"
	"fmt"

	"github.com/bcbuild/baseline/internal/appsourcecop"
	"github.com/bcbuild/baseline/internal/config"
	"github.com/bcbuild/baseline/internal/project"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RestoreRequest holds the inputs of Restorer.Restore.
type RestoreRequest struct {
	Mode       BuildMode
	Extension  *project.Descriptor
	SymbolsDir string
	Settings   config.Settings
	Obsolete   ObsoleteRange
}

// RestoreResult reports what a restore produced.
type RestoreResult struct {
	Version      string
	ArtifactPath string
	ManifestPath string
}

// Restorer runs the full baseline workflow for one extension.
type Restorer struct {
	Feed    PackageFeed
	Store   ArtifactStore
	Fetcher *Fetcher
	Logger  *zap.Logger
}

// Restore resolves the baseline version, then fetches the baseline package
// and patches AppSourceCop.json concurrently. The first failure cancels the
// other branch's context and is returned.
func (r *Restorer) Restore(ctx context.Context, req RestoreRequest) (*RestoreResult, error) {
	if req.Extension == nil {
		return nil, fmt.Errorf("extension descriptor is required")
	}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fetcher := r.Fetcher
	if fetcher == nil {
		fetcher = NewFetcher(WithTempRoot(req.Settings.TempDir), WithFetchLogger(logger))
	}

	v, err := ResolveVersion(ctx, req.Mode, r.Feed, req.Settings)
	if err != nil {
		return nil, err
	}
	logger.Info("baseline version resolved",
		zap.String("mode", req.Mode.String()),
		zap.String("version", v),
	)

	src := SourceFor(req.Mode, r.Store, r.Feed, req.Settings.PackageID)
	res := &RestoreResult{Version: v}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		path, err := fetcher.Fetch(gctx, src, req.Extension.Name, v, req.SymbolsDir)
		if err != nil {
			return err
		}
		res.ArtifactPath = path
		return nil
	})
	g.Go(func() error {
		path, err := appsourcecop.Update(appsourcecop.UpdateRequest{
			Folder:             req.Extension.Folder,
			Name:               req.Extension.Name,
			Publisher:          req.Extension.Publisher,
			BaselineVersion:    v,
			CurrentMajor:       req.Obsolete.CurrentMajor,
			MaxObsoleteMajor:   req.Obsolete.MaxMajor,
			ObsoleteTagVersion: req.Obsolete.Tag,
		})
		if err != nil {
			return err
		}
		res.ManifestPath = path
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
