package baseline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bcbuild/baseline/internal/platform"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const stagingPrefix = "baseline-"

// Fetcher copies baseline packages into a symbols directory.
type Fetcher struct {
	tempRoot string
	logger   *zap.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithTempRoot sets the directory that holds staging directories. The
// default is os.TempDir().
func WithTempRoot(dir string) FetcherOption {
	return func(f *Fetcher) {
		if dir != "" {
			f.tempRoot = dir
		}
	}
}

// WithFetchLogger sets the logger. The default discards everything.
func WithFetchLogger(l *zap.Logger) FetcherOption {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFetcher returns a Fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		tempRoot: os.TempDir(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch stages the baseline package for extensionName at version from src,
// copies the matching .app file into symbolsDir and returns the copy's path.
// The staging directory is removed before Fetch returns, on success and on
// failure.
func (f *Fetcher) Fetch(ctx context.Context, src ArtifactSource, extensionName, version, symbolsDir string) (string, error) {
	staging := filepath.Join(f.tempRoot, stagingPrefix+uuid.NewString())
	if err := os.MkdirAll(staging, 0o700); err != nil {
		return "", fmt.Errorf("%w: creating staging directory: %w", ErrFetch, err)
	}
	defer func() {
		if err := os.RemoveAll(staging); err != nil {
			f.logger.Warn("removing staging directory", zap.String("dir", staging), zap.Error(err))
		}
	}()

	log := f.logger.With(
		zap.String("source", src.Name()),
		zap.String("extension", extensionName),
		zap.String("version", version),
	)
	log.Debug("staging baseline package", zap.String("dir", staging))

	found, err := src.Stage(ctx, extensionName, version, staging)
	if err != nil {
		return "", err
	}

	if err := platform.EnsureDir(symbolsDir); err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetch, err)
	}
	dst := filepath.Join(symbolsDir, filepath.Base(found))
	if err := platform.CopyFile(found, dst); err != nil {
		return "", fmt.Errorf("%w: copying %s: %w", ErrFetch, filepath.Base(found), err)
	}

	log.Info("baseline package copied", zap.String("path", dst))
	return dst, nil
}
