package baseline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
)

type fakeFeed struct {
	latest    string
	latestErr error
	fetchErr  error
	files     []string // relative to destDir, written by FetchPackage

	mu      sync.Mutex
	staging []string
}

func (f *fakeFeed) LatestVersion(context.Context, string) (string, error) {
	return f.latest, f.latestErr
}

func (f *fakeFeed) FetchPackage(_ context.Context, _, _, destDir string) error {
	f.mu.Lock()
	f.staging = append(f.staging, destDir)
	f.mu.Unlock()
	if f.fetchErr != nil {
		return f.fetchErr
	}
	return writeFiles(destDir, f.files)
}

type fakeStore struct {
	url         string
	resolveErr  error
	downloadErr error
	files       []string

	mu      sync.Mutex
	staging []string
}

func (s *fakeStore) ResolveURL(context.Context, string, string, string) (string, error) {
	return s.url, s.resolveErr
}

func (s *fakeStore) Download(_ context.Context, _, destDir string) error {
	s.mu.Lock()
	s.staging = append(s.staging, destDir)
	s.mu.Unlock()
	if s.downloadErr != nil {
		return s.downloadErr
	}
	return writeFiles(destDir, s.files)
}

func writeFiles(root string, rel []string) error {
	for _, r := range rel {
		path := filepath.Join(root, filepath.FromSlash(r))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte("app:"+filepath.Base(path)), 0o644); err != nil {
			return err
		}
	}
	return nil
}
