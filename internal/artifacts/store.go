package artifacts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/bcbuild/baseline/internal/archive"
	"github.com/bcbuild/baseline/internal/branding"
	"go.uber.org/zap"
)

// DefaultBaseURL is the public artifact CDN.
const DefaultBaseURL = "https://bcartifacts-exdbf9fwegejdqak.b02.azurefd.net"

// Store resolves and downloads artifacts from an artifact CDN.
type Store struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(s *Store) {
		s.httpClient = c
	}
}

// WithLogger sets the logger used for download progress.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// New creates a Store rooted at baseURL. An empty baseURL selects DefaultBaseURL.
func New(baseURL string, opts ...Option) *Store {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	s := &Store{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Minute},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ArtifactURL builds the URL of an artifact without checking that it exists.
func (s *Store) ArtifactURL(kind, region, version string) string {
	return fmt.Sprintf("%s/%s/%s/%s", s.baseURL, strings.ToLower(kind), version, strings.ToLower(region))
}

// ResolveURL returns the download URL of the artifact, or "" when the store
// does not have it.
func (s *Store) ResolveURL(ctx context.Context, kind, region, version string) (string, error) {
	u := s.ArtifactURL(kind, region, version)

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", branding.UserAgent())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("checking %s: %w", u, err)
	}
	resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return u, nil
	case http.StatusNotFound:
		s.logger.Debug("artifact not published", zap.String("url", u))
		return "", nil
	default:
		return "", fmt.Errorf("artifact store returned status %d for %s", resp.StatusCode, u)
	}
}

// Download fetches the artifact at artifactURL and extracts it below destDir
// as <kind>/<version>/<REGION>, mirroring the layout of the URL path.
func (s *Store) Download(ctx context.Context, artifactURL, destDir string) error {
	target, err := extractDir(artifactURL, destDir)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artifactURL, nil)
	if err != nil {
		return fmt.Errorf("creating download request: %w", err)
	}
	req.Header.Set("User-Agent", branding.UserAgent())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", artifactURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", destDir, err)
	}
	f, err := os.CreateTemp(destDir, "artifact-*.zip")
	if err != nil {
		return fmt.Errorf("creating download file: %w", err)
	}
	zipPath := f.Name()
	defer os.Remove(zipPath)

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		f.Close()
		return fmt.Errorf("reading download stream: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing download: %w", err)
	}
	s.logger.Info("downloaded artifact", zap.String("url", artifactURL), zap.Int64("bytes", n))

	if err := archive.ExtractZip(zipPath, target); err != nil {
		return fmt.Errorf("extracting artifact: %w", err)
	}
	return nil
}

// extractDir maps .../<kind>/<version>/<region> onto destDir.
func extractDir(artifactURL, destDir string) (string, error) {
	u, err := url.Parse(artifactURL)
	if err != nil {
		return "", fmt.Errorf("parsing artifact URL: %w", err)
	}

	segs := strings.Split(strings.Trim(path.Clean(u.Path), "/"), "/")
	if len(segs) < 3 {
		return "", fmt.Errorf("artifact URL %q does not end in <kind>/<version>/<region>", artifactURL)
	}
	kind, ver, region := segs[len(segs)-3], segs[len(segs)-2], segs[len(segs)-1]
	return filepath.Join(destDir, kind, ver, strings.ToUpper(region)), nil
}
