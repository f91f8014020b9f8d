package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bcbuild/baseline/internal/branding"
	"github.com/bcbuild/baseline/internal/version"
	"go.uber.org/zap"
)

// ErrNotFound is returned when the feed has no such package or version.
var ErrNotFound = errors.New("package not found in feed")

// DefaultTimeout bounds a single feed request when no client is supplied.
const DefaultTimeout = 10 * time.Minute

// Client talks to a NuGet v3 flat-container endpoint
// (the PackageBaseAddress resource of the service index).
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(cl *Client) {
		cl.token = token
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(cl *Client) {
		cl.logger = l
	}
}

// New creates a Client for the flat-container base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type versionIndex struct {
	Versions []string `json:"versions"`
}

// Versions lists every published version of packageID.
func (c *Client) Versions(ctx context.Context, packageID string) ([]string, error) {
	url := fmt.Sprintf("%s/%s/index.json", c.baseURL, strings.ToLower(packageID))

	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading version index: %w", err)
	}

	var idx versionIndex
	if err := json.Unmarshal(body, &idx); err != nil {
		return nil, fmt.Errorf("parsing version index for %s: %w", packageID, err)
	}
	return idx.Versions, nil
}

// LatestVersion returns the newest published four-part version of packageID.
func (c *Client) LatestVersion(ctx context.Context, packageID string) (string, error) {
	versions, err := c.Versions(ctx, packageID)
	if err != nil {
		return "", err
	}

	latest, ok := version.Latest(versions)
	if !ok {
		return "", fmt.Errorf("%w: %s has no usable versions", ErrNotFound, packageID)
	}

	c.logger.Debug("resolved latest feed version",
		zap.String("package", packageID),
		zap.Int("candidates", len(versions)),
		zap.String("version", latest))
	return latest, nil
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", branding.UserAgent())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("feed request", zap.String("url", url))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", url, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return resp, nil
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	case http.StatusUnauthorized, http.StatusForbidden:
		resp.Body.Close()
		return nil, fmt.Errorf("feed rejected credentials (status %d). Set feedToken", resp.StatusCode)
	default:
		resp.Body.Close()
		return nil, fmt.Errorf("feed returned status %d for %s", resp.StatusCode, url)
	}
}
