package appsourcecop

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bcbuild/baseline/internal/platform"
	"github.com/bcbuild/baseline/internal/version"
)

// ErrWrite is returned when the manifest cannot be written or is missing
// after writing.
var ErrWrite = errors.New("manifest write failed")

// UpdateRequest holds the inputs of Update.
type UpdateRequest struct {
	Folder          string // extension folder that holds AppSourceCop.json
	Name            string
	Publisher       string // defaults to DefaultPublisher
	BaselineVersion string // three or four parts; normalized to four

	// CurrentMajor is the major version being built; obsolete tags are
	// allowed for every major in (CurrentMajor, MaxObsoleteMajor].
	CurrentMajor     int
	MaxObsoleteMajor int

	// ObsoleteTagVersion is written verbatim. Empty means "<CurrentMajor>.0".
	ObsoleteTagVersion string
}

// Update creates or patches <Folder>/AppSourceCop.json and returns its path.
// Keys it does not own are preserved. Running it twice with the same request
// leaves the file byte-for-byte unchanged.
func Update(req UpdateRequest) (string, error) {
	baseline, err := version.Normalize(strings.TrimSpace(req.BaselineVersion))
	if err != nil {
		return "", err
	}
	if req.Name == "" {
		return "", fmt.Errorf("extension name is required")
	}

	path := Path(req.Folder)

	m, err := loadOrShell(req.Folder, path)
	if err != nil {
		return "", err
	}

	publisher := req.Publisher
	if publisher == "" {
		publisher = DefaultPublisher
	}
	obsoleteTag := req.ObsoleteTagVersion
	if obsoleteTag == "" {
		obsoleteTag = fmt.Sprintf("%d.0", req.CurrentMajor)
	}

	m.Set(KeyVersion, baseline)
	m.Set(KeyName, req.Name)
	m.Set(KeyPublisher, publisher)
	m.Set(KeyObsoleteTagVersion, obsoleteTag)
	m.Set(KeyObsoleteTagAllowedVersions, version.JoinAllowed(req.CurrentMajor, req.MaxObsoleteMajor))

	if err := Save(path, m); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := verifyWritten(path); err != nil {
		return "", err
	}
	return path, nil
}

func loadOrShell(folder, path string) (*Manifest, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := platform.EnsureDir(folder); err != nil {
			return nil, err
		}
		shell := NewShell()
		if err := Save(path, shell); err != nil {
			return nil, fmt.Errorf("%w: creating %s: %v", ErrWrite, path, err)
		}
		return shell, nil
	}
	return Load(path)
}

// verifyWritten checks that the manifest exists and decodes again.
func verifyWritten(path string) error {
	if !platform.Exists(path) {
		return fmt.Errorf("%w: %s does not exist after writing", ErrWrite, path)
	}
	if _, err := Load(path); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}
