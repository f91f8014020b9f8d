package baseline

import (
	"fmt"

	"github.com/bcbuild/baseline/internal/config"
	"github.com/bcbuild/baseline/internal/version"
)

// ObsoleteRange is the obsolete-tag policy derived from build configuration.
type ObsoleteRange struct {
	CurrentMajor int
	MaxMajor     int
	Tag          string // obsoleteTagVersion, e.g. "26.1"
}

// ObsoleteRangeFrom derives the obsolete-tag policy from repoVersion and
// maxAllowedObsoleteVersion.
func ObsoleteRangeFrom(settings config.Settings) (ObsoleteRange, error) {
	if settings.RepoVersion == "" {
		return ObsoleteRange{}, fmt.Errorf("%s is not set", config.KeyRepoVersion)
	}
	repo, err := version.ParseRepoVersion(settings.RepoVersion)
	if err != nil {
		return ObsoleteRange{}, err
	}
	if settings.MaxAllowedObsoleteVersion <= 0 {
		return ObsoleteRange{}, fmt.Errorf("%s is not set", config.KeyMaxAllowedObsoleteVersion)
	}
	return ObsoleteRange{
		CurrentMajor: int(repo.Major),
		MaxMajor:     settings.MaxAllowedObsoleteVersion,
		Tag:          repo.ObsoleteTag(),
	}, nil
}
