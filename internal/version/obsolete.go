package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// RepoVersion is the major.minor version of the repository being built.
type RepoVersion struct {
	Major uint64
	Minor uint64
}

// ParseRepoVersion parses a repository version such as "26.1" or "v26.1.0".
func ParseRepoVersion(s string) (RepoVersion, error) {
	sv, err := semver.NewVersion(strings.TrimPrefix(strings.TrimSpace(s), "v"))
	if err != nil {
		return RepoVersion{}, fmt.Errorf("parsing repo version %q: %w", s, err)
	}
	return RepoVersion{Major: sv.Major(), Minor: sv.Minor()}, nil
}

// ObsoleteTag renders the version written to obsoleteTagVersion.
func (r RepoVersion) ObsoleteTag() string {
	return fmt.Sprintf("%d.%d", r.Major, r.Minor)
}

// AllowedObsoleteVersions lists "<major>.0" for every major in the half-open
// range (current, max]. The result is empty when current >= max.
func AllowedObsoleteVersions(current, max int) []string {
	if current >= max {
		return []string{}
	}
	out := make([]string, 0, max-current)
	for i := current + 1; i <= max; i++ {
		out = append(out, fmt.Sprintf("%d.0", i))
	}
	return out
}

// JoinAllowed renders AllowedObsoleteVersions as the comma-joined manifest value.
func JoinAllowed(current, max int) string {
	return strings.Join(AllowedObsoleteVersions(current, max), ",")
}
