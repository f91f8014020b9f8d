package version

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrInvalidFormat is returned when a baseline version is not a three- or
// four-part numeric dotted string.
var ErrInvalidFormat = errors.New("invalid version format")

var (
	threePart = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	fourPart  = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+$`)
)

// Version is a four-part package version.
type Version struct {
	Major    uint64
	Minor    uint64
	Build    uint64
	Revision uint64
}

// Normalize pads an exactly three-part version with a ".0" revision and
// checks that the result has four numeric components. Two-part versions such
// as "24.0" are rejected.
func Normalize(s string) (string, error) {
	if threePart.MatchString(s) {
		s += ".0"
	}
	if !fourPart.MatchString(s) {
		return "", fmt.Errorf("%w: %q must be like '1.0.2.0'", ErrInvalidFormat, s)
	}
	return s, nil
}

// Parse normalizes s and splits it into its numeric components.
func Parse(s string) (Version, error) {
	norm, err := Normalize(s)
	if err != nil {
		return Version{}, err
	}

	parts := strings.Split(norm, ".")
	var nums [4]uint64
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return Version{}, fmt.Errorf("%w: component %q of %q: %v", ErrInvalidFormat, p, s, err)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Build: nums[2], Revision: nums[3]}, nil
}

// String renders the version as major.minor.build.revision.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}

// Semver returns the first three components as a semantic version.
func (v Version) Semver() *semver.Version {
	return semver.New(v.Major, v.Minor, v.Build, "", "")
}

// Compare returns -1, 0 or 1 when v is older than, equal to, or newer than o.
func (v Version) Compare(o Version) int {
	if c := v.Semver().Compare(o.Semver()); c != 0 {
		return c
	}
	switch {
	case v.Revision < o.Revision:
		return -1
	case v.Revision > o.Revision:
		return 1
	}
	return 0
}

// Latest returns the newest entry of versions as it was listed. Entries that
// do not parse (pre-release tags, two-part versions) are skipped. The boolean
// is false when no entry parses.
func Latest(versions []string) (string, bool) {
	var (
		best    Version
		bestRaw string
		found   bool
	)
	for _, raw := range versions {
		v, err := Parse(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		if !found || v.Compare(best) > 0 {
			best, bestRaw, found = v, strings.TrimSpace(raw), true
		}
	}
	return bestRaw, found
}
