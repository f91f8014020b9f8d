package baseline

import (
	"fmt"
	"strings"
)

// BuildMode selects how the baseline version is resolved and where the
// baseline package comes from.
type BuildMode int

const (
	// ModeDefault pins the baseline to the configured version and fetches it
	// from the package feed.
	ModeDefault BuildMode = iota
	// ModeClean uses the newest version in the package feed and fetches the
	// platform sandbox artifact of that version.
	ModeClean
)

// ParseBuildMode parses "Clean" or "Default", case-insensitively. An empty
// string means ModeDefault.
func ParseBuildMode(s string) (BuildMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return ModeDefault, nil
	case "clean":
		return ModeClean, nil
	default:
		return ModeDefault, fmt.Errorf("unknown build mode %q (want Clean or Default)", s)
	}
}

// String returns the pipeline name of the mode.
func (m BuildMode) String() string {
	switch m {
	case ModeClean:
		return "Clean"
	case ModeDefault:
		return "Default"
	default:
		return "unknown"
	}
}
