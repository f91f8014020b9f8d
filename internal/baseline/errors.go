package baseline

import "errors"

var (
	// ErrResolution means no baseline version could be determined.
	ErrResolution = errors.New("baseline version not resolvable")
	// ErrArtifactNotFound means the download URL or the package file is missing.
	ErrArtifactNotFound = errors.New("baseline artifact not found")
	// ErrAmbiguousArtifact means more than one package file matched.
	ErrAmbiguousArtifact = errors.New("ambiguous baseline artifact")
	// ErrFetch means a download or extraction failed.
	ErrFetch = errors.New("fetching baseline failed")
)
