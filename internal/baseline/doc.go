// Package baseline restores the breaking-change baseline of an AL extension.
//
// A restore runs in three steps. ResolveVersion picks the baseline version,
// either the newest one in the package feed (Clean builds) or the pinned one
// from build configuration (Default builds). A Fetcher then stages the
// baseline package from an ArtifactSource in a private temporary directory,
// copies the single matching .app into the symbols directory and removes the
// staging directory on every exit path. In parallel the AppSourceCop.json
// manifest is patched through package appsourcecop.
//
// Failures are reported with the sentinel errors in errors.go; callers match
// them with errors.Is.
package baseline
