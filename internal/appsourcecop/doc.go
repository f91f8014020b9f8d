// Package appsourcecop reads, patches and writes AppSourceCop.json, the
// compatibility manifest consumed by the AppSourceCop analyzer. It records the
// baseline version used for breaking-change detection and the range of major
// versions for which obsolete tags are still allowed. Validate checks a
// manifest against an embedded JSON schema.
package appsourcecop
