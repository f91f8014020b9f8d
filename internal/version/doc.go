// Package version parses and normalizes the dotted four-part versions used by
// AL application packages (major.minor.build.revision), picks the newest
// version out of a feed listing, and computes the obsolete-tag version range
// written into AppSourceCop.json.
package version
