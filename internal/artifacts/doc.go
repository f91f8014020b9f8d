// Package artifacts resolves and downloads platform artifacts (for example
// the W1 sandbox build of a given version) from an artifact CDN laid out as
// <base>/<kind>/<version>/<region>.
package artifacts
