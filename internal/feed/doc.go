// Package feed is a client for NuGet v3 flat-container feeds. It lists the
// published versions of a package to find the newest one, and downloads and
// extracts a specific .nupkg into a staging directory.
package feed
