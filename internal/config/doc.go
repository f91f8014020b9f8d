// Package config manages the build configuration read from .baseline.yaml
// (or the file named by --config) and BASELINE_* environment variables. It
// exposes the values as a Settings struct that commands pass to the
// resolver, fetcher and manifest patcher, and it can read and write single
// keys for the config subcommand.
package config
