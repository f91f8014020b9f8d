// Package cli defines the Cobra command tree for the baseline CLI. Each file
// in this package registers one top-level command (resolve, fetch, manifest,
// restore, etc.) with the root command. Commands load the build configuration
// once, build their collaborators, and delegate to internal packages.
package cli
