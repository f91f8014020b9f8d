package cli

import (
	"fmt"
	"path/filepath"

	"github.com/bcbuild/baseline/internal/baseline"
	"github.com/bcbuild/baseline/internal/config"
	"github.com/bcbuild/baseline/internal/project"
	"github.com/spf13/cobra"
)

var (
	restoreAppDir     string
	restoreBuildMode  string
	restoreSymbolsDir string
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Resolve, fetch, and record the baseline of an extension",
	Long: `Read app.json from the extension folder, resolve the baseline version,
then copy the baseline .app into the symbols folder and patch AppSourceCop.json
in parallel. repoVersion and maxAllowedObsoleteVersion must be configured.`,
	Args: cobra.NoArgs,
	RunE: runRestore,
}

func init() {
	restoreCmd.Flags().StringVar(&restoreAppDir, "app-dir", ".", "Extension folder containing app.json")
	restoreCmd.Flags().StringVar(&restoreBuildMode, "build-mode", "Default", "Build mode (Clean or Default)")
	restoreCmd.Flags().StringVar(&restoreSymbolsDir, "symbols-dir", "", "Folder that receives the .app file (default <app-dir>/.alpackages)")
	rootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
	mode, err := baseline.ParseBuildMode(restoreBuildMode)
	if err != nil {
		return err
	}
	settings := config.Current()

	ext, err := project.LoadDescriptor(restoreAppDir)
	if err != nil {
		return err
	}
	rng, err := baseline.ObsoleteRangeFrom(settings)
	if err != nil {
		return err
	}
	pkgFeed, err := newFeed(settings)
	if err != nil {
		return err
	}

	symbols := restoreSymbolsDir
	if symbols == "" {
		symbols = filepath.Join(restoreAppDir, ".alpackages")
	}

	r := &baseline.Restorer{
		Feed:  pkgFeed,
		Store: newStore(settings),
		Fetcher: baseline.NewFetcher(
			baseline.WithTempRoot(settings.TempDir),
			baseline.WithFetchLogger(logger),
		),
		Logger: logger,
	}
	res, err := r.Restore(cmd.Context(), baseline.RestoreRequest{
		Mode:       mode,
		Extension:  ext,
		SymbolsDir: symbols,
		Settings:   settings,
		Obsolete:   rng,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Baseline version: %s\n", res.Version)
	fmt.Fprintf(out, "Package:          %s\n", res.ArtifactPath)
	fmt.Fprintf(out, "Manifest:         %s\n", res.ManifestPath)
	return nil
}
