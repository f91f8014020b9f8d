package cli

import (
	"fmt"

	"github.com/bcbuild/baseline/internal/baseline"
	"github.com/bcbuild/baseline/internal/config"
	"github.com/spf13/cobra"
)

var (
	fetchBuildMode  string
	fetchExtension  string
	fetchVersion    string
	fetchSymbolsDir string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Copy the baseline package of an extension into a symbols folder",
	Long: `Download the baseline package and copy the extension's .app file into the
symbols folder. Clean builds read the platform sandbox artifact; Default builds
read the baseline package from the feed. Without --version the version is
resolved as in 'resolve'.`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchBuildMode, "build-mode", "Default", "Build mode (Clean or Default)")
	fetchCmd.Flags().StringVar(&fetchExtension, "extension", "", "Extension name, e.g. \"System Application\"")
	fetchCmd.Flags().StringVar(&fetchVersion, "version", "", "Baseline version (resolved when empty)")
	fetchCmd.Flags().StringVar(&fetchSymbolsDir, "symbols-dir", "", "Folder that receives the .app file")
	_ = fetchCmd.MarkFlagRequired("extension")
	_ = fetchCmd.MarkFlagRequired("symbols-dir")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	mode, err := baseline.ParseBuildMode(fetchBuildMode)
	if err != nil {
		return err
	}
	settings := config.Current()

	pkgFeed, err := newFeed(settings)
	if err != nil && (mode == baseline.ModeDefault || fetchVersion == "") {
		return err
	}

	v := fetchVersion
	if v == "" {
		var finder baseline.LatestVersionFinder
		if pkgFeed != nil {
			finder = pkgFeed
		}
		v, err = baseline.ResolveVersion(cmd.Context(), mode, finder, settings)
		if err != nil {
			return err
		}
	}

	var src baseline.ArtifactSource
	if mode == baseline.ModeClean {
		src = baseline.PlatformSource{Store: newStore(settings)}
	} else {
		src = baseline.FeedSource{Feed: pkgFeed, PackageID: settings.PackageID}
	}

	fetcher := baseline.NewFetcher(
		baseline.WithTempRoot(settings.TempDir),
		baseline.WithFetchLogger(logger),
	)
	path, err := fetcher.Fetch(cmd.Context(), src, fetchExtension, v, fetchSymbolsDir)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
