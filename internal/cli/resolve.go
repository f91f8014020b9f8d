package cli

import (
	"fmt"

	"github.com/bcbuild/baseline/internal/baseline"
	"github.com/bcbuild/baseline/internal/config"
	"github.com/spf13/cobra"
)

var resolveBuildMode string

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the baseline version for a build mode",
	Long: `Print the baseline version. Clean builds use the newest version of the
baseline package in the feed; Default builds use baselineVersion from the
build configuration.`,
	Args: cobra.NoArgs,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveBuildMode, "build-mode", "Default", "Build mode (Clean or Default)")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	mode, err := baseline.ParseBuildMode(resolveBuildMode)
	if err != nil {
		return err
	}
	settings := config.Current()

	var finder baseline.LatestVersionFinder
	if mode == baseline.ModeClean {
		f, err := newFeed(settings)
		if err != nil {
			return err
		}
		finder = f
	}

	v, err := baseline.ResolveVersion(cmd.Context(), mode, finder, settings)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), v)
	return nil
}
