package cli

import (
	"fmt"

	"github.com/bcbuild/baseline/internal/appsourcecop"
	"github.com/bcbuild/baseline/internal/baseline"
	"github.com/bcbuild/baseline/internal/config"
	"github.com/bcbuild/baseline/internal/project"
	"github.com/spf13/cobra"
)

var (
	manifestFolder       string
	manifestExtension    string
	manifestVersion      string
	manifestPublisher    string
	manifestCurrentMajor int
	manifestMaxMajor     int
	manifestObsoleteTag  string
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Create or update AppSourceCop.json",
	Long: `Write the baseline version, name, publisher, and obsolete-tag policy into
<folder>/AppSourceCop.json, creating the file if needed. Values not given as
flags come from app.json in the folder and from the build configuration
(baselineVersion, repoVersion, maxAllowedObsoleteVersion).`,
	Args: cobra.NoArgs,
	RunE: runManifest,
}

func init() {
	manifestCmd.Flags().StringVar(&manifestFolder, "folder", ".", "Extension folder")
	manifestCmd.Flags().StringVar(&manifestExtension, "extension", "", "Extension name (default: name in app.json)")
	manifestCmd.Flags().StringVar(&manifestVersion, "version", "", "Baseline version (default: baselineVersion)")
	manifestCmd.Flags().StringVar(&manifestPublisher, "publisher", "", "Publisher (default: publisher in app.json, else Microsoft)")
	manifestCmd.Flags().IntVar(&manifestCurrentMajor, "current-major", 0, "Major version being built (default: from repoVersion)")
	manifestCmd.Flags().IntVar(&manifestMaxMajor, "max-major", 0, "Highest major allowed in obsolete tags (default: maxAllowedObsoleteVersion)")
	manifestCmd.Flags().StringVar(&manifestObsoleteTag, "obsolete-tag-version", "", "obsoleteTagVersion value (default: from repoVersion)")
	rootCmd.AddCommand(manifestCmd)
}

func runManifest(cmd *cobra.Command, args []string) error {
	req, err := manifestRequest(config.Current())
	if err != nil {
		return err
	}
	path, err := appsourcecop.Update(req)
	if err != nil {
		return err
	}
	logger.Debug("manifest updated")
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// manifestRequest merges flags, app.json, and build configuration. Flags win.
func manifestRequest(settings config.Settings) (appsourcecop.UpdateRequest, error) {
	req := appsourcecop.UpdateRequest{
		Folder:             manifestFolder,
		Name:               manifestExtension,
		Publisher:          manifestPublisher,
		BaselineVersion:    manifestVersion,
		CurrentMajor:       manifestCurrentMajor,
		MaxObsoleteMajor:   manifestMaxMajor,
		ObsoleteTagVersion: manifestObsoleteTag,
	}

	if req.Name == "" {
		d, err := project.LoadDescriptor(req.Folder)
		if err != nil {
			return req, fmt.Errorf("--extension not given: %w", err)
		}
		req.Name = d.Name
		if req.Publisher == "" {
			req.Publisher = d.Publisher
		}
	}
	if req.BaselineVersion == "" {
		req.BaselineVersion = settings.BaselineVersion
	}
	if req.BaselineVersion == "" {
		return req, fmt.Errorf("%w: pass --version or set %s", baseline.ErrResolution, config.KeyBaselineVersion)
	}

	if req.CurrentMajor == 0 || req.MaxObsoleteMajor == 0 || req.ObsoleteTagVersion == "" {
		if req.MaxObsoleteMajor == 0 {
			req.MaxObsoleteMajor = settings.MaxAllowedObsoleteVersion
		}
		if settings.RepoVersion != "" {
			rng, err := baseline.ObsoleteRangeFrom(config.Settings{
				RepoVersion:               settings.RepoVersion,
				MaxAllowedObsoleteVersion: req.MaxObsoleteMajor,
			})
			if err != nil {
				return req, err
			}
			if req.CurrentMajor == 0 {
				req.CurrentMajor = rng.CurrentMajor
			}
			if req.ObsoleteTagVersion == "" {
				req.ObsoleteTagVersion = rng.Tag
			}
		}
	}
	if req.CurrentMajor == 0 {
		return req, fmt.Errorf("pass --current-major or set %s", config.KeyRepoVersion)
	}
	if req.MaxObsoleteMajor == 0 {
		return req, fmt.Errorf("pass --max-major or set %s", config.KeyMaxAllowedObsoleteVersion)
	}
	return req, nil
}
