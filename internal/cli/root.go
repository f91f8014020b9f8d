package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/bcbuild/baseline/internal/artifacts"
	"github.com/bcbuild/baseline/internal/branding"
	"github.com/bcbuild/baseline/internal/config"
	"github.com/bcbuild/baseline/internal/feed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	configPath string
	verbose    bool
	logger     = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` restores the breaking-change baseline of an AL extension.
It resolves the baseline version, copies the baseline .app package into the
symbols folder, and patches AppSourceCop.json.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		logger = l

		if err := config.Load(configPath); err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Build configuration file (default "+branding.ConfigFile()+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command with build info injected via ldflags.
// Interrupts cancel the command's context.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func httpClient(settings config.Settings) *http.Client {
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

func newFeed(settings config.Settings) (*feed.Client, error) {
	if settings.FeedURL == "" {
		return nil, fmt.Errorf("%s is not set (config file or %s)", config.KeyFeedURL, branding.EnvVar(config.KeyFeedURL))
	}
	return feed.New(settings.FeedURL,
		feed.WithHTTPClient(httpClient(settings)),
		feed.WithToken(settings.FeedToken),
		feed.WithLogger(logger),
	), nil
}

func newStore(settings config.Settings) *artifacts.Store {
	base := settings.ArtifactURL
	if base == "" {
		base = artifacts.DefaultBaseURL
	}
	return artifacts.New(base,
		artifacts.WithHTTPClient(httpClient(settings)),
		artifacts.WithLogger(logger),
	)
}
