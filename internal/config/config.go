package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bcbuild/baseline/internal/branding"
	"github.com/spf13/viper"
)

const fileType = "yaml"

// Configuration keys.
const (
	KeyBaselineVersion           = "baselineVersion"
	KeyMaxAllowedObsoleteVersion = "maxAllowedObsoleteVersion"
	KeyRepoVersion               = "repoVersion"
	KeyPackageID                 = "packageId"
	KeyFeedURL                   = "feedUrl"
	KeyFeedToken                 = "feedToken"
	KeyArtifactURL               = "artifactUrl"
	KeyTimeout                   = "timeout"
	KeyTempDir                   = "tempDir"
)

const (
	DefaultPackageID = "Microsoft.BCApps.Baseline"
	DefaultTimeout   = 10 * time.Minute
)

// Settings is the resolved build configuration.
type Settings struct {
	BaselineVersion           string
	MaxAllowedObsoleteVersion int
	RepoVersion               string
	PackageID                 string
	FeedURL                   string
	FeedToken                 string
	ArtifactURL               string
	Timeout                   time.Duration
	TempDir                   string
}

var configFile string

// FilePath returns the config file in use: the one passed to Load, or
// .baseline.yaml in the working directory.
func FilePath() string {
	if configFile != "" {
		return configFile
	}
	return branding.ConfigFile()
}

// Load initializes Viper to read from path (or the default file) and the
// environment. A missing file is not an error.
func Load(path string) error {
	configFile = path

	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyPackageID, DefaultPackageID)
	viper.SetDefault(KeyTimeout, DefaultTimeout)

	if err := viper.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(FilePath()); os.IsNotExist(statErr) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", FilePath(), err)
	}
	return nil
}

// Current returns the Settings currently visible through Viper.
func Current() Settings {
	return Settings{
		BaselineVersion:           viper.GetString(KeyBaselineVersion),
		MaxAllowedObsoleteVersion: viper.GetInt(KeyMaxAllowedObsoleteVersion),
		RepoVersion:               viper.GetString(KeyRepoVersion),
		PackageID:                 viper.GetString(KeyPackageID),
		FeedURL:                   viper.GetString(KeyFeedURL),
		FeedToken:                 viper.GetString(KeyFeedToken),
		ArtifactURL:               viper.GetString(KeyArtifactURL),
		Timeout:                   viper.GetDuration(KeyTimeout),
		TempDir:                   viper.GetString(KeyTempDir),
	}
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	viper.Set(key, value)

	file := FilePath()
	if dir := filepath.Dir(file); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config directory %s: %w", dir, err)
		}
	}

	// Create the file if it doesn't exist.
	if _, err := os.Stat(file); os.IsNotExist(err) {
		f, err := os.Create(file)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", file, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(file); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Reset clears all loaded configuration.
func Reset() {
	viper.Reset()
	configFile = ""
}
