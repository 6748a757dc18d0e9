package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete relnotes configuration
type Config struct {
	// Org is the default organization prepended to bare repository names
	Org     string        `mapstructure:"org"`
	GitHub  GitHubConfig  `mapstructure:"github"`
	Bundle  BundleConfig  `mapstructure:"bundle"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// GitHubConfig controls access to the GitHub API
type GitHubConfig struct {
	// Token is the API token used for authenticated requests.
	// Falls back to the GITHUB_TOKEN environment variable.
	Token string `mapstructure:"token"`
	// BaseURL overrides the API endpoint (for GitHub Enterprise).
	// Empty means api.github.com.
	BaseURL string `mapstructure:"base_url"`
}

// BundleConfig describes the distribution bundle and its member repositories
type BundleConfig struct {
	// Repos are the top-level repositories walked by the bundle
	// traversal, in emission order
	Repos []string `mapstructure:"repos"`
	// Root is the bundle repository whose dependency manifest pins
	// sub-package versions
	Root string `mapstructure:"root"`
	// ManifestPath is the path of the dependency manifest inside the
	// bundle root (default: "composer.lock")
	ManifestPath string `mapstructure:"manifest_path"`
	// FallbackRef is the ref used for the manifest fetch when the bundle
	// root has no closed milestone to derive a tag from (default: "main")
	FallbackRef string `mapstructure:"fallback_ref"`
	// CommandPattern is a glob matched against manifest package names to
	// discover command sub-packages (default: "wp-cli/*-command")
	CommandPattern string `mapstructure:"command_pattern"`
	// ExtraPackages are manifest package names included in discovery even
	// though they do not match CommandPattern
	ExtraPackages []string `mapstructure:"extra_packages"`
}

// OutputConfig controls the default rendering of aggregated notes
type OutputConfig struct {
	// Source selects where notes come from: "release" or "pull-request"
	Source string `mapstructure:"source"`
	// Format selects the output markup: "markdown" or "html"
	Format string `mapstructure:"format"`
}

// LoggingConfig controls diagnostic output
type LoggingConfig struct {
	// Level is the minimum diagnostic level (debug/info/warn/error)
	Level string `mapstructure:"level"`
}

// Default returns a Config with all default values
func Default() *Config {
	return &Config{
		Org: "wp-cli",
		GitHub: GitHubConfig{
			Token:   os.Getenv("GITHUB_TOKEN"),
			BaseURL: "",
		},
		Bundle: BundleConfig{
			Repos: []string{
				"wp-cli/wp-cli-bundle",
				"wp-cli/wp-cli",
				"wp-cli/handbook",
				"wp-cli/wp-cli.github.com",
			},
			Root:           "wp-cli/wp-cli-bundle",
			ManifestPath:   "composer.lock",
			FallbackRef:    "main",
			CommandPattern: "wp-cli/*-command",
			ExtraPackages: []string{
				"wp-cli/php-cli-tools",
				"wp-cli/spyc",
				"wp-cli/wp-config-transformer",
			},
		},
		Output: OutputConfig{
			Source: "release",
			Format: "markdown",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// SetDefaults registers all default values with viper so they're
// available even when no config file exists
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("org", defaults.Org)

	// GitHub defaults
	viper.SetDefault("github.token", defaults.GitHub.Token)
	viper.SetDefault("github.base_url", defaults.GitHub.BaseURL)

	// Bundle defaults
	viper.SetDefault("bundle.repos", defaults.Bundle.Repos)
	viper.SetDefault("bundle.root", defaults.Bundle.Root)
	viper.SetDefault("bundle.manifest_path", defaults.Bundle.ManifestPath)
	viper.SetDefault("bundle.fallback_ref", defaults.Bundle.FallbackRef)
	viper.SetDefault("bundle.command_pattern", defaults.Bundle.CommandPattern)
	viper.SetDefault("bundle.extra_packages", defaults.Bundle.ExtraPackages)

	// Output defaults
	viper.SetDefault("output.source", defaults.Output.Source)
	viper.SetDefault("output.format", defaults.Output.Format)

	// Logging defaults
	viper.SetDefault("logging.level", defaults.Logging.Level)
}

// Load reads the configuration from viper into a Config struct
func Load() (*Config, error) {
	cfg := Default()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Get returns the current configuration, falling back to defaults if
// unmarshaling fails
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the directory where the config file lives
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "relnotes")
}

// ValidSources returns the list of valid note source strategies
func ValidSources() []string {
	return []string{"release", "pull-request"}
}

// ValidFormats returns the list of valid output formats
func ValidFormats() []string {
	return []string{"markdown", "html"}
}
