package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/Iron-Ham/relnotes/internal/config"
	"github.com/Iron-Ham/relnotes/internal/forge"
	"github.com/Iron-Ham/relnotes/internal/logging"
	"github.com/Iron-Ham/relnotes/internal/notes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "relnotes [repository] [milestone...]",
	Short: "Aggregate release notes across project repositories",
	Long: `Relnotes collects merged change descriptions from GitHub — either
from a published release body or synthesized from the merged pull
requests attached to a milestone — and renders them as markdown or HTML.

With a repository argument, it aggregates the given milestones of that
repository. A bare repository name gets the default organization
prepended ("wp-cli" becomes "wp-cli/wp-cli").

With no arguments, it walks the configured bundle: each top-level
repository's lowest open milestone, then every sub-package pinned in the
bundle's dependency manifest whose closed milestones are newer than the
pinned version.

Examples:
  # Notes for one milestone of wp-cli/wp-cli
  relnotes wp-cli 2.9.0

  # Notes synthesized from merged PR titles, as HTML
  relnotes wp-cli/wp-cli 2.9.0 --source pull-request --format html

  # Full bundle traversal
  relnotes`,
	Args: cobra.ArbitraryArgs,
	RunE: runNotes,
}

var (
	notesSource string
	notesFormat string
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/relnotes/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.Flags().StringVar(&notesSource, "source", "release", "notes source (release/pull-request)")
	rootCmd.Flags().StringVar(&notesFormat, "format", "markdown", "output format (markdown/html)")
	_ = viper.BindPFlag("output.source", rootCmd.Flags().Lookup("source"))
	_ = viper.BindPFlag("output.format", rootCmd.Flags().Lookup("format"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("RELNOTES")
	// Replace dots with underscores for nested keys in env vars
	// e.g., RELNOTES_GITHUB_TOKEN for github.token
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

func runNotes(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	logger := logging.New(nil, cfg.Logging.Level)

	client, err := forge.NewGitHub(cfg.GitHub.Token, cfg.GitHub.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	agg := notes.NewAggregator(client, logger, os.Stdout, cfg)

	source := notes.Source(viper.GetString("output.source"))
	format := notes.Format(viper.GetString("output.format"))

	if len(args) == 0 {
		return agg.Bundle(cmd.Context(), source, format)
	}

	return agg.Repo(cmd.Context(), notes.Request{
		Repo:       args[0],
		Milestones: args[1:],
		Source:     source,
		Format:     format,
	})
}
