package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"kidsnews/internal/config"
	"kidsnews/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose    bool
	configPath string
	timeout    time.Duration

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd publishes today's edition when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "kidsnews",
	Short: "Haha Kids News - a daily two-page illustrated newspaper for children",
	Long: `kidsnews writes, illustrates and lays out a two-page children's newspaper
for one day at a time.

Page one carries a short article on the weekday's theme with a word of the
day, a proverb and a hidden-word mission. Page two carries one activity
(quiz, hidden objects, emotion guessing, coloring, comic or free drawing).

Every stage is cached in docs/<date>/data.json, so running the same day
again costs no further model calls.

Run without arguments to publish today's edition.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", configPath, err)
		}

		logger, err = logging.New(logging.Options{
			Level:      cfg.Logging.Level,
			Verbose:    verbose,
			File:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.Get(logger, logging.CategoryBoot).Debug("config loaded",
			zap.String("path", configPath),
			zap.String("docs_dir", cfg.Output.DocsDir),
			zap.Bool("api_key", cfg.HasAPIKey()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runPublish,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 15*time.Minute, "Overall operation timeout")

	addPublishFlags(rootCmd)
	addPublishFlags(publishCmd)

	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(issuesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
