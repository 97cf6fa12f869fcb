package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/animesift/animesift/internal/config"
	"github.com/animesift/animesift/internal/logging"
	"github.com/animesift/animesift/internal/usecase"
)

var rootCmd = &cobra.Command{
	Use:          "animesift",
	Short:        "animesift - triage an anime catalog one page at a time",
	Long:         "animesift pages through an anime catalog and records watched, interested and skipped decisions per profile.",
	Version:      version,
	SilenceUsage: true,
}

// globalFlags are the persistent flags shared by every command.
var globalFlags struct {
	catalog  string
	config   string
	profile  string
	logLevel string
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&globalFlags.catalog, "catalog", "", "Catalog CSV file (overrides catalog.path)")
	pf.StringVar(&globalFlags.config, "config", "", "Settings file (default <data dir>/config.yaml)")
	pf.StringVar(&globalFlags.profile, "profile", "", "Profile name (default derived from the catalog file name)")
	pf.StringVar(&globalFlags.logLevel, "log-level", "", "Log level: trace, debug, info, warn or error")

	rootCmd.AddCommand(newReviewCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newDecisionsCmd())
	rootCmd.AddCommand(newTagsCmd())
	rootCmd.AddCommand(newProfilesCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newMCPCmd())
}

// loadSettings reads the settings file and applies flag overrides.
func loadSettings() (*config.Settings, error) {
	settings, err := config.LoadSettings(globalFlags.config)
	if err != nil {
		return nil, err
	}
	if globalFlags.catalog != "" {
		settings.Catalog.Path = globalFlags.catalog
	}
	if globalFlags.logLevel != "" {
		settings.Logging.Level = globalFlags.logLevel
	}
	return settings, nil
}

// newLogger writes to console and to the rotated file in the data directory.
func newLogger(settings *config.Settings, console io.Writer) *logging.Logger {
	return logging.New(logging.Config{
		Level:    settings.Logging.Level,
		Format:   settings.Logging.Format,
		Console:  console,
		Path:     config.GetLogDir(),
		Compress: true,
	})
}

// openReview loads settings, the catalog and the profile. The returned close
// function drains pending writes and must always be called.
func openReview(ctx context.Context, cmd *cobra.Command) (*usecase.Review, func(), error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, nil, err
	}

	logger := newLogger(settings, cmd.ErrOrStderr())

	review, err := usecase.Open(ctx, usecase.OpenOptions{
		CatalogPath: settings.Catalog.Path,
		ProfileName: globalFlags.profile,
		Settings:    settings,
		Logger:      logger.Logger,
	})
	if err != nil {
		_ = logger.Close()
		return nil, nil, err
	}

	closeFn := func() {
		if err := review.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close review")
		}
		_ = logger.Close()
	}
	return review, closeFn, nil
}
