package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Settings holds the user-tunable options of a review session.
type Settings struct {
	Catalog CatalogSettings `mapstructure:"catalog"`
	Review  ReviewSettings  `mapstructure:"review"`
	Logging LoggingSettings `mapstructure:"logging"`
}

// CatalogSettings locates the catalog CSV.
type CatalogSettings struct {
	Path string `mapstructure:"path"`
}

// ReviewSettings configures the grid and the initial filter.
type ReviewSettings struct {
	PageSize    int      `mapstructure:"page_size" validate:"min=1,max=100"`
	DefaultTags []string `mapstructure:"default_tags"`
	MinRating   float64  `mapstructure:"min_rating" validate:"gte=0,lte=10"`
}

// LoggingSettings configures the zerolog output.
type LoggingSettings struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn warning error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

var settingsValidate = validator.New()

// DefaultSettings returns Settings populated with defaults.
func DefaultSettings() *Settings {
	return &Settings{
		Review: ReviewSettings{
			PageSize:    10,
			DefaultTags: []string{"日本"},
		},
		Logging: LoggingSettings{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadSettings reads settings from file and environment variables.
// Priority: environment variables > config file > defaults. A missing config
// file is not an error.
func LoadSettings(configPath string) (*Settings, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(GetDataDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("ANIMESIFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// Validate checks that settings values are within their allowed ranges.
func (s *Settings) Validate() error {
	if err := settingsValidate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultSettings()

	v.SetDefault("catalog.path", defaults.Catalog.Path)

	v.SetDefault("review.page_size", defaults.Review.PageSize)
	v.SetDefault("review.default_tags", defaults.Review.DefaultTags)
	v.SetDefault("review.min_rating", defaults.Review.MinRating)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
}
