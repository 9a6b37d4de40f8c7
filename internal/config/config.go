// Package config loads composer configuration from an optional config.yaml
// and DABERLI_-prefixed environment variables, with sane defaults for every
// knob. All pipeline constants (capacity, codec limits, debounce and
// transition intervals) live here so hosts and tests can tune them without
// touching the controllers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Media intake and codec.
	MaxImages   int `mapstructure:"MAX_IMAGES"`
	MaxFileMB   int `mapstructure:"MAX_FILE_MB"`
	MaxWidth    int `mapstructure:"MAX_WIDTH"`
	JPEGQuality int `mapstructure:"JPEG_QUALITY"`

	// Timers (milliseconds).
	DraftDebounceMS int `mapstructure:"DRAFT_DEBOUNCE_MS"`
	TransitionMS    int `mapstructure:"TRANSITION_MS"`
	CloseResetMS    int `mapstructure:"CLOSE_RESET_MS"`
	HintMS          int `mapstructure:"HINT_MS"`

	// Draft persistence.
	DraftPath string `mapstructure:"DRAFT_PATH"`

	// Ad-creation API.
	APIBaseURL  string `mapstructure:"API_BASE_URL"`
	APITimeoutS int    `mapstructure:"API_TIMEOUT_S"`
}

// Load reads configuration from config.yaml (if present) and the
// environment. Environment variables use the DABERLI_ prefix, e.g.
// DABERLI_API_BASE_URL.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix("DABERLI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_IMAGES", 6)
	v.SetDefault("MAX_FILE_MB", 10)
	v.SetDefault("MAX_WIDTH", 1400)
	v.SetDefault("JPEG_QUALITY", 85)
	v.SetDefault("DRAFT_DEBOUNCE_MS", 800)
	v.SetDefault("TRANSITION_MS", 150)
	v.SetDefault("CLOSE_RESET_MS", 300)
	v.SetDefault("HINT_MS", 3000)
	v.SetDefault("DRAFT_PATH", ".daberli/drafts.json")
	v.SetDefault("API_BASE_URL", "http://localhost:5000")
	v.SetDefault("API_TIMEOUT_S", 20)

	// A missing config file is fine; environment and defaults cover everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// DraftDebounce returns the draft autosave quiet interval.
func (c *Config) DraftDebounce() time.Duration {
	return time.Duration(c.DraftDebounceMS) * time.Millisecond
}

// Transition returns the gallery navigation transition interval.
func (c *Config) Transition() time.Duration {
	return time.Duration(c.TransitionMS) * time.Millisecond
}

// CloseReset returns the delay between closing the wizard and resetting its state.
func (c *Config) CloseReset() time.Duration {
	return time.Duration(c.CloseResetMS) * time.Millisecond
}

// HintDuration returns how long the first-use keyboard hint stays visible.
func (c *Config) HintDuration() time.Duration {
	return time.Duration(c.HintMS) * time.Millisecond
}

// MaxFileBytes returns the per-file upload ceiling in bytes.
func (c *Config) MaxFileBytes() int64 {
	return int64(c.MaxFileMB) * 1024 * 1024
}
