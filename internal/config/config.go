// Package config is the core's configuration surface (§6), generalizing
// config/config.go's viper + godotenv + env-key-replacer pattern.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/trackresolve/core/internal/model"
)

// Config holds every knob §6 names.
type Config struct {
	MBBindingThreshold      float64
	MaxDurationDeltaMs      int64
	MaxDurationDeltaMsAlbum int64
	AcceptanceThreshold     float64
	SourcePriority          []string
	CountryPreference       string
	AllowNonAlbumFallback   bool
	DurationToleranceSec    float64
	LedgerPath              string
}

// Load reads configuration from (in ascending priority) built-in
// defaults, an optional config.yaml, a .env file, and the process
// environment, the same layering config.Load used.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		// absence of a .env file is not fatal; env vars and defaults
		// still apply.
		_ = err
	}

	v := viper.New()
	v.SetDefault("resolve.mb_binding_threshold", 0.90)
	v.SetDefault("resolve.max_duration_delta_ms", 10_000)
	v.SetDefault("resolve.max_duration_delta_ms_album", 25_000)
	v.SetDefault("resolve.acceptance_threshold", 0.78)
	v.SetDefault("resolve.source_priority", []string{"topic_channel", "general_video", "ugc_audio"})
	v.SetDefault("resolve.country_preference", "US")
	v.SetDefault("resolve.allow_non_album_fallback", false)
	v.SetDefault("resolve.duration_tolerance_seconds", 5.0)
	v.SetDefault("ledger.path", "./data/trackresolve.db")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	return Config{
		MBBindingThreshold:      v.GetFloat64("resolve.mb_binding_threshold"),
		MaxDurationDeltaMs:      v.GetInt64("resolve.max_duration_delta_ms"),
		MaxDurationDeltaMsAlbum: v.GetInt64("resolve.max_duration_delta_ms_album"),
		AcceptanceThreshold:     v.GetFloat64("resolve.acceptance_threshold"),
		SourcePriority:          v.GetStringSlice("resolve.source_priority"),
		CountryPreference:       v.GetString("resolve.country_preference"),
		AllowNonAlbumFallback:   v.GetBool("resolve.allow_non_album_fallback"),
		DurationToleranceSec:    v.GetFloat64("resolve.duration_tolerance_seconds"),
		LedgerPath:              v.GetString("ledger.path"),
	}, nil
}

// Thresholds projects Config into the model.Thresholds a single intent
// carries; album mode swaps in the wider duration delta.
func (c Config) Thresholds(albumMode bool) model.Thresholds {
	maxDelta := c.MaxDurationDeltaMs
	if albumMode {
		maxDelta = c.MaxDurationDeltaMsAlbum
	}
	return model.Thresholds{
		BindingThreshold:     c.MBBindingThreshold,
		MaxDurationDeltaMs:   maxDelta,
		AcceptanceThreshold:  c.AcceptanceThreshold,
		DurationToleranceSec: c.DurationToleranceSec,
	}
}
