// Package config loads runtime settings from flip-match.toml, a .env file and
// FLIP_MATCH_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "FLIP_MATCH"

// Config is the full runtime configuration
type Config struct {
	Game    GameConfig    `mapstructure:"game"`
	Assets  AssetsConfig  `mapstructure:"assets"`
	Storage StorageConfig `mapstructure:"storage"`
	History HistoryConfig `mapstructure:"history"`
	Audio   AudioConfig   `mapstructure:"audio"`
	Log     LogConfig     `mapstructure:"log"`
	UI      UIConfig      `mapstructure:"ui"`
}

type GameConfig struct {
	Difficulty    string        `mapstructure:"difficulty"`
	TileSize      float64       `mapstructure:"tile_size"`
	Padding       float64       `mapstructure:"padding"`
	FlipDuration  time.Duration `mapstructure:"flip_duration"`
	FlipEase      string        `mapstructure:"flip_ease"`
	MismatchDelay time.Duration `mapstructure:"mismatch_delay"`
}

type AssetsConfig struct {
	Dir string `mapstructure:"dir"`
}

type StorageConfig struct {
	Path             string        `mapstructure:"path"`
	AutosaveInterval time.Duration `mapstructure:"autosave_interval"`
	MaxAge           time.Duration `mapstructure:"max_age"`
}

// HistoryConfig caps stored results; Limit 0 keeps every entry
type HistoryConfig struct {
	Limit int `mapstructure:"limit"`
}

type AudioConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	Volume     float64 `mapstructure:"volume"`
	SampleRate int     `mapstructure:"sample_rate"`
	// Muted names sounds that never play: flip, match, win
	Muted []string `mapstructure:"muted"`
}

type LogConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

type UIConfig struct {
	Color string `mapstructure:"color"`
}

// Sentinel errors
var (
	ErrInvalidTileSize = errors.New("tile size must be positive")
	ErrInvalidPadding  = errors.New("padding must not be negative")
	ErrInvalidInterval = errors.New("durations must be positive")
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("game.difficulty", "easy")
	v.SetDefault("game.tile_size", 150.0)
	v.SetDefault("game.padding", 10.0)
	v.SetDefault("game.flip_duration", 220*time.Millisecond)
	v.SetDefault("game.flip_ease", "expo.inOut")
	v.SetDefault("game.mismatch_delay", 800*time.Millisecond)

	v.SetDefault("assets.dir", "assets")

	v.SetDefault("storage.path", defaultStoragePath())
	v.SetDefault("storage.autosave_interval", 30*time.Second)
	v.SetDefault("storage.max_age", 24*time.Hour)

	v.SetDefault("history.limit", 0)

	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.volume", 0.8)
	v.SetDefault("audio.sample_rate", 48000)
	v.SetDefault("audio.muted", []string{})

	v.SetDefault("log.enabled", false)
	v.SetDefault("log.file", filepath.Join("logs", "flip-match.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)

	v.SetDefault("ui.color", "auto")
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "flip-match.db"
	}
	return filepath.Join(dir, "flip-match", "state.db")
}

// Default returns the built-in configuration
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	// Defaults always decode
	_ = v.Unmarshal(cfg)
	return cfg
}

// Load reads configuration; an empty path searches the working directory for
// flip-match.toml and tolerates its absence
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("flip-match")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and clamps the audio volume into [0, 1]
func (c *Config) Validate() error {
	if c.Game.TileSize <= 0 {
		return ErrInvalidTileSize
	}
	if c.Game.Padding < 0 {
		return ErrInvalidPadding
	}
	if c.Game.FlipDuration <= 0 || c.Storage.AutosaveInterval <= 0 || c.Storage.MaxAge <= 0 {
		return ErrInvalidInterval
	}
	if c.History.Limit < 0 {
		c.History.Limit = 0
	}
	if c.Audio.Volume < 0 {
		c.Audio.Volume = 0
	}
	if c.Audio.Volume > 1 {
		c.Audio.Volume = 1
	}
	return nil
}
