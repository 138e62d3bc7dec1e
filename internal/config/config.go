// Package config loads assetpick settings from a TOML file and ASSETPICK_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/glabrego/assetpick/internal/media"
	"github.com/glabrego/assetpick/internal/picker"
)

// Config holds runtime settings for the CLI app.
type Config struct {
	Library LibraryConfig `toml:"library"`
	Picker  PickerConfig  `toml:"picker"`
	Remote  RemoteConfig  `toml:"remote"`
	Log     LogConfig     `toml:"log"`

	HomeDir string `toml:"-"`
}

// LibraryConfig describes the local index.
type LibraryConfig struct {
	Root        string `toml:"root"`
	DBPath      string `toml:"db_path"`
	MaxDepth    int    `toml:"max_depth"`
	Concurrency int    `toml:"concurrency"`
}

// PickerConfig maps onto picker.Options.
type PickerConfig struct {
	MaxAssets     int    `toml:"max_assets"`
	PageSize      int    `toml:"page_size"`
	GridCount     int    `toml:"grid_count"`
	RequestType   string `toml:"request_type"`
	TypeExclusive bool   `toml:"type_exclusive"`
	ThumbnailSize int    `toml:"thumbnail_size"`
}

// RemoteConfig points at an optional remote media server.
type RemoteConfig struct {
	BaseURL           string  `toml:"base_url"`
	Token             string  `toml:"token"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	PollInterval      string  `toml:"poll_interval"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultHome returns the assetpick home directory, honouring
// ASSETPICK_HOME.
func DefaultHome() string {
	if h := os.Getenv("ASSETPICK_HOME"); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".assetpick"
	}
	return filepath.Join(home, ".assetpick")
}

// Default returns the configuration used when no file is present.
func Default() Config {
	homeDir := DefaultHome()
	return Config{
		HomeDir: homeDir,
		Library: LibraryConfig{
			DBPath:      filepath.Join(homeDir, "assetpick.db"),
			Concurrency: 4,
		},
		Picker: PickerConfig{
			MaxAssets:     picker.DefaultMaxAssets,
			PageSize:      picker.DefaultPageSize,
			GridCount:     picker.DefaultGridCount,
			RequestType:   media.RequestAll.String(),
			ThumbnailSize: picker.DefaultThumbnailSize,
		},
		Remote: RemoteConfig{
			RequestsPerSecond: 10,
			PollInterval:      "5s",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path (or HomeDir/config.toml when empty), applies environment
// overrides and validates the result. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = filepath.Join(cfg.HomeDir, "config.toml")
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("stat config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.Library.Root = expandPath(cfg.Library.Root)
	cfg.Library.DBPath = expandPath(cfg.Library.DBPath)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setString("ASSETPICK_LIBRARY_ROOT", &c.Library.Root)
	setString("ASSETPICK_DB_PATH", &c.Library.DBPath)
	setString("ASSETPICK_REQUEST_TYPE", &c.Picker.RequestType)
	setString("ASSETPICK_REMOTE_URL", &c.Remote.BaseURL)
	setString("ASSETPICK_REMOTE_TOKEN", &c.Remote.Token)
	setString("ASSETPICK_LOG_LEVEL", &c.Log.Level)

	if v := os.Getenv("ASSETPICK_MAX_ASSETS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse ASSETPICK_MAX_ASSETS: %w", err)
		}
		c.Picker.MaxAssets = n
	}
	if v := os.Getenv("ASSETPICK_TYPE_EXCLUSIVE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse ASSETPICK_TYPE_EXCLUSIVE: %w", err)
		}
		c.Picker.TypeExclusive = b
	}
	return nil
}

func (c Config) Validate() error {
	if c.Library.DBPath == "" {
		return errors.New("library db_path is required")
	}
	if c.Library.MaxDepth < 0 {
		return fmt.Errorf("library max_depth must not be negative: %d", c.Library.MaxDepth)
	}
	if _, err := c.PickerOptions(); err != nil {
		return err
	}
	if c.Remote.BaseURL != "" {
		if !strings.HasPrefix(c.Remote.BaseURL, "http://") && !strings.HasPrefix(c.Remote.BaseURL, "https://") {
			return fmt.Errorf("remote base_url must be http(s): %s", c.Remote.BaseURL)
		}
		if strings.HasSuffix(c.Remote.BaseURL, "/") {
			return fmt.Errorf("remote base_url must not end with '/': %s", c.Remote.BaseURL)
		}
	}
	if _, err := c.Remote.Interval(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be one of trace, debug, info, warn, error: %s", c.Log.Level)
	}
	return nil
}

// PickerOptions converts the [picker] section. Errors wrap
// picker.ErrInvalidConfiguration.
func (c Config) PickerOptions() (picker.Options, error) {
	types, err := media.ParseRequestType(c.Picker.RequestType)
	if err != nil {
		return picker.Options{}, fmt.Errorf("%w: %w", picker.ErrInvalidConfiguration, err)
	}
	opts := picker.DefaultOptions()
	opts.MaxAssets = c.Picker.MaxAssets
	opts.PageSize = c.Picker.PageSize
	opts.GridCount = c.Picker.GridCount
	opts.RequestType = types
	opts.TypeExclusive = c.Picker.TypeExclusive
	opts.ThumbnailSize = c.Picker.ThumbnailSize
	if err := opts.Validate(); err != nil {
		return picker.Options{}, err
	}
	return opts, nil
}

// Interval parses PollInterval. Empty means polling is off.
func (r RemoteConfig) Interval() (time.Duration, error) {
	if r.PollInterval == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.PollInterval)
	if err != nil {
		return 0, fmt.Errorf("parse remote poll_interval: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("remote poll_interval must not be negative: %s", r.PollInterval)
	}
	return d, nil
}

func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
