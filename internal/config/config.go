package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"infinitescroll/internal/domain"
)

// DefaultFileName is the config file looked up in the working directory
const DefaultFileName = ".infinitescroll.toml"

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

// Config represents the application configuration
type Config struct {
	Version int             `toml:"version"`
	Watcher WatcherSettings `toml:"watcher"`
	Feed    FeedSettings    `toml:"feed"`
	Log     LogSettings     `toml:"log"`
}

// WatcherSettings configures the boundary watcher
type WatcherSettings struct {
	Threshold         int      `toml:"threshold"`
	Boundaries        []string `toml:"boundaries"`
	InspectAllRecords bool     `toml:"inspect_all_records"`
}

// FeedSettings configures the generated feed
type FeedSettings struct {
	InitialSize int `toml:"initial_size"`
	PageSize    int `toml:"page_size"`
	History     int `toml:"history"` // entries available beyond each edge of the initial window
	LatencyMS   int `toml:"latency_ms"`
}

// LogSettings configures logging
type LogSettings struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Latency returns the simulated page latency
func (f FeedSettings) Latency() time.Duration {
	return time.Duration(f.LatencyMS) * time.Millisecond
}

// BoundarySet converts the configured boundary names
func (w WatcherSettings) BoundarySet() (domain.BoundarySet, error) {
	return domain.ParseBoundarySet(w.Boundaries)
}

// ConfigService handles configuration management
type ConfigService interface {
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

type configService struct{}

// NewConfigService creates a new config service
func NewConfigService() ConfigService {
	return &configService{}
}

// LoadFromPath loads configuration from a specific path. Missing keys keep
// their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	defaults := cfg.Watcher.Boundaries
	cfg.Watcher.Boundaries = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Watcher.Boundaries == nil {
		cfg.Watcher.Boundaries = defaults
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks value ranges and boundary names. The threshold is not
// range checked.
func (c *Config) Validate() error {
	if _, err := c.Watcher.BoundarySet(); err != nil {
		return fmt.Errorf("%w: watcher.boundaries: %w", ErrInvalid, err)
	}
	if c.Feed.PageSize <= 0 {
		return fmt.Errorf("%w: feed.page_size must be positive, got %d", ErrInvalid, c.Feed.PageSize)
	}
	if c.Feed.InitialSize <= 0 {
		return fmt.Errorf("%w: feed.initial_size must be positive, got %d", ErrInvalid, c.Feed.InitialSize)
	}
	if c.Feed.History < 0 {
		return fmt.Errorf("%w: feed.history must not be negative, got %d", ErrInvalid, c.Feed.History)
	}
	if c.Feed.LatencyMS < 0 {
		return fmt.Errorf("%w: feed.latency_ms must not be negative, got %d", ErrInvalid, c.Feed.LatencyMS)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Watcher: WatcherSettings{
			Threshold:  2,
			Boundaries: domain.AllBoundaries.Strings(),
		},
		Feed: FeedSettings{
			InitialSize: 40,
			PageSize:    20,
			History:     200,
			LatencyMS:   300,
		},
		Log: LogSettings{
			File:  "infinitescroll.log",
			Level: "info",
		},
	}
}
