package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no --config flag is given.
const DefaultFile = ".browserkit.yaml"

// Config holds the optional settings read from a YAML file.
type Config struct {
	// IgnoreHeaders are dropped from debug strings on top of date and cache-control.
	IgnoreHeaders []string `yaml:"ignore_headers"`
	Workers       int      `yaml:"workers"`
	CacheSize     int      `yaml:"cache_size"`
	SnapshotDir   string   `yaml:"snapshot_dir"`
}

func Default() *Config {
	return &Config{
		Workers:     4,
		SnapshotDir: "__snapshots__",
	}
}

// Load reads path over the defaults. A missing file is not an error when
// optional is set, so the default config file may be absent.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize)
	}
	if c.SnapshotDir == "" {
		return errors.New("snapshot_dir must not be empty")
	}
	return nil
}
