package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds CLI settings loaded from the config file and overridden
// by flags.
type Config struct {
	// StoreDir is the directory holding document files. Empty means
	// the XDG data directory.
	StoreDir string `toml:"store_dir"`

	// CacheDir is the artifact cache directory. Empty means the XDG
	// cache directory.
	CacheDir string `toml:"cache_dir"`

	Canvas CanvasConfig `toml:"canvas"`
	Redis  RedisConfig  `toml:"redis"`
	Mongo  MongoConfig  `toml:"mongo"`
	Serve  ServeConfig  `toml:"serve"`
}

// CanvasConfig overrides the drawing surface for new documents.
type CanvasConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// RedisConfig enables the shared Redis artifact cache.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig enables the shared MongoDB document store.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServeConfig holds HTTP server settings.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// configPath returns the default config file location
// (~/.config/hallplan/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads the config file at path, or the default location
// when path is empty. A missing file yields a zero config, not an
// error; a malformed file is reported.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		var err error
		path, err = configPath()
		if err != nil {
			return &Config{}, nil
		}
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}
