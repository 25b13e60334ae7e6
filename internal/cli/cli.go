package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/hallplan/hallplan/pkg/cache"
	"github.com/hallplan/hallplan/pkg/pipeline"
	"github.com/hallplan/hallplan/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "hallplan"

// cacheDir returns the cache directory using XDG standard (~/.cache/hallplan/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// dataDir returns the default document directory (~/.local/share/hallplan/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// newCache builds the cache backend from config. Redis wins when an
// address is configured; otherwise a file cache, and a null cache when
// disabled or when no directory can be found.
func newCache(cfg *Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.Redis.Addr != "" {
		return cache.NewRedisCache(context.Background(), cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	dir := cfg.CacheDir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// newDocumentStore builds the document store from config. Mongo wins
// when a URI is configured.
func newDocumentStore(ctx context.Context, cfg *Config) (store.DocumentStore, error) {
	if cfg.Mongo.URI != "" {
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
	}
	dir := cfg.StoreDir
	if dir == "" {
		var err error
		dir, err = dataDir()
		if err != nil {
			return nil, err
		}
	}
	return store.NewFileStore(dir)
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
