package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// newCacheCmd creates the cache management command.
func newCacheCmd(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the artifact cache",
	}

	cmd.AddCommand(newCacheClearCmd(configFile))
	cmd.AddCommand(newCachePathCmd(configFile))

	return cmd
}

func resolveCacheDir(configFile *string) (string, error) {
	cfg, err := loadConfig(*configFile)
	if err != nil {
		return "", err
	}
	if cfg.CacheDir != "" {
		return cfg.CacheDir, nil
	}
	return cacheDir()
}

// newCacheClearCmd creates the "cache clear" subcommand.
func newCacheClearCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached layouts and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveCacheDir(configFile)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			count := 0
			err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return nil // Skip errors, continue walking
				}
				if path == dir {
					return nil
				}
				if !info.IsDir() {
					if err := os.Remove(path); err == nil {
						count++
					}
				}
				return nil
			})
			if err != nil {
				return err
			}

			// Clean up empty subdirectories
			_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil || path == dir {
					return nil
				}
				if info.IsDir() {
					os.Remove(path)
				}
				return nil
			})

			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// newCachePathCmd creates the "cache path" subcommand.
func newCachePathCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveCacheDir(configFile)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
