package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hallplan/hallplan/pkg/buildinfo"
)

// Execute runs the hallplan CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands (init, render,
// edit, serve, inspect, cache), configures logging based on the --verbose
// flag, and executes the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the CLI under the given context, so callers can
// wire in signal handling.
func ExecuteContext(ctx context.Context) error {
	var (
		verbose    bool
		configFile string
	)

	root := &cobra.Command{
		Use:          "hallplan",
		Short:        "Hallplan lays out venue seating charts",
		Long:         `Hallplan is a tool for authoring venue seating charts: describe stages, seat rows, balconies, tables, and bars as typed sections, and hallplan computes the floor plan and renders it as SVG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ~/.config/hallplan/config.toml)")

	root.AddCommand(newInitCmd(&configFile))
	root.AddCommand(newRenderCmd(&configFile))
	root.AddCommand(newEditCmd(&configFile))
	root.AddCommand(newServeCmd(&configFile))
	root.AddCommand(newInspectCmd(&configFile))
	root.AddCommand(newCacheCmd(&configFile))

	return root.ExecuteContext(ctx)
}
