package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hallplan/hallplan/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string   // output file path (or base path for multiple formats)
	formats     []string // output formats: "svg", "json"
	interactive bool     // embed hover and click behavior in the SVG
	background  string   // SVG background color
	noCache     bool     // bypass the artifact cache
	refresh     bool     // recompute even on a cache hit
}

// newRenderCmd creates the render command for generating floor plans.
func newRenderCmd(configFile *string) *cobra.Command {
	var formatsStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render <document>",
		Short: "Render a venue document to SVG or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			cfg, err := loadConfig(*configFile)
			if err != nil {
				return err
			}
			return runRender(cmd.Context(), cfg, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json (comma-separated)")
	cmd.Flags().BoolVar(&opts.interactive, "interactive", false, "embed hover and click behavior in the SVG")
	cmd.Flags().StringVar(&opts.background, "background", "", "SVG background color")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute, ignoring cached artifacts")

	return cmd
}

func runRender(ctx context.Context, cfg *Config, name string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	docs, err := newDocumentStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer docs.Close(ctx)

	c, err := newCache(cfg, opts.noCache)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(docs, c, nil, logger)
	defer runner.Close()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		Name:        name,
		Formats:     opts.formats,
		Interactive: opts.interactive,
		Background:  opts.background,
		Refresh:     opts.refresh,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", name))

	printStats(result.Stats.SectionCount, result.Stats.CommandCount, result.CacheInfo.RenderHit)

	for _, format := range opts.formats {
		path := outputPath(opts.output, name, format, len(opts.formats) > 1)
		if err := os.WriteFile(path, result.Artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printSuccess("Done")
	return nil
}

// outputPath resolves the output file name for a format. With multiple
// formats, the explicit output acts as a base path and each format gets
// its own extension.
func outputPath(output, name, format string, multi bool) string {
	if output == "" {
		return name + "." + format
	}
	if !multi {
		return output
	}
	base := strings.TrimSuffix(output, "."+format)
	base = strings.TrimSuffix(base, ".svg")
	base = strings.TrimSuffix(base, ".json")
	return base + "." + format
}
