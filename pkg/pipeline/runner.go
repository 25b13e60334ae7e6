package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hallplan/hallplan/pkg/cache"
	"github.com/hallplan/hallplan/pkg/geometry"
	"github.com/hallplan/hallplan/pkg/layout"
	"github.com/hallplan/hallplan/pkg/observability"
	"github.com/hallplan/hallplan/pkg/render/floor"
	"github.com/hallplan/hallplan/pkg/store"
	"github.com/hallplan/hallplan/pkg/venue"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Store  store.DocumentStore
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given collaborators.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(ds store.DocumentStore, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Store:  ds,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Name)
	doc, snap, err := r.Load(ctx, opts.Name)
	result.Stats.LoadTime = time.Since(loadStart)
	observability.Pipeline().OnLoadComplete(ctx, opts.Name, len(snap.Sections), result.Stats.LoadTime, err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Document = doc
	result.Snapshot = snap
	result.Stats.SectionCount = len(snap.Sections)

	opts.Logger.Info("loaded document",
		"name", opts.Name,
		"sections", len(snap.Sections),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, len(snap.Sections))
	cmds, layoutHit, err := r.LayoutWithCacheInfo(ctx, snap, doc.Canvas, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)
	observability.Pipeline().OnLayoutComplete(ctx, len(cmds), result.Stats.LayoutTime, err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Commands = cmds
	result.Stats.CommandCount = len(cmds)
	result.CacheInfo.LayoutHit = layoutHit

	opts.Logger.Info("computed layout",
		"commands", len(cmds),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, snap, cmds, doc.Canvas, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the named document and its realized snapshot. The document
// passes through a [venue.Store] so stored files get the same validation
// and defaulting as interactive edits.
func (r *Runner) Load(ctx context.Context, name string) (*venue.Document, venue.Snapshot, error) {
	doc, err := r.Store.Load(ctx, name)
	if err != nil {
		return nil, venue.Snapshot{}, err
	}
	vs := venue.NewStore()
	if err := vs.Load(doc); err != nil {
		return nil, venue.Snapshot{}, err
	}
	return doc, vs.Snapshot(), nil
}

// LayoutWithCacheInfo realizes the snapshot with caching and reports
// whether the result came from cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, snap venue.Snapshot, canvas venue.Canvas, opts Options) ([]layout.Command, bool, error) {
	viewport := geometry.Rect{W: canvas.Width, H: canvas.Height}
	key := r.Keyer.LayoutKey(snap.Hash(), cache.LayoutKeyOpts{
		Width:  canvas.Width,
		Height: canvas.Height,
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cmds []layout.Command
			if err := json.Unmarshal(data, &cmds); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cmds, true, nil
			}
			// Corrupt entry, fall through to recompute.
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	cmds := layout.Layout(snap, viewport)

	if data, err := json.Marshal(cmds); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return cmds, false, nil
}

// RenderWithCacheInfo serializes commands into the requested formats
// with per-format caching. The render is a cache hit only when every
// requested format is cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, snap venue.Snapshot, cmds []layout.Command, canvas venue.Canvas, opts Options) (map[string][]byte, bool, error) {
	hash := snap.Hash()
	artifacts := make(map[string][]byte)
	allCached := !opts.Refresh

	if allCached {
		for _, format := range opts.Formats {
			key := r.artifactKey(hash, canvas, format, opts)
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				allCached = false
				break
			}
			artifacts[format] = data
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := r.renderFormat(cmds, canvas, format, opts)
		if err != nil {
			return nil, false, err
		}
		rendered[format] = data
	}

	for format, data := range rendered {
		key := r.artifactKey(hash, canvas, format, opts)
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

func (r *Runner) renderFormat(cmds []layout.Command, canvas venue.Canvas, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		var svgOpts []floor.SVGOption
		if opts.Interactive {
			svgOpts = append(svgOpts, floor.WithInteraction())
		}
		if opts.Background != "" {
			svgOpts = append(svgOpts, floor.WithBackground(opts.Background))
		}
		return floor.RenderSVG(cmds, canvas, svgOpts...), nil
	case FormatJSON:
		return floor.RenderJSON(cmds, canvas)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func (r *Runner) artifactKey(hash string, canvas venue.Canvas, format string, opts Options) string {
	// Interaction and background change the SVG bytes, so they join the
	// format component of the key.
	keyed := format
	if opts.Interactive {
		keyed += "+interactive"
	}
	if opts.Background != "" {
		keyed += "+bg=" + opts.Background
	}
	return r.Keyer.ArtifactKey(hash, cache.ArtifactKeyOpts{
		Format: keyed,
		Width:  canvas.Width,
		Height: canvas.Height,
	})
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
