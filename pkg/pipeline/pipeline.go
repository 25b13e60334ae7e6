// Package pipeline runs the load → layout → render pipeline for venue
// documents.
//
// This package centralizes the path from a stored document to rendered
// artifacts so the CLI, the editor, and the HTTP server share one
// implementation of caching, instrumentation, and format handling.
//
// # Stages
//
//  1. Load: read the named document from a [store.DocumentStore] and
//     build an in-memory [venue.Store].
//  2. Layout: realize the snapshot into draw commands for the document
//     canvas.
//  3. Render: serialize the commands into the requested formats.
//
// Layout results and rendered artifacts are cached by snapshot content
// hash, so an unchanged document renders from cache and any edit
// naturally invalidates the entry.
package pipeline

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hallplan/hallplan/pkg/layout"
	"github.com/hallplan/hallplan/pkg/venue"
)

// Supported render formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// Options controls a pipeline run.
type Options struct {
	// Name is the document to load.
	Name string

	// Formats lists the artifact formats to render. Defaults to svg.
	Formats []string

	// Interactive embeds hover and click behavior in SVG output.
	Interactive bool

	// Background overrides the SVG background color.
	Background string

	// Refresh bypasses the cache for this run.
	Refresh bool

	// Logger receives progress events. Defaults to the runner's logger.
	Logger *log.Logger
}

// ValidateAndSetDefaults checks options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Name == "" {
		return fmt.Errorf("document name is required")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	for _, f := range o.Formats {
		if f != FormatSVG && f != FormatJSON {
			return fmt.Errorf("unsupported format: %s", f)
		}
	}
	return nil
}

// Stats records per-stage timings for a pipeline run.
type Stats struct {
	LoadTime     time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
	SectionCount int
	CommandCount int
}

// CacheInfo records which stages were served from cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}

// Result is the output of a pipeline run.
type Result struct {
	Document  *venue.Document
	Snapshot  venue.Snapshot
	Commands  []layout.Command
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}
