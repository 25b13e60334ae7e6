// Package pkg provides the core libraries for hallplan venue layout.
//
// # Overview
//
// Hallplan turns a typed description of a venue (stage, seat rows,
// balconies, tables, sofas, bars) into an absolute 2D floor plan. The
// pkg directory is organized into five main areas:
//
//  1. [venue] - Domain model (sections, categories, the section store)
//  2. [layout] - The pure layout engine (snapshot → draw commands)
//  3. [drag] - The interactive drag state machine
//  4. [render] - Output sinks (floor-plan SVG/JSON, ownership graphs)
//  5. [pipeline] - Orchestration (load → layout → render, with caching)
//
// Supporting packages: [geometry] (points, rects, snapping), [seatpack]
// (seat circle packing), [store] (document persistence), [cache]
// (artifact caching), [server] (the HTTP editing API), [errors],
// [observability], and [buildinfo].
//
// # Architecture
//
// The typical data flow through hallplan:
//
//	Document (TOML/JSON)
//	         ↓
//	    [venue] package (section store, categories, ownership)
//	         ↓
//	    [layout] package (bands, packing, draw commands)
//	         ↓
//	    [render/floor] package (SVG/JSON sinks)
//	         ↓
//	    SVG/JSON output
//
// Interactive surfaces (the terminal editor and the HTTP server) sit
// beside this flow: they mutate the section store through [drag] and
// re-enter the layout step after every committed edit.
//
// # Quick Start
//
// Build a small venue and render it:
//
//	import (
//	    "github.com/hallplan/hallplan/pkg/geometry"
//	    "github.com/hallplan/hallplan/pkg/layout"
//	    "github.com/hallplan/hallplan/pkg/render/floor"
//	    "github.com/hallplan/hallplan/pkg/venue"
//	)
//
//	// 1. Describe the venue
//	vs := venue.NewStore()
//	vs.AddSection(venue.TypeStage)
//	vs.AddSection(venue.TypeRows)
//
//	// 2. Realize the floor plan
//	cmds := layout.Layout(vs.Snapshot(), geometry.Rect{W: 1000, H: 800})
//
//	// 3. Render to SVG
//	svg := floor.RenderSVG(cmds, venue.Canvas{Width: 1000, Height: 800})
//
// # Design Notes
//
// The layout engine is pure: the same snapshot and viewport always
// produce the same command list, byte for byte. All interactivity lives
// in the stores and controllers around it, which is what makes the
// artifact cache and the drag preview safe.
package pkg
