// Package layout converts a venue snapshot into a flat list of drawable
// primitives.
//
// Layout is a pure function of (section list, category palette, viewport):
// every derived value — seat radii, row pitch, balcony band boundaries —
// is recomputed from scratch on each invocation, so re-running it after
// any single-field patch is always safe and two calls with identical
// inputs produce identical draw commands.
//
// Section types are processed in a fixed priority order that determines
// both visual stacking and available-space computation: stage, seating
// rows, dance floors, balconies, bar, free tables, free sofas, and the
// hit-test overlays last so they sit topmost in the draw order.
package layout

import (
	"github.com/hallplan/hallplan/pkg/geometry"
	"github.com/hallplan/hallplan/pkg/venue"
)

// Engine spacing constants, in canvas units.
const (
	// StageMargin is the gap between the stage bottom and the seating
	// band reserved below it.
	StageMargin = 20.0

	// LabelGutter is the fixed band on the left of the rows block
	// reserved for row number labels.
	LabelGutter = 30.0

	// BalconyGap separates stacked balconies sharing a side.
	BalconyGap = 10.0

	// Pending balcony placeholder size.
	PendingBalconyWidth  = 160.0
	PendingBalconyHeight = 100.0

	baseFontSize = 13.0
)

// Layout computes draw commands for a snapshot inside the viewport
// rectangle. It never mutates the snapshot and never fails: malformed or
// missing numeric fields fall back to their documented defaults.
func Layout(snap venue.Snapshot, viewport geometry.Rect) []Command {
	e := &engine{
		snap:    snap,
		vp:      viewport,
		fills:   make(map[string]string),
		bounds:  make(map[string]geometry.Rect),
		touched: nil,
	}
	for _, c := range snap.Categories {
		e.fills[c.Value] = c.Color
	}

	e.bands = computeBands(snap, viewport)

	e.layoutStage()
	e.layoutRows()
	e.layoutDanceFloors()
	e.layoutBalconies()
	e.layoutBars()
	e.layoutFreeTables()
	e.layoutFreeSofas()
	e.layoutOverlays()

	return e.cmds
}

// engine carries per-invocation state. It lives for a single Layout call.
type engine struct {
	snap  venue.Snapshot
	vp    geometry.Rect
	cmds  []Command
	bands bands

	// fills maps category value → color.
	fills map[string]string

	// bounds accumulates per-section bounding boxes of seat-bearing
	// primitives for the overlay pass; touched preserves emission order.
	bounds  map[string]geometry.Rect
	touched []string
}

// emit appends a command and, when it belongs to a seat-bearing section,
// grows that section's overlay bounds.
func (e *engine) emit(c Command, trackOverlay bool) {
	e.cmds = append(e.cmds, c)
	if !trackOverlay || c.SectionID == "" {
		return
	}
	b := c.Bounds()
	cur, ok := e.bounds[c.SectionID]
	if !ok {
		e.bounds[c.SectionID] = b
		e.touched = append(e.touched, c.SectionID)
		return
	}
	right := max(cur.X+cur.W, b.X+b.W)
	bottom := max(cur.Y+cur.H, b.Y+b.H)
	cur.X = min(cur.X, b.X)
	cur.Y = min(cur.Y, b.Y)
	cur.W = right - cur.X
	cur.H = bottom - cur.Y
	e.bounds[c.SectionID] = cur
}

// fillFor resolves a section's fill color: its own color, then its
// category's palette color, then the neutral default.
func (e *engine) fillFor(sec *venue.Section) string {
	if sec.Color != "" {
		return sec.Color
	}
	if c, ok := e.fills[sec.Category]; ok && c != "" {
		return c
	}
	return "#cccccc"
}

// sectionsOf returns pointers into the snapshot for all sections of a
// type, preserving list order.
func (e *engine) sectionsOf(t venue.Type) []*venue.Section {
	var out []*venue.Section
	for i := range e.snap.Sections {
		if e.snap.Sections[i].Type == t {
			out = append(out, &e.snap.Sections[i])
		}
	}
	return out
}

// childrenOf returns the table/sofa sections owned by a balcony, in list
// order.
func (e *engine) childrenOf(balconyID string) []*venue.Section {
	var out []*venue.Section
	for i := range e.snap.Sections {
		if e.snap.Sections[i].BalconyID == balconyID {
			out = append(out, &e.snap.Sections[i])
		}
	}
	return out
}

// label emits a wrapped text label centered in box.
func (e *engine) label(sec *venue.Section, text string, box geometry.Rect, size float64) {
	lines := geometry.WrapLabel(text, box.W, size)
	if len(lines) == 0 {
		return
	}
	e.emit(Command{
		Kind:      KindLabel,
		Rect:      box,
		Lines:     lines,
		FontSize:  size,
		SectionID: sec.ID,
		Category:  sec.Category,
	}, false)
}

// layoutOverlays synthesizes one invisible bounding rectangle per
// seat-bearing section, emitted last so overlays are topmost and intercept
// pointer events before any individual seat primitive.
func (e *engine) layoutOverlays() {
	const pad = 4.0
	for _, id := range e.touched {
		b := e.bounds[id]
		e.cmds = append(e.cmds, Command{
			Kind:      KindRect,
			Rect:      geometry.Rect{X: b.X - pad, Y: b.Y - pad, W: b.W + 2*pad, H: b.H + 2*pad},
			SectionID: id,
			Overlay:   true,
		})
	}
}
