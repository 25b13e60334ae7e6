// Package geometry provides the small pure helpers the layout engine is
// built on: grid snapping, interval clamping, rectangles in canvas
// coordinates, and pixel-budgeted label wrapping.
//
// All coordinates are in canvas user units (SVG pixels). The origin is the
// top-left corner; y grows downward.
package geometry

import (
	"math"
	"strings"
)

// DefaultGrid is the snap grid used for free-floating sections.
const DefaultGrid = 10.0

// Snap rounds v to the nearest multiple of grid. A grid of zero or less
// returns v unchanged.
func Snap(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Round(v/grid) * grid
}

// Clamp limits v to the inclusive range [lo, hi]. If lo > hi the lower
// bound wins, which keeps degenerate spans stable instead of oscillating.
func Clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Min(math.Max(v, lo), hi)
}

// Point is a position on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle identified by its top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// CenterX returns the horizontal center of the rectangle.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// Center returns the center point of the rectangle.
func (r Rect) Center() Point { return Point{X: r.CenterX(), Y: r.CenterY()} }

// Contains reports whether p lies inside the rectangle (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Inset returns the rectangle shrunk by d on every side. Insetting past the
// rectangle's size yields a zero-sized rectangle at its center.
func (r Rect) Inset(d float64) Rect {
	if 2*d >= r.W || 2*d >= r.H {
		return Rect{X: r.CenterX(), Y: r.CenterY()}
	}
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// ClampCenter moves center so that a w×h box around it stays inside bounds.
// Boxes larger than bounds are centered on the corresponding axis.
func ClampCenter(center Point, w, h float64, bounds Rect) Point {
	p := center
	if w >= bounds.W {
		p.X = bounds.CenterX()
	} else {
		p.X = Clamp(p.X, bounds.X+w/2, bounds.X+bounds.W-w/2)
	}
	if h >= bounds.H {
		p.Y = bounds.CenterY()
	} else {
		p.Y = Clamp(p.Y, bounds.Y+h/2, bounds.Y+bounds.H-h/2)
	}
	return p
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// approxCharWidth is the assumed glyph advance, as a fraction of the font
// size, used for wrapping without font metrics.
const approxCharWidth = 0.55

// WrapLabel breaks text into lines that fit within budget pixels at the
// given font size. Words longer than a full line are emitted on their own
// line rather than split mid-word; the renderer truncates visually instead.
// Empty input yields no lines.
func WrapLabel(text string, budget, fontSize float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	maxChars := int(budget / (fontSize * approxCharWidth))
	if maxChars < 1 {
		maxChars = 1
	}

	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		if len(current)+1+len(w) <= maxChars {
			current += " " + w
			continue
		}
		lines = append(lines, current)
		current = w
	}
	return append(lines, current)
}
