// Package seatpack fits a requested seat count into an available linear or
// circular span without overlap.
//
// Two constraint families exist: linear spans (a seating row, one side of
// a table or sofa) and circular spans (round tables). Both derive a
// uniform seat radius from the spacing between seat centers, bounded by a
// global cap and floored for readability — but the no-overlap bound always
// wins: below the floor the radius keeps shrinking with the spacing so
// that adjacent seats touch at worst, and seats are never skipped.
package seatpack

import (
	"math"

	"github.com/hallplan/hallplan/pkg/geometry"
)

// Seat sizing bounds, in canvas units (radii).
const (
	// MaxRadius caps seat size on sparse spans.
	MaxRadius = 7.0

	// MinRadius is the preferred lower bound; packing tries spacing
	// adjustments before going below it.
	MinRadius = 3.0

	// FloorRadius is the visual floor. Spacing tighter than 2×FloorRadius
	// shrinks the radius further rather than overlapping seats.
	FloorRadius = 2.0

	// RingClearance is the gap between a round table's edge and the ring
	// its seats sit on.
	RingClearance = 10.0
)

// Seat is one packed seat: a center position and radius.
type Seat struct {
	Center geometry.Point
	Radius float64
}

// RadiusFor derives the seat radius for a given center-to-center spacing:
// half the spacing, capped at MaxRadius. The result can fall below
// FloorRadius on very tight spans; it never exceeds spacing/2, which is
// what guarantees the no-overlap invariant.
func RadiusFor(spacing float64) float64 {
	if spacing <= 0 {
		return FloorRadius
	}
	r := spacing / 2
	if r > MaxRadius {
		return MaxRadius
	}
	return r
}

// LinearSpacing returns the center-to-center spacing for n seats on a span
// of length l: l/(n+1), which leaves a half-step margin at both ends.
func LinearSpacing(n int, l float64) float64 {
	if n <= 0 {
		return l
	}
	return l / float64(n+1)
}

// Line packs n seats along the segment from a to b. Seat i sits at
// fraction (i+1)/(n+1) of the segment, so the packing is symmetric and
// keeps clear of both endpoints. A non-positive n yields no seats.
func Line(n int, a, b geometry.Point) []Seat {
	if n <= 0 {
		return nil
	}
	spacing := LinearSpacing(n, geometry.Dist(a, b))
	r := RadiusFor(spacing)

	seats := make([]Seat, n)
	for i := 0; i < n; i++ {
		t := float64(i+1) / float64(n+1)
		seats[i] = Seat{
			Center: geometry.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t},
			Radius: r,
		}
	}
	return seats
}

// SideCounts holds per-side seat counts for a table, clockwise from the
// top.
type SideCounts struct {
	Top, Right, Bottom, Left int
}

// Total returns the seat count across all four sides.
func (c SideCounts) Total() int { return c.Top + c.Right + c.Bottom + c.Left }

// quarter arcs per side, in radians. Screen coordinates: y grows downward,
// so increasing angles run clockwise. The top quarter is centered on -90°.
var sideArcs = [4][2]float64{
	{-3 * math.Pi / 4, -math.Pi / 4},   // top
	{-math.Pi / 4, math.Pi / 4},        // right
	{math.Pi / 4, 3 * math.Pi / 4},     // bottom
	{3 * math.Pi / 4, 5 * math.Pi / 4}, // left
}

// chordSpacing is the straight-line distance between adjacent seat centers
// when n seats divide a quarter arc of the ring. The chord, not the arc
// length, is what the overlap bound must hold against.
func chordSpacing(n int, ring float64) float64 {
	step := (math.Pi / 2) / float64(n+1)
	return 2 * ring * math.Sin(step/2)
}

// Round packs seats around a round table of radius tableRadius centered at
// center. Seats sit on a ring tableRadius+RingClearance out.
//
// Each side is first assigned the quarter arc facing it, with its seats
// evenly spaced inside the quarter. If that per-side placement would make
// any side's spacing tighter than one seat diameter, the side assignment
// is abandoned entirely and all seats are distributed evenly around the
// full circumference, starting at the top (-90°) and proceeding
// clockwise. The fallback is what guarantees seats at one table never
// overlap no matter how the operator split counts across sides.
func Round(counts SideCounts, center geometry.Point, tableRadius float64) []Seat {
	total := counts.Total()
	if total <= 0 {
		return nil
	}
	ring := tableRadius + RingClearance

	perSide := [4]int{counts.Top, counts.Right, counts.Bottom, counts.Left}

	// Uniform radius from the densest occupied side.
	minSpacing := math.Inf(1)
	for _, n := range perSide {
		if n > 0 {
			if s := chordSpacing(n, ring); s < minSpacing {
				minSpacing = s
			}
		}
	}
	r := RadiusFor(minSpacing)
	if r < MinRadius {
		r = MinRadius
	}

	for _, n := range perSide {
		if n > 0 && chordSpacing(n, ring) < 2*r {
			return fullCircle(total, center, ring)
		}
	}

	var seats []Seat
	for side, n := range perSide {
		start, end := sideArcs[side][0], sideArcs[side][1]
		for i := 0; i < n; i++ {
			theta := start + (end-start)*float64(i+1)/float64(n+1)
			seats = append(seats, Seat{
				Center: geometry.Point{
					X: center.X + ring*math.Cos(theta),
					Y: center.Y + ring*math.Sin(theta),
				},
				Radius: r,
			})
		}
	}
	return seats
}

// fullCircle distributes n seats evenly around the ring, from the top
// clockwise.
func fullCircle(n int, center geometry.Point, ring float64) []Seat {
	spacing := 2 * ring * math.Sin(math.Pi/float64(n))
	if n == 1 {
		spacing = 2 * ring
	}
	r := RadiusFor(spacing)

	seats := make([]Seat, n)
	for i := 0; i < n; i++ {
		theta := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
		seats[i] = Seat{
			Center: geometry.Point{
				X: center.X + ring*math.Cos(theta),
				Y: center.Y + ring*math.Sin(theta),
			},
			Radius: r,
		}
	}
	return seats
}
