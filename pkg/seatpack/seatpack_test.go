package seatpack

import (
	"math"
	"testing"

	"github.com/hallplan/hallplan/pkg/geometry"
)

func TestRadiusFor(t *testing.T) {
	tests := []struct {
		spacing float64
		want    float64
	}{
		{spacing: 20, want: MaxRadius},
		{spacing: 14, want: MaxRadius},
		{spacing: 10, want: 5},
		{spacing: 3, want: 1.5},
		{spacing: 0, want: FloorRadius},
		{spacing: -1, want: FloorRadius},
	}
	for _, tt := range tests {
		if got := RadiusFor(tt.spacing); got != tt.want {
			t.Errorf("RadiusFor(%v) = %v, want %v", tt.spacing, got, tt.want)
		}
	}
}

func TestLinearSpacing(t *testing.T) {
	if got := LinearSpacing(4, 100); got != 20 {
		t.Errorf("LinearSpacing(4, 100) = %v, want 20", got)
	}
	if got := LinearSpacing(0, 100); got != 100 {
		t.Errorf("LinearSpacing(0, 100) = %v, want 100", got)
	}
}

func TestLine(t *testing.T) {
	a := geometry.Point{X: 0, Y: 50}
	b := geometry.Point{X: 100, Y: 50}

	seats := Line(3, a, b)
	if len(seats) != 3 {
		t.Fatalf("len(seats) = %d, want 3", len(seats))
	}
	wantX := []float64{25, 50, 75}
	for i, s := range seats {
		if math.Abs(s.Center.X-wantX[i]) > 1e-9 || s.Center.Y != 50 {
			t.Errorf("seat %d at (%v, %v), want (%v, 50)", i, s.Center.X, s.Center.Y, wantX[i])
		}
		// spacing 25, capped at MaxRadius
		if s.Radius != MaxRadius {
			t.Errorf("seat %d radius = %v, want %v", i, s.Radius, MaxRadius)
		}
	}

	if seats := Line(0, a, b); seats != nil {
		t.Errorf("Line(0) = %v, want nil", seats)
	}
}

func TestLineVertical(t *testing.T) {
	seats := Line(2, geometry.Point{X: 10, Y: 0}, geometry.Point{X: 10, Y: 30})
	if len(seats) != 2 {
		t.Fatalf("len(seats) = %d, want 2", len(seats))
	}
	if seats[0].Center.X != 10 || math.Abs(seats[0].Center.Y-10) > 1e-9 {
		t.Errorf("first seat at (%v, %v), want (10, 10)", seats[0].Center.X, seats[0].Center.Y)
	}
	if math.Abs(seats[1].Center.Y-20) > 1e-9 {
		t.Errorf("second seat Y = %v, want 20", seats[1].Center.Y)
	}
}

func TestLineNeverOverlaps(t *testing.T) {
	a := geometry.Point{X: 0, Y: 0}
	b := geometry.Point{X: 80, Y: 0}
	for n := 1; n <= 200; n++ {
		seats := Line(n, a, b)
		assertNoOverlap(t, seats)
	}
}

func TestRoundBalancedSides(t *testing.T) {
	center := geometry.Point{X: 200, Y: 200}
	seats := Round(SideCounts{Top: 2, Right: 2, Bottom: 2, Left: 2}, center, 30)
	if len(seats) != 8 {
		t.Fatalf("len(seats) = %d, want 8", len(seats))
	}

	ring := 30 + RingClearance
	for i, s := range seats {
		d := geometry.Dist(center, s.Center)
		if math.Abs(d-ring) > 1e-9 {
			t.Errorf("seat %d distance from center = %v, want %v", i, d, ring)
		}
	}

	// the first two seats belong to the top quarter and sit above center
	for i := 0; i < 2; i++ {
		if seats[i].Center.Y >= center.Y {
			t.Errorf("top seat %d at Y=%v, want above %v", i, seats[i].Center.Y, center.Y)
		}
	}
	assertNoOverlap(t, seats)
}

func TestRoundLopsidedFallsBackToFullCircle(t *testing.T) {
	center := geometry.Point{X: 0, Y: 0}
	seats := Round(SideCounts{Top: 20}, center, 30)
	if len(seats) != 20 {
		t.Fatalf("len(seats) = %d, want 20", len(seats))
	}

	// 20 seats in one quarter would overlap, so they must be spread evenly
	// around the whole ring. The first seat starts at the top.
	ring := 30 + RingClearance
	if math.Abs(seats[0].Center.X) > 1e-9 || math.Abs(seats[0].Center.Y+ring) > 1e-9 {
		t.Errorf("first seat at (%v, %v), want (0, %v)", seats[0].Center.X, seats[0].Center.Y, -ring)
	}

	wantStep := 2 * ring * math.Sin(math.Pi/20)
	for i := 1; i < len(seats); i++ {
		step := geometry.Dist(seats[i-1].Center, seats[i].Center)
		if math.Abs(step-wantStep) > 1e-9 {
			t.Errorf("step %d = %v, want %v", i, step, wantStep)
		}
	}
	assertNoOverlap(t, seats)
}

func TestRoundZeroSeats(t *testing.T) {
	if seats := Round(SideCounts{}, geometry.Point{}, 30); seats != nil {
		t.Errorf("Round with no seats = %v, want nil", seats)
	}
}

func TestRoundNeverOverlaps(t *testing.T) {
	center := geometry.Point{X: 100, Y: 100}
	counts := []SideCounts{
		{Top: 1},
		{Top: 4, Bottom: 4},
		{Top: 1, Right: 1, Bottom: 1, Left: 1},
		{Top: 10, Right: 2},
		{Top: 50, Right: 50, Bottom: 50, Left: 50},
		{Left: 73},
		{Top: 3, Right: 7, Bottom: 1, Left: 12},
	}
	for _, c := range counts {
		seats := Round(c, center, 25)
		if len(seats) != c.Total() {
			t.Errorf("Round(%+v) packed %d seats, want %d", c, len(seats), c.Total())
		}
		assertNoOverlap(t, seats)
	}
}

func assertNoOverlap(t *testing.T, seats []Seat) {
	t.Helper()
	const eps = 1e-9
	for i := 0; i < len(seats); i++ {
		for j := i + 1; j < len(seats); j++ {
			d := geometry.Dist(seats[i].Center, seats[j].Center)
			if d < seats[i].Radius+seats[j].Radius-eps {
				t.Fatalf("seats %d and %d overlap: dist %v < %v",
					i, j, d, seats[i].Radius+seats[j].Radius)
			}
		}
	}
}
