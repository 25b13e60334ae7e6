package layout

import (
	"math"
	"reflect"
	"testing"

	"github.com/hallplan/hallplan/pkg/geometry"
	"github.com/hallplan/hallplan/pkg/venue"
)

var testViewport = geometry.Rect{X: 0, Y: 0, W: 1000, H: 800}

func seatCircles(cmds []Command) []Command {
	var out []Command
	for _, c := range cmds {
		if c.Kind == KindCircle && c.Seat > 0 {
			out = append(out, c)
		}
	}
	return out
}

func commandsFor(cmds []Command, sectionID string) []Command {
	var out []Command
	for _, c := range cmds {
		if c.SectionID == sectionID {
			out = append(out, c)
		}
	}
	return out
}

func TestLayoutEmptySnapshot(t *testing.T) {
	cmds := Layout(venue.Snapshot{}, testViewport)
	if len(cmds) != 0 {
		t.Errorf("len(cmds) = %d, want 0", len(cmds))
	}
}

func TestLayoutStageAndRows(t *testing.T) {
	snap := venue.Snapshot{
		Sections: []venue.Section{
			{ID: "st", Type: venue.TypeStage, Label: "STAGE 1", Width: 300, Height: 80},
			{ID: "r", Type: venue.TypeRows, Label: "ROWS 1", Category: "rows_1", Rows: []venue.Row{
				{Number: 1, Seats: 10},
				{Number: 2, Seats: 10},
			}},
		},
		Categories: []venue.Category{{Value: "rows_1", Label: "ROWS 1", Color: "#4e79a7"}},
	}
	cmds := Layout(snap, testViewport)

	// stage: centered rect at the top
	stage := commandsFor(cmds, "st")
	if len(stage) != 2 {
		t.Fatalf("stage commands = %d, want rect+label", len(stage))
	}
	if stage[0].Kind != KindRect || stage[0].Rect.X != 350 || stage[0].Rect.Y != 0 {
		t.Errorf("stage rect = %+v, want x=350 y=0", stage[0].Rect)
	}
	if stage[0].Fill != "#333333" {
		t.Errorf("stage fill = %q", stage[0].Fill)
	}
	if stage[1].Kind != KindLabel || stage[1].Lines[0] != "STAGE 1" {
		t.Errorf("stage label = %+v", stage[1])
	}

	seats := seatCircles(cmds)
	if len(seats) != 20 {
		t.Fatalf("seat circles = %d, want 20", len(seats))
	}
	for _, s := range seats {
		if s.Radius != 7 {
			t.Errorf("seat radius = %v, want uniform 7", s.Radius)
		}
		if s.Fill != "#4e79a7" {
			t.Errorf("seat fill = %q, want category color", s.Fill)
		}
		// every seat sits below the stage band
		if s.Center.Y < 100 {
			t.Errorf("seat at Y=%v inside the stage band", s.Center.Y)
		}
	}
	if seats[0].Row != 1 || seats[0].Seat != 1 {
		t.Errorf("first seat attribution = row %d seat %d", seats[0].Row, seats[0].Seat)
	}
	if last := seats[len(seats)-1]; last.Row != 2 || last.Seat != 10 {
		t.Errorf("last seat attribution = row %d seat %d", last.Row, last.Seat)
	}

	// row number labels in the gutter: "1" and "2"
	var rowLabels []string
	for _, c := range commandsFor(cmds, "r") {
		if c.Kind == KindLabel {
			rowLabels = append(rowLabels, c.Lines[0])
		}
	}
	if !reflect.DeepEqual(rowLabels, []string{"1", "2"}) {
		t.Errorf("row labels = %v, want [1 2]", rowLabels)
	}
}

func TestLayoutIsIdempotent(t *testing.T) {
	snap := venue.Snapshot{
		Sections: []venue.Section{
			{ID: "st", Type: venue.TypeStage, Label: "STAGE 1", Width: 300, Height: 80},
			{ID: "r", Type: venue.TypeRows, Label: "ROWS 1", Rows: []venue.Row{{Number: 1, Seats: 8}}},
			{ID: "t", Type: venue.TypeTable, Label: "TABLE 1", Shape: venue.TableRound,
				Size: 60, SeatsTop: 2, SeatsRight: 2, SeatsBottom: 2, SeatsLeft: 2},
			{ID: "b", Type: venue.TypeBalcony, Label: "BALCONY L 1", BalconyPos: venue.BalconyLeft,
				BalconyKind: venue.BalconySeats, WidthPercent: 15, HeightPercent: 20},
		},
	}

	a := Layout(snap, testViewport)
	b := Layout(snap, testViewport)
	if !reflect.DeepEqual(a, b) {
		t.Error("two layouts of the same snapshot differ")
	}
}

func TestRowSeatsNeverOverlap(t *testing.T) {
	// 30 rows of 60 seats on a cramped viewport force every compression
	// floor in the sizing pass.
	rows := make([]venue.Row, 30)
	for i := range rows {
		rows[i] = venue.Row{Number: i + 1, Seats: 60}
	}
	snap := venue.Snapshot{
		Sections: []venue.Section{
			{ID: "st", Type: venue.TypeStage, Label: "STAGE 1", Width: 100, Height: 40},
			{ID: "r", Type: venue.TypeRows, Label: "ROWS 1", Rows: rows},
		},
	}
	cmds := Layout(snap, geometry.Rect{X: 0, Y: 0, W: 300, H: 200})

	seats := seatCircles(cmds)
	if len(seats) == 0 {
		t.Fatal("no seats rendered")
	}
	const eps = 1e-9
	for i := 0; i < len(seats); i++ {
		for j := i + 1; j < len(seats); j++ {
			d := geometry.Dist(seats[i].Center, seats[j].Center)
			if d < seats[i].Radius+seats[j].Radius-eps {
				t.Fatalf("seats %d and %d overlap: dist %v, radii %v+%v",
					i, j, d, seats[i].Radius, seats[j].Radius)
			}
		}
	}
}

func TestPendingBalconyPlaceholder(t *testing.T) {
	snap := venue.Snapshot{
		Sections: []venue.Section{
			{ID: "b", Type: venue.TypeBalcony, Label: "BALCONY 1", BalconyKind: venue.BalconySeats},
		},
	}
	cmds := Layout(snap, testViewport)

	var placeholder *Command
	for i := range cmds {
		if cmds[i].Kind == KindRect && cmds[i].SectionID == "b" && !cmds[i].Overlay {
			placeholder = &cmds[i]
			break
		}
	}
	if placeholder == nil {
		t.Fatal("no placeholder rect for pending balcony")
	}
	if !placeholder.Dashed {
		t.Error("pending balcony not dashed")
	}
	if placeholder.Rect.W != PendingBalconyWidth || placeholder.Rect.H != PendingBalconyHeight {
		t.Errorf("placeholder size = %vx%v, want %vx%v",
			placeholder.Rect.W, placeholder.Rect.H, PendingBalconyWidth, PendingBalconyHeight)
	}
	if placeholder.Rect.CenterX() != testViewport.CenterX() || placeholder.Rect.CenterY() != testViewport.CenterY() {
		t.Errorf("placeholder center = (%v, %v), want viewport center",
			placeholder.Rect.CenterX(), placeholder.Rect.CenterY())
	}
}

func TestCommittedBalconyBands(t *testing.T) {
	snap := venue.Snapshot{
		Sections: []venue.Section{
			{ID: "bl", Type: venue.TypeBalcony, Label: "BALCONY L 1", BalconyPos: venue.BalconyLeft,
				BalconyKind: venue.BalconySeats, WidthPercent: 15, HeightPercent: 20},
			{ID: "bm", Type: venue.TypeBalcony, Label: "BALCONY M 1", BalconyPos: venue.BalconyMiddle,
				BalconyKind: venue.BalconySeats, WidthPercent: 15, HeightPercent: 20},
			{ID: "r", Type: venue.TypeRows, Label: "ROWS 1", Rows: []venue.Row{{Number: 1, Seats: 10}}},
		},
	}
	cmds := Layout(snap, testViewport)

	var left, middle geometry.Rect
	for _, c := range cmds {
		if c.Kind != KindRect || c.Overlay {
			continue
		}
		switch c.SectionID {
		case "bl":
			left = c.Rect
		case "bm":
			middle = c.Rect
		}
	}

	// left band hugs the left edge at 15% of the canvas width
	if left.X != 0 || left.W != 150 {
		t.Errorf("left band = %+v, want x=0 w=150", left)
	}
	// bottom band is 20% of the canvas height, flush with the bottom
	if middle.H != 160 || middle.Y != 640 {
		t.Errorf("middle band = %+v, want y=640 h=160", middle)
	}
	// the left band stops above the bottom band
	if left.Y+left.H > middle.Y {
		t.Errorf("left band bottom %v extends into bottom band at %v", left.Y+left.H, middle.Y)
	}

	// rows seats clear both bands
	for _, s := range seatCircles(commandsFor(cmds, "r")) {
		if s.Center.X-s.Radius < 150 {
			t.Errorf("row seat at X=%v inside the left band", s.Center.X)
		}
		if s.Center.Y+s.Radius > 640 {
			t.Errorf("row seat at Y=%v inside the bottom band", s.Center.Y)
		}
	}
}

func TestOverlaysAreTopmost(t *testing.T) {
	snap := venue.Snapshot{
		Sections: []venue.Section{
			{ID: "r", Type: venue.TypeRows, Label: "ROWS 1", Rows: []venue.Row{{Number: 1, Seats: 6}}},
			{ID: "t", Type: venue.TypeTable, Label: "TABLE 1", Shape: venue.TableRound,
				Size: 60, SeatsTop: 2, SeatsBottom: 2},
		},
	}
	cmds := Layout(snap, testViewport)

	overlays := 0
	for i, c := range cmds {
		if !c.Overlay {
			if overlays > 0 {
				t.Fatalf("non-overlay command at %d after first overlay", i)
			}
			continue
		}
		overlays++
		if c.Kind != KindRect {
			t.Errorf("overlay kind = %q, want rect", c.Kind)
		}
	}
	if overlays != 2 {
		t.Errorf("overlays = %d, want one per seat-bearing section", overlays)
	}

	// each overlay covers every seat of its section
	for _, o := range cmds {
		if !o.Overlay {
			continue
		}
		for _, s := range seatCircles(commandsFor(cmds, o.SectionID)) {
			b := s.Bounds()
			if !o.Rect.Contains(geometry.Point{X: b.X, Y: b.Y}) ||
				!o.Rect.Contains(geometry.Point{X: b.X + b.W, Y: b.Y + b.H}) {
				t.Errorf("overlay %+v does not cover seat at %+v", o.Rect, s.Center)
			}
		}
	}
}

func TestDraggedDanceFloorIsClamped(t *testing.T) {
	snap := venue.Snapshot{
		Sections: []venue.Section{
			{ID: "d", Type: venue.TypeDanceFloor, Label: "DANCEFLOOR 1",
				WidthPercent: 40, HeightPercent: 30,
				Position: &geometry.Point{X: 9999, Y: -500}},
		},
	}
	cmds := Layout(snap, testViewport)

	box := commandsFor(cmds, "d")[0].Rect
	if box.X < 0 || box.X+box.W > testViewport.W {
		t.Errorf("dance floor x-range [%v, %v] outside the viewport", box.X, box.X+box.W)
	}
	if box.Y < 0 || box.Y+box.H > testViewport.H {
		t.Errorf("dance floor y-range [%v, %v] outside the viewport", box.Y, box.Y+box.H)
	}
}

func TestDraggedRowsShiftAsBlock(t *testing.T) {
	base := venue.Snapshot{
		Sections: []venue.Section{
			{ID: "r", Type: venue.TypeRows, Label: "ROWS 1", Rows: []venue.Row{{Number: 1, Seats: 4}}},
		},
	}
	before := seatCircles(Layout(base, testViewport))

	center := geometry.Point{
		X: (before[0].Center.X+before[3].Center.X)/2 + 40,
		Y: before[0].Center.Y + 25,
	}
	dragged := base
	dragged.Sections = []venue.Section{*base.Sections[0].Clone()}
	dragged.Sections[0].Position = &center
	after := seatCircles(Layout(dragged, testViewport))

	if len(after) != len(before) {
		t.Fatalf("seat count changed: %d -> %d", len(before), len(after))
	}
	for i := range after {
		dx := after[i].Center.X - before[i].Center.X
		dy := after[i].Center.Y - before[i].Center.Y
		if math.Abs(dx-40) > 1e-9 || math.Abs(dy-25) > 1e-9 {
			t.Errorf("seat %d moved by (%v, %v), want (40, 25)", i, dx, dy)
		}
		if after[i].Radius != before[i].Radius {
			t.Errorf("seat %d radius changed by drag", i)
		}
	}
}

func TestSquareTableSeatsLineSides(t *testing.T) {
	snap := venue.Snapshot{
		Sections: []venue.Section{
			{ID: "t", Type: venue.TypeTable, Label: "TABLE 1", Shape: venue.TableSquare,
				Size: 60, SeatsTop: 3, SeatsBottom: 3,
				Position: &geometry.Point{X: 500, Y: 400}},
		},
	}
	cmds := Layout(snap, testViewport)

	var box geometry.Rect
	for _, c := range cmds {
		if c.Kind == KindRect && !c.Overlay && c.SectionID == "t" {
			box = c.Rect
		}
	}
	if box.W != 60 || box.H != 60 {
		t.Fatalf("table box = %+v", box)
	}

	seats := seatCircles(cmds)
	if len(seats) != 6 {
		t.Fatalf("seat count = %d, want 6", len(seats))
	}
	for i, s := range seats {
		above := s.Center.Y < box.Y
		below := s.Center.Y > box.Y+box.H
		if !above && !below {
			t.Errorf("seat %d at %+v not lining the top or bottom edge", i, s.Center)
		}
		if s.Seat != i+1 {
			t.Errorf("seat numbering = %d, want %d", s.Seat, i+1)
		}
	}
}

func TestSofaSeatOrientation(t *testing.T) {
	horizontal := venue.Section{ID: "sh", Type: venue.TypeSofa, Label: "SOFA 1",
		Width: 100, Height: 40, SeatCount: 3, Position: &geometry.Point{X: 300, Y: 300}}
	vertical := venue.Section{ID: "sv", Type: venue.TypeSofa, Label: "SOFA 2",
		Width: 40, Height: 100, SeatCount: 3, Position: &geometry.Point{X: 700, Y: 300}}

	cmds := Layout(venue.Snapshot{Sections: []venue.Section{horizontal, vertical}}, testViewport)

	hs := seatCircles(commandsFor(cmds, "sh"))
	if len(hs) != 3 {
		t.Fatalf("horizontal sofa seats = %d, want 3", len(hs))
	}
	for i := 1; i < len(hs); i++ {
		if hs[i].Center.Y != hs[0].Center.Y {
			t.Errorf("horizontal sofa seat %d not on the same row", i)
		}
		if hs[i].Center.X <= hs[i-1].Center.X {
			t.Errorf("horizontal sofa seats not ordered left to right")
		}
	}

	// a sofa taller than wide seats a column instead
	vs := seatCircles(commandsFor(cmds, "sv"))
	if len(vs) != 3 {
		t.Fatalf("vertical sofa seats = %d, want 3", len(vs))
	}
	for i := 1; i < len(vs); i++ {
		if vs[i].Center.X != vs[0].Center.X {
			t.Errorf("vertical sofa seat %d not in the same column", i)
		}
		if vs[i].Center.Y <= vs[i-1].Center.Y {
			t.Errorf("vertical sofa seats not ordered top to bottom")
		}
	}
}

func TestBarIsSnappedToGrid(t *testing.T) {
	snap := venue.Snapshot{
		Sections: []venue.Section{
			{ID: "bar", Type: venue.TypeBar, Label: "BAR 1", Width: 120, Height: 50,
				Position: &geometry.Point{X: 333, Y: 287}},
		},
	}
	cmds := Layout(snap, testViewport)

	box := commandsFor(cmds, "bar")[0].Rect
	cx, cy := box.CenterX(), box.CenterY()
	if math.Mod(cx, geometry.DefaultGrid) != 0 || math.Mod(cy, geometry.DefaultGrid) != 0 {
		t.Errorf("bar center (%v, %v) not on the %v-unit grid", cx, cy, geometry.DefaultGrid)
	}
}
