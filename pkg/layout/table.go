package layout

import (
	"github.com/hallplan/hallplan/pkg/geometry"
	"github.com/hallplan/hallplan/pkg/seatpack"
	"github.com/hallplan/hallplan/pkg/venue"
)

// sideClearance is the gap between a straight table edge and the seat
// centers lining it.
const sideClearance = 8.0

// layoutFreeTables renders top-level tables (no owning balcony). A table
// keeps its dragged center; tables never dragged are distributed in a
// near-square grid over the open floor between the reserved bands.
func (e *engine) layoutFreeTables() {
	var free []*venue.Section
	for _, sec := range e.sectionsOf(venue.TypeTable) {
		if sec.BalconyID == "" {
			free = append(free, sec)
		}
	}
	e.placeLoose(free, e.floorArea())
}

// floorArea is the open region between the stage band, the side balcony
// bands and the bottom balcony band.
func (e *engine) floorArea() geometry.Rect {
	area := geometry.Rect{
		X: e.vp.X + e.bands.leftW,
		Y: e.bands.seatTop,
		W: e.vp.W - e.bands.leftW - e.bands.rightW,
		H: e.bands.bottomTop - e.bands.seatTop,
	}
	if area.W < 1 {
		area.W = 1
	}
	if area.H < 1 {
		area.H = 1
	}
	return area
}

// placeLoose renders tables/sofas into bounds: dragged ones at their
// stored center (clamped), the rest auto-distributed on a near-square
// grid.
func (e *engine) placeLoose(secs []*venue.Section, bounds geometry.Rect) {
	var auto []*venue.Section
	for _, sec := range secs {
		if sec.Position == nil {
			auto = append(auto, sec)
			continue
		}
		e.renderLoose(sec, *sec.Position, bounds)
	}
	if len(auto) == 0 {
		return
	}

	cols := 1
	for cols*cols < len(auto) {
		cols++
	}
	rows := (len(auto) + cols - 1) / cols
	cellW := bounds.W / float64(cols)
	cellH := bounds.H / float64(rows)
	for i, sec := range auto {
		center := geometry.Point{
			X: bounds.X + (float64(i%cols)+0.5)*cellW,
			Y: bounds.Y + (float64(i/cols)+0.5)*cellH,
		}
		e.renderLoose(sec, center, bounds)
	}
}

func (e *engine) renderLoose(sec *venue.Section, center geometry.Point, bounds geometry.Rect) {
	if sec.Type == venue.TypeSofa {
		e.renderSofa(sec, center, bounds)
		return
	}
	e.renderTable(sec, center, bounds)
}

// renderTable draws one table (any shape) centered at center, clamped so
// the table and its seat ring stay inside bounds. Seats are numbered
// sequentially in packing order.
func (e *engine) renderTable(sec *venue.Section, center geometry.Point, bounds geometry.Rect) {
	size := sec.Size
	if size <= 0 {
		size = venue.DefaultTableSize
	}

	switch sec.Shape {
	case venue.TableSquare:
		e.renderQuadTable(sec, center, bounds, size, size)
	case venue.TableRectangular:
		h := sec.Height
		if h <= 0 {
			h = size / 2
		}
		e.renderQuadTable(sec, center, bounds, size, h)
	default: // round, and any malformed shape value
		e.renderRoundTable(sec, center, bounds, size)
	}
}

func (e *engine) renderRoundTable(sec *venue.Section, center geometry.Point, bounds geometry.Rect, size float64) {
	tableR := size / 2
	outer := 2 * (tableR + seatpack.RingClearance + seatpack.MaxRadius)
	center = geometry.ClampCenter(center, outer, outer, bounds)

	e.emit(Command{
		Kind:      KindCircle,
		Center:    center,
		Radius:    tableR,
		Fill:      e.fillFor(sec),
		SectionID: sec.ID,
		Category:  sec.Category,
	}, true)
	e.label(sec, sec.Label, geometry.Rect{
		X: center.X - tableR, Y: center.Y - tableR, W: 2 * tableR, H: 2 * tableR,
	}, baseFontSize-2)

	counts := seatpack.SideCounts{
		Top: sec.SeatsTop, Right: sec.SeatsRight, Bottom: sec.SeatsBottom, Left: sec.SeatsLeft,
	}
	e.emitSeats(sec, seatpack.Round(counts, center, tableR))
}

func (e *engine) renderQuadTable(sec *venue.Section, center geometry.Point, bounds geometry.Rect, w, h float64) {
	margin := sideClearance + seatpack.MaxRadius
	center = geometry.ClampCenter(center, w+2*margin, h+2*margin, bounds)

	box := geometry.Rect{X: center.X - w/2, Y: center.Y - h/2, W: w, H: h}
	e.emit(Command{
		Kind:      KindRect,
		Rect:      box,
		Fill:      e.fillFor(sec),
		SectionID: sec.ID,
		Category:  sec.Category,
	}, true)
	e.label(sec, sec.Label, box, baseFontSize-2)

	// One independent linear packing per occupied side, just outside the
	// table edge.
	type side struct {
		n    int
		a, b geometry.Point
	}
	sides := []side{
		{sec.SeatsTop, geometry.Point{X: box.X, Y: box.Y - sideClearance}, geometry.Point{X: box.X + w, Y: box.Y - sideClearance}},
		{sec.SeatsRight, geometry.Point{X: box.X + w + sideClearance, Y: box.Y}, geometry.Point{X: box.X + w + sideClearance, Y: box.Y + h}},
		{sec.SeatsBottom, geometry.Point{X: box.X, Y: box.Y + h + sideClearance}, geometry.Point{X: box.X + w, Y: box.Y + h + sideClearance}},
		{sec.SeatsLeft, geometry.Point{X: box.X - sideClearance, Y: box.Y}, geometry.Point{X: box.X - sideClearance, Y: box.Y + h}},
	}
	seatNo := 0
	for _, s := range sides {
		for _, seat := range seatpack.Line(s.n, s.a, s.b) {
			seatNo++
			e.emitSeat(sec, seat, seatNo)
		}
	}
}

// emitSeats numbers and emits a packed seat list.
func (e *engine) emitSeats(sec *venue.Section, seats []seatpack.Seat) {
	for i, seat := range seats {
		e.emitSeat(sec, seat, i+1)
	}
}

func (e *engine) emitSeat(sec *venue.Section, seat seatpack.Seat, number int) {
	e.emit(Command{
		Kind:      KindCircle,
		Center:    seat.Center,
		Radius:    seat.Radius,
		Fill:      e.fillFor(sec),
		SectionID: sec.ID,
		Category:  sec.Category,
		Seat:      number,
	}, true)
}
