package layout

import (
	"github.com/hallplan/hallplan/pkg/geometry"
	"github.com/hallplan/hallplan/pkg/seatpack"
	"github.com/hallplan/hallplan/pkg/venue"
)

// layoutFreeSofas renders top-level sofas the same way free tables are
// placed: dragged ones at their center, the rest grid-distributed.
func (e *engine) layoutFreeSofas() {
	var free []*venue.Section
	for _, sec := range e.sectionsOf(venue.TypeSofa) {
		if sec.BalconyID == "" {
			free = append(free, sec)
		}
	}
	e.placeLoose(free, e.floorArea())
}

// renderSofa draws one sofa: its rectangle, a wrapped title label inside
// the top of the bounds, and a single seat row below the label — or a
// single column when the sofa is taller than wide.
func (e *engine) renderSofa(sec *venue.Section, center geometry.Point, bounds geometry.Rect) {
	w := sec.Width
	if w <= 0 {
		w = venue.DefaultSofaWidth
	}
	h := sec.Height
	if h <= 0 {
		h = venue.DefaultSofaHght
	}
	center = geometry.ClampCenter(center, w, h, bounds)

	box := geometry.Rect{X: center.X - w/2, Y: center.Y - h/2, W: w, H: h}
	e.emit(Command{
		Kind:      KindRect,
		Rect:      box,
		Fill:      e.fillFor(sec),
		SectionID: sec.ID,
		Category:  sec.Category,
	}, true)

	n := sec.SeatCount
	if n < 0 {
		n = 0
	}

	vertical := w < h
	labelH := baseFontSize + 4
	e.label(sec, sec.Label, geometry.Rect{X: box.X, Y: box.Y, W: w, H: labelH}, baseFontSize-2)

	var a, b geometry.Point
	if vertical {
		x := box.X + w/2
		a = geometry.Point{X: x, Y: box.Y + labelH}
		b = geometry.Point{X: x, Y: box.Y + h}
	} else {
		y := box.Y + labelH + (h-labelH)/2
		a = geometry.Point{X: box.X, Y: y}
		b = geometry.Point{X: box.X + w, Y: y}
	}
	e.emitSeats(sec, seatpack.Line(n, a, b))
}
