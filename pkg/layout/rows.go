package layout

import (
	"strconv"

	"github.com/hallplan/hallplan/pkg/geometry"
	"github.com/hallplan/hallplan/pkg/seatpack"
	"github.com/hallplan/hallplan/pkg/venue"
)

const (
	// defaultSeatGap is the preferred gap between adjacent row seats.
	defaultSeatGap = 4.0

	// rowGapFloor is the tightest spacing between seats or rows before
	// the diameter itself starts shrinking.
	rowGapFloor = 0.5

	// defaultRowGap is the preferred vertical gap between rows.
	defaultRowGap = 10.0

	// rowHeightFloor is the minimum vertical pitch a row occupies.
	rowHeightFloor = 5.0
)

// rowSizing is the single seat/row sizing shared by every ROWS section in
// the venue, derived from the worst-case row so all rendered seats are
// uniform.
type rowSizing struct {
	pitchX   float64 // seat center-to-center spacing
	pitchY   float64 // row center-to-center spacing
	radius   float64 // uniform seat radius
	rowH     float64 // vertical extent of one row
	spanLeft float64
	span     float64
}

// layoutRows renders every ROWS section as one contiguous vertical block
// beneath the stage band.
//
// A single sizing pass scans all rows in all sections: the widest row must
// fit the horizontal span between the side balcony bands and the label
// gutter, and all rows together must fit the vertical span above the
// bottom balcony band. Gaps are shrunk before diameters, diameters before
// row heights, each with its own floor. A section-level drag offset shifts
// that section's rows as a rigid block without affecting the shared
// sizing.
//
// Row labels are numbered by a single counter running across all ROWS
// sections; a row that would fall wholly below the bottom balcony band is
// skipped and consumes no number.
func (e *engine) layoutRows() {
	sections := e.sectionsOf(venue.TypeRows)
	if len(sections) == 0 {
		return
	}

	s := e.rowSizingFor(sections)

	global := 0
	y := e.bands.seatTop
	for _, sec := range sections {
		blockH := float64(len(sec.Rows)) * s.pitchY
		var dx, dy float64
		if sec.Position != nil {
			dx = sec.Position.X - (s.spanLeft + s.span/2)
			dy = sec.Position.Y - (y + blockH/2)
		}
		fill := e.fillFor(sec)

		for _, row := range sec.Rows {
			rowTop := y + dy
			rowCenterY := rowTop + s.pitchY/2
			y += s.pitchY

			// Wholly below the bottom balcony band: not rendered, not
			// numbered.
			if rowTop >= e.bands.bottomTop {
				continue
			}

			global++
			n := row.Seats
			if n < 0 {
				n = 0
			}

			e.label(sec, strconv.Itoa(global), geometry.Rect{
				X: s.spanLeft - LabelGutter + dx,
				Y: rowCenterY - s.rowH/2,
				W: LabelGutter - 6,
				H: s.rowH,
			}, baseFontSize-2)

			startX := s.spanLeft + (s.span-float64(n)*s.pitchX)/2 + s.pitchX/2 + dx
			for i := 0; i < n; i++ {
				e.emit(Command{
					Kind:      KindCircle,
					Center:    geometry.Point{X: startX + float64(i)*s.pitchX, Y: rowCenterY},
					Radius:    s.radius,
					Fill:      fill,
					SectionID: sec.ID,
					Category:  sec.Category,
					Row:       global,
					Seat:      i + 1,
				}, true)
			}
		}
	}
}

// rowSizingFor computes the shared sizing for all ROWS sections.
func (e *engine) rowSizingFor(sections []*venue.Section) rowSizing {
	spanLeft := e.vp.X + e.bands.leftW + LabelGutter
	spanRight := e.vp.X + e.vp.W - e.bands.rightW
	span := spanRight - spanLeft
	if span < 1 {
		span = 1
	}

	maxSeats, totalRows := 1, 0
	for _, sec := range sections {
		totalRows += len(sec.Rows)
		for _, row := range sec.Rows {
			if row.Seats > maxSeats {
				maxSeats = row.Seats
			}
		}
	}
	if totalRows == 0 {
		totalRows = 1
	}

	// Horizontal: seat diameter from the worst-case row. Shrink the gap
	// first, then the diameter, down to its floor — and never past the
	// center spacing, which keeps seats from overlapping.
	pitchX := span / float64(maxSeats)
	d := pitchX - defaultSeatGap
	if d < 2*seatpack.MinRadius {
		d = pitchX - rowGapFloor
	}
	if d < 2*seatpack.FloorRadius {
		d = 2 * seatpack.FloorRadius
	}
	if d > 2*seatpack.MaxRadius {
		d = 2 * seatpack.MaxRadius
	}
	if d > pitchX {
		d = pitchX
	}

	// Vertical: rows must fit between the stage band and the bottom
	// balcony band. Compress the row gap down to its floor, then the row
	// height itself.
	vspan := e.bands.bottomTop - e.bands.seatTop
	if vspan < 1 {
		vspan = 1
	}
	rowH := d
	if rowH < rowHeightFloor {
		rowH = rowHeightFloor
	}
	gapY := defaultRowGap
	if float64(totalRows)*(rowH+gapY) > vspan {
		gapY = vspan/float64(totalRows) - rowH
		if gapY < rowGapFloor {
			gapY = rowGapFloor
		}
	}
	if float64(totalRows)*(rowH+gapY) > vspan {
		rowH = vspan/float64(totalRows) - gapY
		if rowH < rowHeightFloor {
			rowH = rowHeightFloor
		}
	}
	pitchY := rowH + gapY

	r := d / 2
	if r > pitchY/2 {
		r = pitchY / 2 // rows packed tighter than a diameter
	}

	return rowSizing{
		pitchX:   pitchX,
		pitchY:   pitchY,
		radius:   r,
		rowH:     rowH,
		spanLeft: spanLeft,
		span:     span,
	}
}
