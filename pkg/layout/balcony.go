package layout

import (
	"github.com/hallplan/hallplan/pkg/geometry"
	"github.com/hallplan/hallplan/pkg/seatpack"
	"github.com/hallplan/hallplan/pkg/venue"
)

const (
	// balconyInset is the padding between a balcony band edge and its
	// seat grid.
	balconyInset = 10.0

	// balconySeatPitch spaces the fixed-size seat grid inside seats
	// balconies.
	balconySeatPitch = 14.0

	balconySeatRadius = 5.0
)

// layoutBalconies renders balcony sections. Committed balconies occupy
// the band rectangles resolved during band computation; a balcony without
// a side yet renders as a dashed placeholder at canvas center awaiting
// the drag gesture that assigns one.
//
// Band content depends on the balcony sub-type: a packed seat grid, a
// labeled open floor, or the child table/sofa sections owned through
// BalconyID.
func (e *engine) layoutBalconies() {
	for _, sec := range e.sectionsOf(venue.TypeBalcony) {
		band, committed := e.bands.balcony[sec.ID]
		if !committed {
			e.renderPendingBalcony(sec)
			continue
		}

		e.emit(Command{
			Kind:      KindRect,
			Rect:      band,
			Fill:      e.fillFor(sec),
			SectionID: sec.ID,
			Category:  sec.Category,
		}, false)
		e.label(sec, sec.Label, geometry.Rect{
			X: band.X, Y: band.Y, W: band.W, H: baseFontSize + 6,
		}, baseFontSize-2)

		interior := band.Inset(balconyInset)
		interior.Y += baseFontSize // keep clear of the title line
		interior.H -= baseFontSize
		if interior.H < 0 {
			interior.H = 0
		}

		switch sec.BalconyKind {
		case venue.BalconyDanceFloor:
			e.label(sec, sec.Label, interior, baseFontSize)
		case venue.BalconyTables, venue.BalconySofas:
			e.placeLoose(e.childrenOf(sec.ID), interior)
		default: // seats, and any malformed kind
			vertical := sec.BalconyPos == venue.BalconyMiddle
			e.renderBalconySeats(sec, interior, vertical)
		}
	}
}

// renderPendingBalcony draws the dashed fixed-size placeholder for a
// balcony still awaiting placement.
func (e *engine) renderPendingBalcony(sec *venue.Section) {
	box := geometry.Rect{
		X: e.vp.CenterX() - PendingBalconyWidth/2,
		Y: e.vp.CenterY() - PendingBalconyHeight/2,
		W: PendingBalconyWidth,
		H: PendingBalconyHeight,
	}
	e.emit(Command{
		Kind:      KindRect,
		Rect:      box,
		Fill:      e.fillFor(sec),
		Dashed:    true,
		SectionID: sec.ID,
		Category:  sec.Category,
	}, true)
	e.label(sec, sec.Label, box, baseFontSize)
}

// renderBalconySeats packs a rows × seats-per-row grid into the balcony
// interior. On side balconies the rows run across the band and stack down
// it; on bottom balconies the orientation flips and rows run down the
// band.
func (e *engine) renderBalconySeats(sec *venue.Section, interior geometry.Rect, vertical bool) {
	rowLen, depth := interior.W, interior.H
	if vertical {
		rowLen, depth = interior.H, interior.W
	}

	perRow := int(rowLen / balconySeatPitch)
	numRows := int(depth / balconySeatPitch)
	if perRow < 1 || numRows < 1 {
		return
	}

	r := seatpack.RadiusFor(balconySeatPitch)
	if r > balconySeatRadius {
		r = balconySeatRadius
	}
	fill := e.fillFor(sec)

	// Center the grid in the interior.
	offA := (rowLen - float64(perRow)*balconySeatPitch) / 2
	offB := (depth - float64(numRows)*balconySeatPitch) / 2

	for row := 0; row < numRows; row++ {
		for col := 0; col < perRow; col++ {
			along := offA + (float64(col)+0.5)*balconySeatPitch
			across := offB + (float64(row)+0.5)*balconySeatPitch
			var c geometry.Point
			if vertical {
				c = geometry.Point{X: interior.X + across, Y: interior.Y + along}
			} else {
				c = geometry.Point{X: interior.X + along, Y: interior.Y + across}
			}
			e.emit(Command{
				Kind:      KindCircle,
				Center:    c,
				Radius:    r,
				Fill:      fill,
				SectionID: sec.ID,
				Category:  sec.Category,
				Row:       row + 1,
				Seat:      col + 1,
			}, true)
		}
	}
}
