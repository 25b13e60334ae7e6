package layout

import (
	"github.com/hallplan/hallplan/pkg/geometry"
	"github.com/hallplan/hallplan/pkg/venue"
)

// layoutDanceFloors renders dance floor sections. Size comes from the
// percent fields measured against the space left below the stage band;
// once a dance floor has been dragged, its stored center is used directly,
// clamped to the viewport.
func (e *engine) layoutDanceFloors() {
	availH := e.vp.Y + e.vp.H - e.bands.seatTop
	if availH < 1 {
		availH = 1
	}

	for _, sec := range e.sectionsOf(venue.TypeDanceFloor) {
		w := percentOf(sec.WidthPercent, venue.DefaultDanceFloorWidthPct, e.vp.W)
		h := percentOf(sec.HeightPercent, venue.DefaultDanceFloorHeightPct, availH)

		center := geometry.Point{
			X: e.vp.CenterX(),
			Y: e.bands.seatTop + availH/2,
		}
		if sec.Position != nil {
			center = geometry.ClampCenter(*sec.Position, w, h, e.vp)
		}

		box := geometry.Rect{X: center.X - w/2, Y: center.Y - h/2, W: w, H: h}
		e.emit(Command{
			Kind:      KindRect,
			Rect:      box,
			Fill:      e.fillFor(sec),
			SectionID: sec.ID,
			Category:  sec.Category,
		}, false)
		e.label(sec, sec.Label, box, baseFontSize)
	}
}
