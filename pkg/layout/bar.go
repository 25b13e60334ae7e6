package layout

import (
	"github.com/hallplan/hallplan/pkg/geometry"
	"github.com/hallplan/hallplan/pkg/venue"
)

// layoutBars renders bar counters: free-floating rectangles, centered by
// default, snapped to the grid. Bars carry no category and no seats.
func (e *engine) layoutBars() {
	for _, sec := range e.sectionsOf(venue.TypeBar) {
		w := sec.Width
		if w <= 0 {
			w = venue.DefaultBarWidth
		}
		h := sec.Height
		if h <= 0 {
			h = venue.DefaultBarHeight
		}

		center := e.vp.Center()
		if sec.Position != nil {
			center = geometry.ClampCenter(*sec.Position, w, h, e.vp)
		}
		center.X = geometry.Snap(center.X, geometry.DefaultGrid)
		center.Y = geometry.Snap(center.Y, geometry.DefaultGrid)
		center = geometry.ClampCenter(center, w, h, e.vp)

		box := geometry.Rect{X: center.X - w/2, Y: center.Y - h/2, W: w, H: h}
		e.emit(Command{
			Kind:      KindRect,
			Rect:      box,
			Fill:      "#8d6e63",
			SectionID: sec.ID,
		}, false)
		e.label(sec, sec.Label, box, baseFontSize)
	}
}
