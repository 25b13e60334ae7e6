package layout

import (
	"github.com/hallplan/hallplan/pkg/geometry"
	"github.com/hallplan/hallplan/pkg/venue"
)

// layoutStage renders the stage centered horizontally at the top of the
// viewport. The stage is not draggable; only its own width/height fields
// influence it, and missing dimensions fall back to the defaults.
func (e *engine) layoutStage() {
	for _, sec := range e.sectionsOf(venue.TypeStage) {
		w := sec.Width
		if w <= 0 {
			w = venue.DefaultStageWidth
		}
		h := sec.Height
		if h <= 0 {
			h = venue.DefaultStageHeight
		}
		if w > e.vp.W {
			w = e.vp.W
		}

		box := geometry.Rect{
			X: e.vp.X + (e.vp.W-w)/2,
			Y: e.vp.Y,
			W: w,
			H: h,
		}
		e.emit(Command{
			Kind:      KindRect,
			Rect:      box,
			Fill:      "#333333",
			SectionID: sec.ID,
		}, false)
		e.label(sec, sec.Label, box, baseFontSize+2)
	}
}
