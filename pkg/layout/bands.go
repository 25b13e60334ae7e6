package layout

import (
	"github.com/hallplan/hallplan/pkg/geometry"
	"github.com/hallplan/hallplan/pkg/venue"
)

// bands holds the reserved regions the priority passes negotiate over:
// the stage band at the top, side balcony bands, and the bottom balcony
// band. Balcony rectangles are resolved here, before the rows pass, so
// rows can size seats against the true span left between the side bands.
type bands struct {
	// seatTop is the y coordinate where seating content starts, just
	// below the stage band.
	seatTop float64

	// bottomTop is the y coordinate of the top edge of the bottom
	// balcony band, or the viewport bottom when no middle balcony exists.
	bottomTop float64

	// leftW and rightW are the widths of the side balcony bands, zero
	// when the side is empty.
	leftW, rightW float64

	// balcony maps a committed balcony's id to its band rectangle.
	// Pending balconies are absent; they render as a centered
	// placeholder instead.
	balcony map[string]geometry.Rect
}

func computeBands(snap venue.Snapshot, vp geometry.Rect) bands {
	b := bands{
		seatTop:   vp.Y + StageMargin,
		bottomTop: vp.Y + vp.H,
		balcony:   make(map[string]geometry.Rect),
	}

	for i := range snap.Sections {
		sec := &snap.Sections[i]
		if sec.Type == venue.TypeStage {
			h := sec.Height
			if h <= 0 {
				h = venue.DefaultStageHeight
			}
			b.seatTop = vp.Y + h + StageMargin
			break
		}
	}

	var left, right, middle []*venue.Section
	for i := range snap.Sections {
		sec := &snap.Sections[i]
		if sec.Type != venue.TypeBalcony {
			continue
		}
		switch sec.BalconyPos {
		case venue.BalconyLeft:
			left = append(left, sec)
		case venue.BalconyRight:
			right = append(right, sec)
		case venue.BalconyMiddle:
			middle = append(middle, sec)
		}
	}

	// Bottom band first: side bands stop just above it.
	if len(middle) > 0 {
		w := vp.W / float64(len(middle))
		var maxH float64
		for _, sec := range middle {
			h := percentOf(sec.HeightPercent, venue.DefaultBottomBalconyHeightPct, vp.H)
			if h > maxH {
				maxH = h
			}
		}
		b.bottomTop = vp.Y + vp.H - maxH
		for i, sec := range middle {
			h := percentOf(sec.HeightPercent, venue.DefaultBottomBalconyHeightPct, vp.H)
			b.balcony[sec.ID] = geometry.Rect{
				X: vp.X + float64(i)*w,
				Y: vp.Y + vp.H - h,
				W: w,
				H: h,
			}
		}
	}

	b.leftW = maxSideWidth(left, vp.W)
	b.rightW = maxSideWidth(right, vp.W)

	// Side bands that would overlap each other scale down proportionally.
	if sum := b.leftW + b.rightW; sum > vp.W {
		scale := vp.W / sum
		b.leftW *= scale
		b.rightW *= scale
	}

	stackSide(b.balcony, left, vp.X, b.leftW, b.seatTop, b.bottomTop)
	stackSide(b.balcony, right, vp.X+vp.W-b.rightW, b.rightW, b.seatTop, b.bottomTop)

	return b
}

// percentOf converts a percent field to absolute units of total, falling
// back to def when the field is missing or malformed.
func percentOf(pct, def, total float64) float64 {
	if pct <= 0 || pct > 100 {
		pct = def
	}
	return total * pct / 100
}

func maxSideWidth(side []*venue.Section, canvasW float64) float64 {
	var w float64
	for _, sec := range side {
		if sw := percentOf(sec.WidthPercent, venue.DefaultSideBalconyWidthPct, canvasW); sw > w {
			w = sw
		}
	}
	return w
}

// stackSide divides the vertical span between top and bottom equally
// among the balconies sharing a side, with fixed inter-gaps.
func stackSide(out map[string]geometry.Rect, side []*venue.Section, x, w, top, bottom float64) {
	k := len(side)
	if k == 0 {
		return
	}
	span := bottom - top - BalconyGap // keep clear of the bottom band
	if span < 0 {
		span = 0
	}
	h := (span - float64(k-1)*BalconyGap) / float64(k)
	if h < 0 {
		h = 0
	}
	for i, sec := range side {
		out[sec.ID] = geometry.Rect{
			X: x,
			Y: top + float64(i)*(h+BalconyGap),
			W: w,
			H: h,
		}
	}
}
