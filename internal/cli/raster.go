package cli

import (
	"strings"

	"github.com/hallplan/hallplan/pkg/drag"
	"github.com/hallplan/hallplan/pkg/geometry"
	"github.com/hallplan/hallplan/pkg/layout"
)

// raster projects draw commands onto a terminal cell grid. Rects become
// box outlines, seats become dots, and labels are overlaid at their
// anchor. Commands draw in order, so later sections paint over earlier
// ones the same way the SVG sink stacks them.
type raster struct {
	cells  [][]rune
	w, h   int
	sx, sy float64 // canvas units per cell
}

func newRaster(canvas geometry.Rect, w, h int) *raster {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	cells := make([][]rune, h)
	for i := range cells {
		cells[i] = make([]rune, w)
		for j := range cells[i] {
			cells[i][j] = ' '
		}
	}
	return &raster{
		cells: cells,
		w:     w,
		h:     h,
		sx:    canvas.W / float64(w),
		sy:    canvas.H / float64(h),
	}
}

func (r *raster) col(x float64) int { return int(x / r.sx) }
func (r *raster) row(y float64) int { return int(y / r.sy) }

func (r *raster) set(col, row int, ch rune) {
	if col < 0 || col >= r.w || row < 0 || row >= r.h {
		return
	}
	r.cells[row][col] = ch
}

func (r *raster) draw(cmds []layout.Command, tf *drag.Transform) {
	for _, c := range cmds {
		if c.Overlay {
			continue
		}
		dx, dy := 0.0, 0.0
		if tf != nil && c.SectionID == tf.SectionID {
			dx, dy = tf.Dx, tf.Dy
		}
		switch c.Kind {
		case layout.KindRect:
			r.drawRect(c, dx, dy)
		case layout.KindCircle:
			r.set(r.col(c.Center.X+dx), r.row(c.Center.Y+dy), 'o')
		case layout.KindLabel:
			r.drawLabel(c, dx, dy)
		}
	}
}

func (r *raster) drawRect(c layout.Command, dx, dy float64) {
	left := r.col(c.Rect.X + dx)
	right := r.col(c.Rect.X + c.Rect.W + dx)
	top := r.row(c.Rect.Y + dy)
	bottom := r.row(c.Rect.Y + c.Rect.H + dy)
	if right <= left {
		right = left + 1
	}
	if bottom <= top {
		bottom = top + 1
	}

	horiz, vert := '─', '│'
	if c.Dashed {
		horiz, vert = '┄', '┆'
	}
	for col := left + 1; col < right; col++ {
		r.set(col, top, horiz)
		r.set(col, bottom, horiz)
	}
	for row := top + 1; row < bottom; row++ {
		r.set(left, row, vert)
		r.set(right, row, vert)
	}
	r.set(left, top, '┌')
	r.set(right, top, '┐')
	r.set(left, bottom, '└')
	r.set(right, bottom, '┘')
}

func (r *raster) drawLabel(c layout.Command, dx, dy float64) {
	midRow := r.row(c.Rect.CenterY() + dy)
	for i, line := range c.Lines {
		row := midRow - len(c.Lines)/2 + i
		start := r.col(c.Rect.CenterX()+dx) - len(line)/2
		for j, ch := range line {
			r.set(start+j, row, ch)
		}
	}
}

func (r *raster) String() string {
	var b strings.Builder
	for i, row := range r.cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.TrimRight(string(row), " "))
	}
	return b.String()
}
