package floor

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/hallplan/hallplan/pkg/layout"
	"github.com/hallplan/hallplan/pkg/venue"
)

const sectionInteractionCSS = `
    .section-shape { transition: stroke-width 0.15s ease; }
    .section-shape.highlight { stroke-width: 3; stroke: #1a1a1a; }
    .hit-overlay { fill: transparent; pointer-events: all; cursor: grab; }
    text { pointer-events: none; user-select: none; }`

const sectionInteractionJS = `
    function mark(id, on) {
      document.querySelectorAll('[data-section="' + id + '"].section-shape')
        .forEach(el => el.classList.toggle('highlight', on));
    }
    document.querySelectorAll('.hit-overlay').forEach(el => {
      const id = el.dataset.section;
      el.addEventListener('mouseenter', () => mark(id, true));
      el.addEventListener('mouseleave', () => mark(id, false));
    });`

// SVGOption configures the SVG sink.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background  string
	interactive bool
}

// WithBackground sets a canvas background fill.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithInteraction embeds the hover-highlight CSS/JS.
func WithInteraction() SVGOption {
	return func(r *svgRenderer) { r.interactive = true }
}

// RenderSVG realizes the draw-command list onto an SVG document bounded by
// the canvas coordinate system. Commands are drawn in list order, which is
// already the stacking order the layout engine arranged.
func RenderSVG(cmds []layout.Command, canvas venue.Canvas, opts ...SVGOption) []byte {
	r := svgRenderer{background: "#fafafa", interactive: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		canvas.Width, canvas.Height, canvas.Width, canvas.Height)

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			canvas.Width, canvas.Height, r.background)
	}

	for _, c := range cmds {
		renderCommand(&buf, c)
	}

	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", sectionInteractionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", sectionInteractionJS)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderCommand(buf *bytes.Buffer, c layout.Command) {
	switch c.Kind {
	case layout.KindRect:
		renderRect(buf, c)
	case layout.KindCircle:
		renderCircle(buf, c)
	case layout.KindLabel:
		renderLabel(buf, c)
	}
}

func renderRect(buf *bytes.Buffer, c layout.Command) {
	if c.Overlay {
		fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" class="hit-overlay"%s/>`+"\n",
			c.Rect.X, c.Rect.Y, c.Rect.W, c.Rect.H, attribution(c))
		return
	}
	dash := ""
	if c.Dashed {
		dash = ` stroke-dasharray="6 4" fill-opacity="0.35"`
	}
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="#555555" class="section-shape"%s%s/>`+"\n",
		c.Rect.X, c.Rect.Y, c.Rect.W, c.Rect.H, fillOf(c), dash, attribution(c))
}

func renderCircle(buf *bytes.Buffer, c layout.Command) {
	fmt.Fprintf(buf, `  <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="#555555" class="section-shape"%s/>`+"\n",
		c.Center.X, c.Center.Y, c.Radius, fillOf(c), attribution(c))
}

func renderLabel(buf *bytes.Buffer, c layout.Command) {
	size := c.FontSize
	if size <= 0 {
		size = 12
	}
	cx := c.Rect.CenterX()
	// Vertically center the wrapped block inside the anchor box.
	totalH := size * 1.2 * float64(len(c.Lines))
	y := c.Rect.CenterY() - totalH/2 + size

	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%.1f" text-anchor="middle" font-family="sans-serif" fill="#1a1a1a"%s>`,
		cx, y, size, attribution(c))
	for i, line := range c.Lines {
		if i == 0 {
			buf.WriteString(escape(line))
			continue
		}
		fmt.Fprintf(buf, `<tspan x="%.1f" dy="%.1f">%s</tspan>`, cx, size*1.2, escape(line))
	}
	buf.WriteString("</text>\n")
}

// attribution emits the section/category/row/seat data attributes that
// identify a primitive for interactive surfaces and inventory consumers.
func attribution(c layout.Command) string {
	var buf bytes.Buffer
	if c.SectionID != "" {
		fmt.Fprintf(&buf, ` data-section="%s"`, escape(c.SectionID))
	}
	if c.Category != "" {
		fmt.Fprintf(&buf, ` data-category="%s"`, escape(c.Category))
	}
	if c.Seat > 0 {
		if c.Row > 0 {
			fmt.Fprintf(&buf, ` data-row="%d"`, c.Row)
		}
		fmt.Fprintf(&buf, ` data-seat="%d"`, c.Seat)
	}
	return buf.String()
}

func fillOf(c layout.Command) string {
	if c.Fill != "" {
		return c.Fill
	}
	return "#cccccc"
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
