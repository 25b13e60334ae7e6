package layout

import "github.com/hallplan/hallplan/pkg/geometry"

// Kind discriminates draw command shapes.
type Kind string

// Draw command kinds.
const (
	KindRect   Kind = "rect"
	KindCircle Kind = "circle"
	KindLabel  Kind = "label"
)

// Command is one drawable primitive emitted by the layout engine. Every
// command carries a back-reference to its owning section; seat circles
// additionally carry the row/seat pair ticket-inventory collaborators use
// to map a purchasable unit to a drawn shape. Purely structural shapes
// (stage, bar, decorative balcony fill) have no row/seat attribution.
type Command struct {
	Kind Kind `json:"kind"`

	// Rect geometry (KindRect, and the anchor box for KindLabel).
	Rect geometry.Rect `json:"-"`

	// Circle geometry (KindCircle).
	Center geometry.Point `json:"-"`
	Radius float64        `json:"radius,omitempty"`

	// Label content (KindLabel). Labels are anchored at the center of
	// Rect and wrapped into Lines by the engine.
	Lines    []string `json:"lines,omitempty"`
	FontSize float64  `json:"font_size,omitempty"`

	Fill   string `json:"fill,omitempty"`
	Dashed bool   `json:"dashed,omitempty"`

	// Attribution.
	SectionID string `json:"section_id,omitempty"`
	Category  string `json:"category,omitempty"`
	Row       int    `json:"row,omitempty"`
	Seat      int    `json:"seat,omitempty"`

	// Overlay marks the invisible hit-test shape synthesized above a
	// section's seats so dense sections stay a single clickable target.
	Overlay bool `json:"overlay,omitempty"`
}

// Bounds returns the axis-aligned bounding box of the command.
func (c Command) Bounds() geometry.Rect {
	if c.Kind == KindCircle {
		return geometry.Rect{
			X: c.Center.X - c.Radius,
			Y: c.Center.Y - c.Radius,
			W: 2 * c.Radius,
			H: 2 * c.Radius,
		}
	}
	return c.Rect
}
