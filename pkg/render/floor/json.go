package floor

import (
	"encoding/json"

	"github.com/hallplan/hallplan/pkg/layout"
	"github.com/hallplan/hallplan/pkg/venue"
)

// jsonCommand flattens a draw command for serialization.
type jsonCommand struct {
	Kind      string   `json:"kind"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	W         float64  `json:"width,omitempty"`
	H         float64  `json:"height,omitempty"`
	R         float64  `json:"radius,omitempty"`
	Lines     []string `json:"lines,omitempty"`
	FontSize  float64  `json:"font_size,omitempty"`
	Fill      string   `json:"fill,omitempty"`
	Dashed    bool     `json:"dashed,omitempty"`
	SectionID string   `json:"section_id,omitempty"`
	Category  string   `json:"category,omitempty"`
	Row       int      `json:"row,omitempty"`
	Seat      int      `json:"seat,omitempty"`
	Overlay   bool     `json:"overlay,omitempty"`
}

type jsonDocument struct {
	Canvas   venue.Canvas  `json:"canvas"`
	Commands []jsonCommand `json:"commands"`
}

// RenderJSON encodes the draw-command list as indented JSON. Command order
// is preserved, so the output is deterministic for identical input.
func RenderJSON(cmds []layout.Command, canvas venue.Canvas) ([]byte, error) {
	doc := jsonDocument{
		Canvas:   canvas,
		Commands: make([]jsonCommand, len(cmds)),
	}
	for i, c := range cmds {
		jc := jsonCommand{
			Kind:      string(c.Kind),
			Lines:     c.Lines,
			FontSize:  c.FontSize,
			Fill:      c.Fill,
			Dashed:    c.Dashed,
			SectionID: c.SectionID,
			Category:  c.Category,
			Row:       c.Row,
			Seat:      c.Seat,
			Overlay:   c.Overlay,
		}
		if c.Kind == layout.KindCircle {
			jc.X, jc.Y, jc.R = c.Center.X, c.Center.Y, c.Radius
		} else {
			jc.X, jc.Y, jc.W, jc.H = c.Rect.X, c.Rect.Y, c.Rect.W, c.Rect.H
		}
		doc.Commands[i] = jc
	}
	return json.MarshalIndent(doc, "", "  ")
}
