package venue

import (
	"github.com/hallplan/hallplan/pkg/geometry"
)

// Type identifies the structural kind of a section.
type Type string

// Section types.
const (
	TypeStage      Type = "stage"
	TypeDanceFloor Type = "dancefloor"
	TypeRows       Type = "rows"
	TypeBalcony    Type = "balcony"
	TypeBar        Type = "bar"
	TypeTable      Type = "table"
	TypeSofa       Type = "sofa"
)

// Types lists all section types in layout priority order.
var Types = []Type{TypeStage, TypeRows, TypeDanceFloor, TypeBalcony, TypeBar, TypeTable, TypeSofa}

// displayName maps a type to the prefix used for generated labels.
var displayName = map[Type]string{
	TypeStage:      "STAGE",
	TypeDanceFloor: "DANCEFLOOR",
	TypeRows:       "ROWS",
	TypeBalcony:    "BALCONY",
	TypeBar:        "BAR",
	TypeTable:      "TABLE",
	TypeSofa:       "SOFA",
}

// Valid reports whether t is a known section type.
func (t Type) Valid() bool {
	_, ok := displayName[t]
	return ok
}

// DisplayName returns the uppercase label prefix for the type, e.g.
// "DANCEFLOOR" for TypeDanceFloor.
func (t Type) DisplayName() string {
	return displayName[t]
}

// HasCategory reports whether sections of this type carry a category.
// Stage and bar are purely structural and never reference the palette.
func (t Type) HasCategory() bool {
	return t != TypeStage && t != TypeBar
}

// BalconyPosition is the committed side of a balcony. The zero value means
// the balcony is still pending placement and renders as a dashed
// placeholder at canvas center.
type BalconyPosition string

// Balcony positions.
const (
	BalconyPending BalconyPosition = ""
	BalconyLeft    BalconyPosition = "left"
	BalconyRight   BalconyPosition = "right"
	BalconyMiddle  BalconyPosition = "middle"
)

// Short returns the single-letter position code used in derived labels
// ("BALCONY L 1").
func (p BalconyPosition) Short() string {
	switch p {
	case BalconyLeft:
		return "L"
	case BalconyRight:
		return "R"
	case BalconyMiddle:
		return "M"
	}
	return ""
}

// BalconyKind is the content sub-type of a balcony.
type BalconyKind string

// Balcony content kinds.
const (
	BalconySeats      BalconyKind = "seats"
	BalconyDanceFloor BalconyKind = "dancefloor"
	BalconyTables     BalconyKind = "tables"
	BalconySofas      BalconyKind = "sofas"
)

// TableShape is the geometric shape of a table section.
type TableShape string

// Table shapes.
const (
	TableRound       TableShape = "round"
	TableSquare      TableShape = "square"
	TableRectangular TableShape = "rectangular"
)

// Row describes one seating row inside a ROWS section. Number is the
// authored ordering within the section; the rendered row label is assigned
// globally across all ROWS sections by the layout engine.
type Row struct {
	Number int `json:"number" toml:"number"`
	Seats  int `json:"seats" toml:"seats"`
}

// Section is the atomic structural unit of a venue. Only the fields
// relevant to its Type are meaningful; the rest stay at their zero value.
type Section struct {
	ID       string `json:"id" toml:"id"`
	Type     Type   `json:"type" toml:"type"`
	Label    string `json:"label" toml:"label"`
	Category string `json:"category,omitempty" toml:"category,omitempty"`
	Color    string `json:"color,omitempty" toml:"color,omitempty"`

	// Absolute size for stage and bar, and the long side height for
	// rectangular tables and sofas.
	Width  float64 `json:"width,omitempty" toml:"width,omitempty"`
	Height float64 `json:"height,omitempty" toml:"height,omitempty"`

	// Percent-of-available-space sizing for dance floors and balconies.
	WidthPercent  float64 `json:"width_percent,omitempty" toml:"width_percent,omitempty"`
	HeightPercent float64 `json:"height_percent,omitempty" toml:"height_percent,omitempty"`

	// Position is the dragged center of the section. It is nil until the
	// operator drags the section; percent/default sizing applies before
	// that, the stored center afterwards.
	Position *geometry.Point `json:"position,omitempty" toml:"position,omitempty"`

	// ROWS fields.
	Rows []Row `json:"rows,omitempty" toml:"rows,omitempty"`

	// BALCONY fields.
	BalconyPos  BalconyPosition `json:"balcony_position,omitempty" toml:"balcony_position,omitempty"`
	BalconyKind BalconyKind     `json:"balcony_kind,omitempty" toml:"balcony_kind,omitempty"`
	ChildCount  int             `json:"child_count,omitempty" toml:"child_count,omitempty"`

	// TABLE fields. Size is the diameter of a round table or the side of a
	// square one; rectangular tables use Size×Height.
	Shape       TableShape `json:"shape,omitempty" toml:"shape,omitempty"`
	Size        float64    `json:"size,omitempty" toml:"size,omitempty"`
	SeatsTop    int        `json:"seats_top,omitempty" toml:"seats_top,omitempty"`
	SeatsRight  int        `json:"seats_right,omitempty" toml:"seats_right,omitempty"`
	SeatsBottom int        `json:"seats_bottom,omitempty" toml:"seats_bottom,omitempty"`
	SeatsLeft   int        `json:"seats_left,omitempty" toml:"seats_left,omitempty"`

	// BalconyID links a table/sofa to its owning balcony. Empty for
	// top-level sections.
	BalconyID string `json:"balcony_id,omitempty" toml:"balcony_id,omitempty"`

	// SOFA fields.
	SeatCount int `json:"seat_count,omitempty" toml:"seat_count,omitempty"`
}

// TotalTableSeats returns the seat count across all four sides of a table.
func (s *Section) TotalTableSeats() int {
	return s.SeatsTop + s.SeatsRight + s.SeatsBottom + s.SeatsLeft
}

// Clone returns a deep copy of the section.
func (s *Section) Clone() *Section {
	c := *s
	if s.Position != nil {
		p := *s.Position
		c.Position = &p
	}
	if s.Rows != nil {
		c.Rows = make([]Row, len(s.Rows))
		copy(c.Rows, s.Rows)
	}
	return &c
}

// Default section dimensions, applied at creation and whenever a numeric
// field is missing or non-positive at layout time.
const (
	DefaultStageWidth  = 300.0
	DefaultStageHeight = 80.0
	DefaultBarWidth    = 120.0
	DefaultBarHeight   = 50.0

	DefaultDanceFloorWidthPct  = 40.0
	DefaultDanceFloorHeightPct = 30.0

	DefaultSideBalconyWidthPct    = 15.0
	DefaultBottomBalconyHeightPct = 20.0

	DefaultTableSize = 60.0
	DefaultSofaWidth = 100.0
	DefaultSofaHght  = 40.0

	DefaultRowSeats = 10
	DefaultRowCount = 3
)

// applyDefaults fills in the type-specific creation defaults.
func applyDefaults(s *Section) {
	switch s.Type {
	case TypeStage:
		s.Width = DefaultStageWidth
		s.Height = DefaultStageHeight
	case TypeBar:
		s.Width = DefaultBarWidth
		s.Height = DefaultBarHeight
	case TypeDanceFloor:
		s.WidthPercent = DefaultDanceFloorWidthPct
		s.HeightPercent = DefaultDanceFloorHeightPct
	case TypeRows:
		s.Rows = make([]Row, DefaultRowCount)
		for i := range s.Rows {
			s.Rows[i] = Row{Number: i + 1, Seats: DefaultRowSeats}
		}
	case TypeBalcony:
		s.BalconyKind = BalconySeats
		s.WidthPercent = DefaultSideBalconyWidthPct
		s.HeightPercent = DefaultBottomBalconyHeightPct
	case TypeTable:
		s.Shape = TableRound
		s.Size = DefaultTableSize
		s.SeatsTop, s.SeatsRight, s.SeatsBottom, s.SeatsLeft = 2, 2, 2, 2
	case TypeSofa:
		s.Width = DefaultSofaWidth
		s.Height = DefaultSofaHght
		s.SeatCount = 3
	}
}
