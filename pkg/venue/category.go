package venue

import "strings"

// Category is a named, colored seat classification shared across sections,
// typically a price tier. Value is the stable key sections reference.
type Category struct {
	Value string `json:"value" toml:"value"`
	Label string `json:"label" toml:"label"`
	Color string `json:"color" toml:"color"`
	Icon  string `json:"icon,omitempty" toml:"icon,omitempty"`
}

// palette is the rotation of fill colors assigned to newly derived
// categories.
var palette = []string{
	"#4e79a7", "#f28e2b", "#59a14f", "#e15759",
	"#76b7b2", "#edc948", "#b07aa1", "#9c755f",
}

// DeriveSlug converts a display label into a category value key: lowercase
// with runs of non-alphanumeric characters collapsed to single
// underscores. "BALCONY L 1" → "balcony_l_1".
func DeriveSlug(label string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(label) {
		isWord := r >= 'a' && r <= 'z' || r >= '0' && r <= '9'
		if !isWord {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
