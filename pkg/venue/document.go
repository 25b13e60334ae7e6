package venue

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/hallplan/hallplan/pkg/errors"
)

// Canvas is the bounding coordinate system of the rendered document.
type Canvas struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// Default canvas dimensions.
const (
	DefaultCanvasWidth  = 1000.0
	DefaultCanvasHeight = 800.0
)

// Document is the serialized form of a venue: the canvas, the section list
// and the category palette, as plain structured data. The engine itself
// never persists documents; this codec is the boundary handed to
// persistence collaborators.
type Document struct {
	Name       string     `json:"name,omitempty" toml:"name,omitempty"`
	Canvas     Canvas     `json:"canvas" toml:"canvas"`
	Sections   []Section  `json:"sections" toml:"sections"`
	Categories []Category `json:"categories,omitempty" toml:"categories,omitempty"`
}

// Snapshot is an immutable copy of the store contents, the input to the
// layout engine.
type Snapshot struct {
	Sections   []Section
	Categories []Category
}

// Category looks up a palette entry by value key.
func (s Snapshot) Category(value string) (Category, bool) {
	for _, c := range s.Categories {
		if c.Value == value {
			return c, true
		}
	}
	return Category{}, false
}

// Hash returns a stable content hash of the snapshot, used as the artifact
// cache key.
func (s Snapshot) Hash() string {
	data, _ := json.Marshal(struct {
		Sections   []Section  `json:"sections"`
		Categories []Category `json:"categories"`
	}{s.Sections, s.Categories})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ReadDocument loads a venue document from path, decoding TOML for .toml
// files and JSON otherwise.
func ReadDocument(path string) (*Document, error) {
	if err := errors.ValidateDocumentPath(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeDocumentNotFound, "document %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read document %s", path)
	}

	var doc Document
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &doc)
	} else {
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode document %s", path)
	}

	doc.normalize()
	return &doc, nil
}

// WriteJSON encodes the document as indented JSON.
func (d *Document) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return nil
}

// normalize fills defaults for missing fields after decoding.
func (d *Document) normalize() {
	if d.Canvas.Width <= 0 {
		d.Canvas.Width = DefaultCanvasWidth
	}
	if d.Canvas.Height <= 0 {
		d.Canvas.Height = DefaultCanvasHeight
	}
	for i := range d.Sections {
		sec := &d.Sections[i]
		for j := range sec.Rows {
			if sec.Rows[j].Number == 0 {
				sec.Rows[j].Number = j + 1
			}
		}
	}
}

// DocumentFromSnapshot builds a document around a snapshot.
func DocumentFromSnapshot(name string, canvas Canvas, snap Snapshot) *Document {
	doc := &Document{
		Name:       name,
		Canvas:     canvas,
		Sections:   snap.Sections,
		Categories: snap.Categories,
	}
	doc.normalize()
	return doc
}
