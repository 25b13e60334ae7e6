package venue

import (
	"fmt"
	"testing"

	"github.com/hallplan/hallplan/pkg/errors"
	"github.com/hallplan/hallplan/pkg/geometry"
)

// newTestStore returns a store with deterministic ids sec-1, sec-2, ...
func newTestStore() *Store {
	n := 0
	return NewStore(WithIDFunc(func() string {
		n++
		return fmt.Sprintf("sec-%d", n)
	}))
}

func TestAddSectionLabelsAndCategories(t *testing.T) {
	s := newTestStore()

	r1, err := s.AddSection(TypeRows)
	if err != nil {
		t.Fatalf("AddSection: %v", err)
	}
	r2, err := s.AddSection(TypeRows)
	if err != nil {
		t.Fatalf("AddSection: %v", err)
	}

	if r1.Label != "ROWS 1" || r2.Label != "ROWS 2" {
		t.Errorf("labels = %q, %q, want ROWS 1, ROWS 2", r1.Label, r2.Label)
	}
	if r1.Category != "rows_1" || r2.Category != "rows_2" {
		t.Errorf("categories = %q, %q, want rows_1, rows_2", r1.Category, r2.Category)
	}

	// palette rotation
	if r1.Color != "#4e79a7" || r2.Color != "#f28e2b" {
		t.Errorf("colors = %q, %q", r1.Color, r2.Color)
	}

	snap := s.Snapshot()
	if len(snap.Categories) != 2 {
		t.Fatalf("len(Categories) = %d, want 2", len(snap.Categories))
	}
	if snap.Categories[0].Label != "ROWS 1" {
		t.Errorf("category label = %q, want ROWS 1", snap.Categories[0].Label)
	}
}

func TestAddSectionCountersSurviveDelete(t *testing.T) {
	s := newTestStore()

	r1, _ := s.AddSection(TypeRows)
	if err := s.DeleteSection(r1.ID); err != nil {
		t.Fatalf("DeleteSection: %v", err)
	}

	r2, _ := s.AddSection(TypeRows)
	if r2.Label != "ROWS 2" {
		t.Errorf("label after delete = %q, want ROWS 2", r2.Label)
	}
}

func TestAddSectionStageIsUnique(t *testing.T) {
	s := newTestStore()

	stage, err := s.AddSection(TypeStage)
	if err != nil {
		t.Fatalf("AddSection(stage): %v", err)
	}
	if stage.Category != "" {
		t.Errorf("stage category = %q, want empty", stage.Category)
	}
	if stage.Width != DefaultStageWidth || stage.Height != DefaultStageHeight {
		t.Errorf("stage size = %vx%v", stage.Width, stage.Height)
	}

	if _, err := s.AddSection(TypeStage); !errors.Is(err, errors.ErrCodeStageExists) {
		t.Errorf("second stage error = %v, want STAGE_EXISTS", err)
	}
	if len(s.Snapshot().Sections) != 1 {
		t.Error("rejected stage must leave the store untouched")
	}
}

func TestAddSectionUnknownType(t *testing.T) {
	s := newTestStore()
	if _, err := s.AddSection(Type("pit")); !errors.Is(err, errors.ErrCodeInvalidSection) {
		t.Errorf("error = %v, want INVALID_SECTION", err)
	}
}

func TestReplaceKeepsDerivedFields(t *testing.T) {
	s := newTestStore()
	sec, _ := s.AddSection(TypeRows)

	// simulate a committed drag
	if err := s.Apply(sec.ID, Patch{Position: &geometry.Point{X: 400, Y: 300}}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	edit := *sec
	edit.Label = "PARQUET"
	edit.Category = "hijacked"
	edit.Position = nil
	if err := s.Replace(edit); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	got, _ := s.Section(sec.ID)
	if got.Label != "PARQUET" {
		t.Errorf("Label = %q, want PARQUET", got.Label)
	}
	if got.Category != "rows_1" {
		t.Errorf("Category = %q, want rows_1 (category is store-managed)", got.Category)
	}
	if got.Position == nil || got.Position.X != 400 || got.Position.Y != 300 {
		t.Errorf("Position = %v, want dragged position to survive", got.Position)
	}
}

func TestReplaceRejectsTypeChange(t *testing.T) {
	s := newTestStore()
	sec, _ := s.AddSection(TypeBar)

	edit := *sec
	edit.Type = TypeStage
	if err := s.Replace(edit); !errors.Is(err, errors.ErrCodeInvalidSection) {
		t.Errorf("error = %v, want INVALID_SECTION", err)
	}
}

func TestReplaceValidatesLabelAndColor(t *testing.T) {
	s := newTestStore()
	sec, _ := s.AddSection(TypeTable)

	edit := *sec
	edit.Label = ""
	if err := s.Replace(edit); !errors.Is(err, errors.ErrCodeInvalidSection) {
		t.Errorf("empty label error = %v, want INVALID_SECTION", err)
	}

	edit = *sec
	edit.Color = "blue"
	if err := s.Replace(edit); !errors.Is(err, errors.ErrCodeInvalidColor) {
		t.Errorf("color error = %v, want INVALID_COLOR", err)
	}
}

func TestReplaceUnknownSection(t *testing.T) {
	s := newTestStore()
	err := s.Replace(Section{ID: "missing", Type: TypeBar, Label: "BAR 1"})
	if !errors.Is(err, errors.ErrCodeSectionNotFound) {
		t.Errorf("error = %v, want SECTION_NOT_FOUND", err)
	}
}

func TestBalconyTablesSpawnChildren(t *testing.T) {
	s := newTestStore()
	b, _ := s.AddSection(TypeBalcony)
	if b.BalconyKind != BalconySeats {
		t.Fatalf("new balcony kind = %q, want seats", b.BalconyKind)
	}

	edit := *b
	edit.BalconyKind = BalconyTables
	edit.ChildCount = 3
	if err := s.Replace(edit); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	kids := s.Children(b.ID)
	if len(kids) != 3 {
		t.Fatalf("len(children) = %d, want 3", len(kids))
	}
	for _, id := range kids {
		child, ok := s.Section(id)
		if !ok {
			t.Fatalf("child %s missing", id)
		}
		if child.Type != TypeTable {
			t.Errorf("child type = %q, want table", child.Type)
		}
		if child.BalconyID != b.ID {
			t.Errorf("child BalconyID = %q, want %q", child.BalconyID, b.ID)
		}
		if child.Category != b.Category {
			t.Errorf("child category = %q, want parent's %q", child.Category, b.Category)
		}
	}

	// shrinking drops children from the tail
	edit = *b
	edit.BalconyKind = BalconyTables
	edit.ChildCount = 1
	if err := s.Replace(edit); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if kids := s.Children(b.ID); len(kids) != 1 {
		t.Errorf("len(children) after shrink = %d, want 1", len(kids))
	}

	// reverting to seats removes them all
	edit = *b
	edit.BalconyKind = BalconySeats
	if err := s.Replace(edit); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if kids := s.Children(b.ID); len(kids) != 0 {
		t.Errorf("len(children) after revert = %d, want 0", len(kids))
	}
}

func TestBalconySwitchTablesToSofas(t *testing.T) {
	s := newTestStore()
	b, _ := s.AddSection(TypeBalcony)

	edit := *b
	edit.BalconyKind = BalconyTables
	edit.ChildCount = 2
	if err := s.Replace(edit); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	edit.BalconyKind = BalconySofas
	if err := s.Replace(edit); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	kids := s.Children(b.ID)
	if len(kids) != 2 {
		t.Fatalf("len(children) = %d, want 2", len(kids))
	}
	for _, id := range kids {
		child, _ := s.Section(id)
		if child.Type != TypeSofa {
			t.Errorf("child type = %q, want sofa", child.Type)
		}
	}
}

func TestApplyBalconyPositionRelabels(t *testing.T) {
	s := newTestStore()
	b, _ := s.AddSection(TypeBalcony)
	if b.Label != "BALCONY 1" || b.Category != "balcony_1" {
		t.Fatalf("initial label/category = %q/%q", b.Label, b.Category)
	}

	left := BalconyLeft
	if err := s.Apply(b.ID, Patch{BalconyPos: &left}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	got, _ := s.Section(b.ID)
	if got.Label != "BALCONY L 1" {
		t.Errorf("Label = %q, want BALCONY L 1", got.Label)
	}
	if got.Category != "balcony_l_1" {
		t.Errorf("Category = %q, want balcony_l_1", got.Category)
	}
	if got.BalconyPos != BalconyLeft {
		t.Errorf("BalconyPos = %q, want left", got.BalconyPos)
	}

	// old derived category lingers until a sweep
	if _, ok := s.Snapshot().Category("balcony_1"); !ok {
		t.Error("balcony_1 collected before sweep")
	}
	s.Sweep()
	if _, ok := s.Snapshot().Category("balcony_1"); ok {
		t.Error("balcony_1 survived the sweep")
	}

	// a second left balcony counts up
	b2, _ := s.AddSection(TypeBalcony)
	if err := s.Apply(b2.ID, Patch{BalconyPos: &left}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	got2, _ := s.Section(b2.ID)
	if got2.Label != "BALCONY L 2" {
		t.Errorf("second left balcony label = %q, want BALCONY L 2", got2.Label)
	}
}

func TestApplyBalconyPositionOnNonBalcony(t *testing.T) {
	s := newTestStore()
	sec, _ := s.AddSection(TypeBar)

	left := BalconyLeft
	err := s.Apply(sec.ID, Patch{BalconyPos: &left})
	if !errors.Is(err, errors.ErrCodeInvalidSection) {
		t.Errorf("error = %v, want INVALID_SECTION", err)
	}
}

func TestResetPosition(t *testing.T) {
	s := newTestStore()
	b, _ := s.AddSection(TypeBalcony)

	left := BalconyLeft
	if err := s.Apply(b.ID, Patch{
		Position:   &geometry.Point{X: 100, Y: 100},
		BalconyPos: &left,
	}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if err := s.ResetPosition(b.ID); err != nil {
		t.Fatalf("ResetPosition: %v", err)
	}
	got, _ := s.Section(b.ID)
	if got.Position != nil {
		t.Errorf("Position = %v, want nil", got.Position)
	}
	if got.BalconyPos != BalconyPending {
		t.Errorf("BalconyPos = %q, want pending", got.BalconyPos)
	}
	// the committed label sticks even after the reset
	if got.Label != "BALCONY L 1" {
		t.Errorf("Label = %q, want BALCONY L 1", got.Label)
	}
}

func TestDeleteSectionCascadesAndDefersGC(t *testing.T) {
	s := newTestStore()
	b, _ := s.AddSection(TypeBalcony)

	edit := *b
	edit.BalconyKind = BalconyTables
	edit.ChildCount = 2
	if err := s.Replace(edit); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	if err := s.DeleteSection(b.ID); err != nil {
		t.Fatalf("DeleteSection: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Sections) != 0 {
		t.Fatalf("len(Sections) = %d, want 0 (children cascade)", len(snap.Sections))
	}
	if _, ok := snap.Category("balcony_1"); !ok {
		t.Error("category collected before sweep")
	}

	s.Sweep()
	if len(s.Snapshot().Categories) != 0 {
		t.Error("category survived the sweep with no referencing section")
	}
}

func TestDeleteChildUpdatesOwnershipIndex(t *testing.T) {
	s := newTestStore()
	b, _ := s.AddSection(TypeBalcony)

	edit := *b
	edit.BalconyKind = BalconyTables
	edit.ChildCount = 2
	if err := s.Replace(edit); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	kids := s.Children(b.ID)
	if len(kids) != 2 {
		t.Fatalf("len(children) = %d, want 2", len(kids))
	}

	if err := s.DeleteSection(kids[0]); err != nil {
		t.Fatalf("DeleteSection: %v", err)
	}

	rest := s.Children(b.ID)
	if len(rest) != 1 || rest[0] != kids[1] {
		t.Errorf("Children after child delete = %v, want [%s]", rest, kids[1])
	}
	// the surviving id must still resolve
	if _, ok := s.Section(rest[0]); !ok {
		t.Errorf("surviving child %s not in the store", rest[0])
	}
}

func TestSweepKeepsReferencedCategories(t *testing.T) {
	s := newTestStore()
	doc := &Document{
		Canvas: Canvas{Width: 1000, Height: 800},
		Sections: []Section{
			{ID: "a", Type: TypeRows, Label: "ROWS 1", Category: "rows_1"},
			{ID: "b", Type: TypeRows, Label: "ROWS 2", Category: "rows_1"},
		},
		Categories: []Category{{Value: "rows_1", Label: "ROWS 1", Color: "#4e79a7"}},
	}
	if err := s.Load(doc); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := s.DeleteSection("a"); err != nil {
		t.Fatalf("DeleteSection: %v", err)
	}
	s.Sweep()

	if _, ok := s.Snapshot().Category("rows_1"); !ok {
		t.Error("rows_1 swept while still referenced by another section")
	}
}

func TestRowOperations(t *testing.T) {
	s := newTestStore()
	sec, _ := s.AddSection(TypeRows)
	if len(sec.Rows) != DefaultRowCount {
		t.Fatalf("default rows = %d, want %d", len(sec.Rows), DefaultRowCount)
	}

	// widen one row, then AddRow matches the widest
	edit := *sec
	edit.Rows = append([]Row(nil), sec.Rows...)
	edit.Rows[1].Seats = 14
	if err := s.Replace(edit); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if err := s.AddRow(sec.ID); err != nil {
		t.Fatalf("AddRow: %v", err)
	}

	got, _ := s.Section(sec.ID)
	if len(got.Rows) != DefaultRowCount+1 {
		t.Fatalf("rows after add = %d", len(got.Rows))
	}
	last := got.Rows[len(got.Rows)-1]
	if last.Seats != 14 {
		t.Errorf("new row seats = %d, want 14", last.Seats)
	}
	if last.Number != DefaultRowCount+1 {
		t.Errorf("new row number = %d, want %d", last.Number, DefaultRowCount+1)
	}

	// delete renumbers
	if err := s.DeleteRow(sec.ID, 0); err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}
	got, _ = s.Section(sec.ID)
	for i, r := range got.Rows {
		if r.Number != i+1 {
			t.Errorf("row %d number = %d, want %d", i, r.Number, i+1)
		}
	}

	if err := s.DeleteRow(sec.ID, 99); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("out of range error = %v, want INVALID_INPUT", err)
	}
	if err := s.AddRow("missing"); !errors.Is(err, errors.ErrCodeSectionNotFound) {
		t.Errorf("missing section error = %v, want SECTION_NOT_FOUND", err)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newTestStore()
	sec, _ := s.AddSection(TypeRows)

	snap := s.Snapshot()
	snap.Sections[0].Label = "MUTATED"
	snap.Sections[0].Rows[0].Seats = 999

	got, _ := s.Section(sec.ID)
	if got.Label == "MUTATED" || got.Rows[0].Seats == 999 {
		t.Error("snapshot mutation leaked into the store")
	}
}

func TestLoadValidates(t *testing.T) {
	canvas := Canvas{Width: 1000, Height: 800}
	tests := []struct {
		name string
		doc  *Document
	}{
		{
			name: "duplicate id",
			doc: &Document{Canvas: canvas, Sections: []Section{
				{ID: "a", Type: TypeBar, Label: "BAR 1"},
				{ID: "a", Type: TypeBar, Label: "BAR 2"},
			}},
		},
		{
			name: "two stages",
			doc: &Document{Canvas: canvas, Sections: []Section{
				{ID: "a", Type: TypeStage, Label: "STAGE 1"},
				{ID: "b", Type: TypeStage, Label: "STAGE 2"},
			}},
		},
		{
			name: "unknown type",
			doc: &Document{Canvas: canvas, Sections: []Section{
				{ID: "a", Type: Type("pit"), Label: "PIT"},
			}},
		},
		{
			name: "orphan balcony child",
			doc: &Document{Canvas: canvas, Sections: []Section{
				{ID: "a", Type: TypeTable, Label: "TABLE 1", BalconyID: "gone"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			if err := s.Load(tt.doc); !errors.Is(err, errors.ErrCodeInvalidDocument) {
				t.Errorf("Load error = %v, want INVALID_DOCUMENT", err)
			}
		})
	}
}

func TestLoadRebuildsCounters(t *testing.T) {
	s := newTestStore()
	doc := &Document{
		Canvas: Canvas{Width: 1000, Height: 800},
		Sections: []Section{
			{ID: "a", Type: TypeRows, Label: "ROWS 1", Category: "rows_1"},
			{ID: "b", Type: TypeRows, Label: "ROWS 2", Category: "rows_2"},
		},
		Categories: []Category{
			{Value: "rows_1", Label: "ROWS 1", Color: "#4e79a7"},
			{Value: "rows_2", Label: "ROWS 2", Color: "#f28e2b"},
		},
	}
	if err := s.Load(doc); err != nil {
		t.Fatalf("Load: %v", err)
	}

	sec, err := s.AddSection(TypeRows)
	if err != nil {
		t.Fatalf("AddSection: %v", err)
	}
	if sec.Label != "ROWS 3" {
		t.Errorf("label after load = %q, want ROWS 3", sec.Label)
	}
}

func TestLoadAssignsMissingIDs(t *testing.T) {
	s := newTestStore()
	doc := &Document{
		Canvas:   Canvas{Width: 1000, Height: 800},
		Sections: []Section{{Type: TypeBar, Label: "BAR 1"}},
	}
	if err := s.Load(doc); err != nil {
		t.Fatalf("Load: %v", err)
	}
	snap := s.Snapshot()
	if snap.Sections[0].ID == "" {
		t.Error("section id not assigned on load")
	}
}

func TestDeriveSlug(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"BALCONY L 1", "balcony_l_1"},
		{"ROWS 2", "rows_2"},
		{"VIP  Lounge", "vip_lounge"},
		{"  padded  ", "padded"},
		{"Café-Bar", "caf_bar"},
	}
	for _, tt := range tests {
		if got := DeriveSlug(tt.label); got != tt.want {
			t.Errorf("DeriveSlug(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}
