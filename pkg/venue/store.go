package venue

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/hallplan/hallplan/pkg/errors"
	"github.com/hallplan/hallplan/pkg/geometry"
)

// Store owns the ordered section list and the category palette. All
// mutations go through it; readers take [Store.Snapshot] copies.
//
// Category removal is deferred: deleting the last section referencing a
// category marks it for collection, and the mark is applied either by an
// explicit [Store.Sweep] (the re-layout scheduler calls it once per tick)
// or at the start of the next mutating operation, whichever comes first.
type Store struct {
	mu         sync.RWMutex
	sections   []*Section
	byID       map[string]*Section
	children   map[string][]string // balcony id → child section ids
	categories []Category
	counters   map[Type]int
	gcPending  map[string]struct{}
	newID      func() string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithIDFunc overrides the section id generator. Used by tests that need
// deterministic identifiers; production stores use UUIDs.
func WithIDFunc(fn func() string) StoreOption {
	return func(s *Store) { s.newID = fn }
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		byID:      make(map[string]*Section),
		children:  make(map[string][]string),
		counters:  make(map[Type]int),
		gcPending: make(map[string]struct{}),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddSection creates a section of the given type with per-type defaults, a
// sequential label ("ROWS 2" is the second ROWS section ever created), and
// a derived category for category-bearing types.
//
// Adding a second stage is rejected with ErrCodeStageExists; the store is
// left untouched.
func (s *Store) AddSection(t Type) (*Section, error) {
	if !t.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidSection, "unknown section type: %s", t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	if t == TypeStage && s.stageLocked() != nil {
		return nil, errors.New(errors.ErrCodeStageExists, "a stage already exists")
	}

	s.counters[t]++
	sec := &Section{
		ID:    s.newID(),
		Type:  t,
		Label: fmt.Sprintf("%s %d", displayName[t], s.counters[t]),
	}
	applyDefaults(sec)

	if t.HasCategory() {
		sec.Category = s.ensureCategoryLocked(sec.Label)
		sec.Color = s.categoryColorLocked(sec.Category)
	}

	s.sections = append(s.sections, sec)
	s.byID[sec.ID] = sec
	return sec.Clone(), nil
}

// Replace performs a full section replacement, used after modal-driven
// configuration edits. A previously dragged position survives the replace
// unless the replacement explicitly carries one, so a settings edit never
// silently resets a placed section.
//
// Changing a balcony's kind to or from tables/sofas reconciles its child
// sections against ChildCount.
func (s *Store) Replace(sec Section) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	old, ok := s.byID[sec.ID]
	if !ok {
		return errors.New(errors.ErrCodeSectionNotFound, "section %s not found", sec.ID)
	}
	if sec.Type != old.Type {
		return errors.New(errors.ErrCodeInvalidSection, "section type is immutable")
	}
	if err := errors.ValidateLabel(sec.Label); err != nil {
		return err
	}
	if err := errors.ValidateColor(sec.Color); err != nil {
		return err
	}

	next := sec.Clone()
	if next.Position == nil {
		next.Position = old.Position
	}
	next.Category = old.Category
	next.BalconyPos = old.BalconyPos
	next.BalconyID = old.BalconyID

	*old = *next
	if old.Type == TypeBalcony {
		s.reconcileBalconyChildrenLocked(old)
	}
	return nil
}

// Patch is a partial section update issued by the drag controller on
// commit. Nil fields are left unchanged.
type Patch struct {
	Position   *geometry.Point
	BalconyPos *BalconyPosition
}

// Apply applies a partial patch to a section. Committing a balcony
// position also relabels the balcony deterministically ("BALCONY L 1" for
// the first left balcony) and swaps its derived category; resetting the
// position to pending keeps the label.
func (s *Store) Apply(id string, p Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	sec, ok := s.byID[id]
	if !ok {
		return errors.New(errors.ErrCodeSectionNotFound, "section %s not found", id)
	}

	if p.Position != nil {
		pos := *p.Position
		sec.Position = &pos
	}
	if p.BalconyPos != nil {
		if sec.Type != TypeBalcony {
			return errors.New(errors.ErrCodeInvalidSection, "section %s is not a balcony", id)
		}
		s.setBalconyPositionLocked(sec, *p.BalconyPos)
	}
	return nil
}

// ResetPosition clears a section's dragged position, returning it to
// percent/default placement. For balconies it also reverts the side to
// pending, which is the reject path after an invalid drag.
func (s *Store) ResetPosition(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec, ok := s.byID[id]
	if !ok {
		return errors.New(errors.ErrCodeSectionNotFound, "section %s not found", id)
	}
	sec.Position = nil
	if sec.Type == TypeBalcony {
		sec.BalconyPos = BalconyPending
	}
	return nil
}

// DeleteSection removes a section, cascades to any children owned via
// BalconyID, and marks now-unreferenced categories for deferred
// collection.
func (s *Store) DeleteSection(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	if _, ok := s.byID[id]; !ok {
		return errors.New(errors.ErrCodeSectionNotFound, "section %s not found", id)
	}

	doomed := append([]string{id}, s.children[id]...)
	for _, victim := range doomed {
		sec, ok := s.byID[victim]
		if !ok {
			continue
		}
		if sec.Category != "" {
			s.gcPending[sec.Category] = struct{}{}
		}
		if sec.BalconyID != "" {
			s.children[sec.BalconyID] = slices.DeleteFunc(s.children[sec.BalconyID],
				func(x string) bool { return x == victim })
		}
		delete(s.byID, victim)
		s.sections = slices.DeleteFunc(s.sections, func(x *Section) bool { return x.ID == victim })
	}
	delete(s.children, id)
	return nil
}

// AddRow appends a row to a ROWS section, matching the widest existing row.
func (s *Store) AddRow(sectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec, ok := s.byID[sectionID]
	if !ok || sec.Type != TypeRows {
		return errors.New(errors.ErrCodeSectionNotFound, "rows section %s not found", sectionID)
	}
	seats := DefaultRowSeats
	for _, r := range sec.Rows {
		if r.Seats > seats {
			seats = r.Seats
		}
	}
	sec.Rows = append(sec.Rows, Row{Number: len(sec.Rows) + 1, Seats: seats})
	return nil
}

// DeleteRow removes the row at index from a ROWS section and renumbers the
// remainder.
func (s *Store) DeleteRow(sectionID string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec, ok := s.byID[sectionID]
	if !ok || sec.Type != TypeRows {
		return errors.New(errors.ErrCodeSectionNotFound, "rows section %s not found", sectionID)
	}
	if index < 0 || index >= len(sec.Rows) {
		return errors.New(errors.ErrCodeInvalidInput, "row index %d out of range", index)
	}
	sec.Rows = slices.Delete(sec.Rows, index, index+1)
	for i := range sec.Rows {
		sec.Rows[i].Number = i + 1
	}
	return nil
}

// Section returns a copy of the section with the given id.
func (s *Store) Section(id string) (*Section, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sec, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return sec.Clone(), true
}

// Children returns the ids of the table/sofa sections owned by a balcony.
func (s *Store) Children(balconyID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.children[balconyID])
}

// Sweep applies pending category removals. A category survives the sweep
// if any live section still references it.
func (s *Store) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
}

// Snapshot returns a deep copy of the current model for layout and
// serialization. The copy is safe to read from any goroutine.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Sections:   make([]Section, len(s.sections)),
		Categories: slices.Clone(s.categories),
	}
	for i, sec := range s.sections {
		snap.Sections[i] = *sec.Clone()
	}
	return snap
}

// Load replaces the store contents with a document's sections and
// categories, rebuilding the ownership index and the label counters. Used
// when opening an existing venue.
func (s *Store) Load(doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[string]*Section, len(doc.Sections))
	children := make(map[string][]string)
	counters := make(map[Type]int)
	var sections []*Section
	stageSeen := false

	for i := range doc.Sections {
		sec := doc.Sections[i].Clone()
		if !sec.Type.Valid() {
			return errors.New(errors.ErrCodeInvalidDocument, "section %q: unknown type %q", sec.ID, sec.Type)
		}
		if sec.Type == TypeStage {
			if stageSeen {
				return errors.New(errors.ErrCodeInvalidDocument, "document contains more than one stage")
			}
			stageSeen = true
		}
		if sec.ID == "" {
			sec.ID = s.newID()
		}
		if _, dup := byID[sec.ID]; dup {
			return errors.New(errors.ErrCodeInvalidDocument, "duplicate section id %q", sec.ID)
		}
		byID[sec.ID] = sec
		sections = append(sections, sec)
		counters[sec.Type]++
		if sec.BalconyID != "" {
			children[sec.BalconyID] = append(children[sec.BalconyID], sec.ID)
		}
	}

	for id, kids := range children {
		parent, ok := byID[id]
		if !ok || parent.Type != TypeBalcony {
			return errors.New(errors.ErrCodeInvalidDocument, "sections %v reference missing balcony %q", kids, id)
		}
	}

	s.sections = sections
	s.byID = byID
	s.children = children
	s.counters = counters
	s.categories = slices.Clone(doc.Categories)
	s.gcPending = make(map[string]struct{})
	return nil
}

// ---------------------------------------------------------------------------
// internals (callers hold s.mu)

func (s *Store) stageLocked() *Section {
	for _, sec := range s.sections {
		if sec.Type == TypeStage {
			return sec
		}
	}
	return nil
}

func (s *Store) sweepLocked() {
	if len(s.gcPending) == 0 {
		return
	}
	referenced := make(map[string]struct{})
	for _, sec := range s.sections {
		if sec.Category != "" {
			referenced[sec.Category] = struct{}{}
		}
	}
	for slug := range s.gcPending {
		if _, live := referenced[slug]; !live {
			s.categories = slices.DeleteFunc(s.categories, func(c Category) bool { return c.Value == slug })
		}
	}
	s.gcPending = make(map[string]struct{})
}

// ensureCategoryLocked derives a slug from label and inserts it into the
// palette if absent, returning the slug.
func (s *Store) ensureCategoryLocked(label string) string {
	slug := DeriveSlug(label)
	for _, c := range s.categories {
		if c.Value == slug {
			return slug
		}
	}
	s.categories = append(s.categories, Category{
		Value: slug,
		Label: label,
		Color: palette[len(s.categories)%len(palette)],
	})
	return slug
}

func (s *Store) categoryColorLocked(slug string) string {
	for _, c := range s.categories {
		if c.Value == slug {
			return c.Color
		}
	}
	return ""
}

// setBalconyPositionLocked commits or clears a balcony side. Committing a
// side relabels the balcony as "BALCONY <side> <n>" where n counts
// balconies already on that side, and replaces its derived category.
func (s *Store) setBalconyPositionLocked(sec *Section, pos BalconyPosition) {
	if pos == BalconyPending {
		sec.BalconyPos = BalconyPending
		sec.Position = nil
		return
	}

	n := 1
	for _, other := range s.sections {
		if other.ID != sec.ID && other.Type == TypeBalcony && other.BalconyPos == pos {
			n++
		}
	}

	if sec.Category != "" {
		s.gcPending[sec.Category] = struct{}{}
	}
	sec.BalconyPos = pos
	sec.Label = fmt.Sprintf("BALCONY %s %d", pos.Short(), n)
	sec.Category = s.ensureCategoryLocked(sec.Label)
	sec.Color = s.categoryColorLocked(sec.Category)
}

// spawnBalconyChildrenLocked creates the child sections a tables/sofas
// balcony starts with.
func (s *Store) spawnBalconyChildrenLocked(parent *Section) {
	childType := TypeTable
	if parent.BalconyKind == BalconySofas {
		childType = TypeSofa
	}
	if parent.ChildCount <= 0 {
		parent.ChildCount = 4
	}
	for i := 0; i < parent.ChildCount; i++ {
		s.counters[childType]++
		child := &Section{
			ID:        s.newID(),
			Type:      childType,
			Label:     fmt.Sprintf("%s %d", displayName[childType], s.counters[childType]),
			BalconyID: parent.ID,
			Category:  parent.Category,
			Color:     parent.Color,
		}
		applyDefaults(child)
		child.BalconyID = parent.ID // applyDefaults does not touch it, keep explicit
		s.sections = append(s.sections, child)
		s.byID[child.ID] = child
		s.children[parent.ID] = append(s.children[parent.ID], child.ID)
	}
}

// reconcileBalconyChildrenLocked grows or shrinks a balcony's child list
// to match ChildCount after a configuration edit.
func (s *Store) reconcileBalconyChildrenLocked(parent *Section) {
	if parent.BalconyKind != BalconyTables && parent.BalconyKind != BalconySofas {
		for _, id := range s.children[parent.ID] {
			if child, ok := s.byID[id]; ok {
				if child.Category != "" {
					s.gcPending[child.Category] = struct{}{}
				}
				delete(s.byID, id)
				s.sections = slices.DeleteFunc(s.sections, func(x *Section) bool { return x.ID == id })
			}
		}
		delete(s.children, parent.ID)
		return
	}

	childType := TypeTable
	if parent.BalconyKind == BalconySofas {
		childType = TypeSofa
	}

	// Switching tables↔sofas drops the old children entirely.
	kids := s.children[parent.ID]
	kept := kids[:0]
	for _, id := range kids {
		child, ok := s.byID[id]
		if ok && child.Type == childType {
			kept = append(kept, id)
			continue
		}
		delete(s.byID, id)
		s.sections = slices.DeleteFunc(s.sections, func(x *Section) bool { return x.ID == id })
	}
	kids = kept

	want := parent.ChildCount
	if want <= 0 {
		want = 4
		parent.ChildCount = want
	}

	for len(kids) > want {
		last := kids[len(kids)-1]
		kids = kids[:len(kids)-1]
		delete(s.byID, last)
		s.sections = slices.DeleteFunc(s.sections, func(x *Section) bool { return x.ID == last })
	}
	s.children[parent.ID] = kids

	grow := want - len(kids)
	if grow > 0 {
		saved := parent.ChildCount
		parent.ChildCount = grow
		s.spawnBalconyChildrenLocked(parent)
		parent.ChildCount = saved
	}
}
