package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hallplan/hallplan/pkg/store"
	"github.com/hallplan/hallplan/pkg/venue"
)

func newTestServer(t *testing.T) (*Server, store.DocumentStore) {
	t.Helper()
	ds, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	s, err := New(Config{Document: "hall"}, ds, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, ds
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r *strings.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = strings.NewReader(string(data))
	} else {
		r = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func addSection(t *testing.T, h http.Handler, typ venue.Type) venue.Section {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/sections", map[string]string{"type": string(typ)})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add %s: status %d: %s", typ, rec.Code, rec.Body)
	}
	var sec venue.Section
	if err := json.Unmarshal(rec.Body.Bytes(), &sec); err != nil {
		t.Fatalf("decode section: %v", err)
	}
	return sec
}

func TestSectionCRUD(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	stage := addSection(t, h, venue.TypeStage)
	if stage.Type != venue.TypeStage {
		t.Errorf("Type = %s, want stage", stage.Type)
	}

	// A second stage is refused.
	rec := doJSON(t, h, http.MethodPost, "/api/sections", map[string]string{"type": "stage"})
	if rec.Code != http.StatusConflict {
		t.Errorf("second stage: status %d, want 409", rec.Code)
	}

	rows := addSection(t, h, venue.TypeRows)
	if rows.Label != "ROWS 1" {
		t.Errorf("Label = %q, want ROWS 1", rows.Label)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/sections", nil)
	var list []venue.Section
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("sections = %d, want 2", len(list))
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/sections/"+rows.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete: status %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/sections/"+rows.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get deleted: status %d, want 404", rec.Code)
	}
}

func TestPatchSectionPosition(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	floor := addSection(t, h, venue.TypeDanceFloor)

	rec := doJSON(t, h, http.MethodPatch, "/api/sections/"+floor.ID,
		map[string]any{"position": map[string]float64{"x": 400, "y": 300}})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("patch: status %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/sections/"+floor.ID, nil)
	var got venue.Section
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Position == nil || got.Position.X != 400 || got.Position.Y != 300 {
		t.Errorf("Position = %+v, want (400,300)", got.Position)
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	addSection(t, h, venue.TypeRows)
	addSection(t, h, venue.TypeTable)

	rec := doJSON(t, h, http.MethodGet, "/api/categories", nil)
	var cats []venue.Category
	if err := json.Unmarshal(rec.Body.Bytes(), &cats); err != nil {
		t.Fatal(err)
	}
	if len(cats) != 2 {
		t.Errorf("categories = %d, want 2", len(cats))
	}
	for _, c := range cats {
		if c.Color == "" {
			t.Errorf("category %s has no color", c.Value)
		}
	}
}

func TestRenderSVGEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	addSection(t, h, venue.TypeStage)

	rec := doJSON(t, h, http.MethodGet, "/document.svg", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("render: status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("STAGE")) {
		t.Error("svg should contain the stage label")
	}

	// Interactive output embeds the hover script.
	rec = doJSON(t, h, http.MethodGet, "/document.svg?interactive=1", nil)
	if !bytes.Contains(rec.Body.Bytes(), []byte("<script")) {
		t.Error("interactive svg should embed a script")
	}
}

func TestGestureDragCommits(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	floor := addSection(t, h, venue.TypeDanceFloor)

	// Find the rendered center to press on.
	s.mu.Lock()
	center, ok := s.sectionCenterLocked(floor.ID)
	s.mu.Unlock()
	if !ok {
		t.Fatal("no rendered bounds for dance floor")
	}

	rec := doJSON(t, h, http.MethodPost, "/api/gestures",
		map[string]any{"action": "press", "section_id": floor.ID, "x": center.X, "y": center.Y})
	if rec.Code != http.StatusOK {
		t.Fatalf("press: status %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/gestures",
		map[string]any{"action": "move", "x": center.X + 50, "y": center.Y + 30})
	var moved gestureResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &moved); err != nil {
		t.Fatal(err)
	}
	if moved.Dx != 50 || moved.Dy != 30 {
		t.Errorf("transform = (%v,%v), want (50,30)", moved.Dx, moved.Dy)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/gestures",
		map[string]any{"action": "release", "x": center.X + 50, "y": center.Y + 30})
	var done gestureResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &done); err != nil {
		t.Fatal(err)
	}
	if !done.Committed {
		t.Errorf("release should commit: %+v", done)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/sections/"+floor.ID, nil)
	var got venue.Section
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Position == nil {
		t.Fatal("drag should store a position")
	}
	if got.Position.X != center.X+50 || got.Position.Y != center.Y+30 {
		t.Errorf("Position = %+v, want (%v,%v)", got.Position, center.X+50, center.Y+30)
	}
}

func TestGestureTapIsClick(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	floor := addSection(t, h, venue.TypeDanceFloor)
	s.mu.Lock()
	center, _ := s.sectionCenterLocked(floor.ID)
	s.mu.Unlock()

	doJSON(t, h, http.MethodPost, "/api/gestures",
		map[string]any{"action": "press", "section_id": floor.ID, "x": center.X, "y": center.Y})
	rec := doJSON(t, h, http.MethodPost, "/api/gestures",
		map[string]any{"action": "release", "x": center.X + 1, "y": center.Y})

	var done gestureResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &done); err != nil {
		t.Fatal(err)
	}
	if !done.Clicked || done.Committed {
		t.Errorf("tap should report a click, got %+v", done)
	}
}

func TestSaveAndReload(t *testing.T) {
	s, ds := newTestServer(t)
	h := s.Handler()

	addSection(t, h, venue.TypeStage)
	addSection(t, h, venue.TypeBar)

	rec := doJSON(t, h, http.MethodPost, "/api/save", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("save: status %d: %s", rec.Code, rec.Body)
	}

	doc, err := ds.Load(context.Background(), "hall")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Sections) != 2 {
		t.Errorf("saved sections = %d, want 2", len(doc.Sections))
	}

	// A new server over the same store resumes the session.
	s2, err := New(Config{Document: "hall"}, ds, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rec = doJSON(t, s2.Handler(), http.MethodGet, "/api/sections", nil)
	var list []venue.Section
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Errorf("reloaded sections = %d, want 2", len(list))
	}
}

func TestRowEndpoints(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	rows := addSection(t, h, venue.TypeRows)

	rec := doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/sections/%s/rows", rows.ID), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("add row: status %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/sections/"+rows.ID, nil)
	var got venue.Section
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Rows) != venue.DefaultRowCount+1 {
		t.Errorf("rows = %d, want %d", len(got.Rows), venue.DefaultRowCount+1)
	}

	rec = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/sections/%s/rows/0", rows.ID), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete row: status %d: %s", rec.Code, rec.Body)
	}
}
