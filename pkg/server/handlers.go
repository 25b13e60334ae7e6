package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hallplan/hallplan/pkg/cache"
	hallerrors "github.com/hallplan/hallplan/pkg/errors"
	"github.com/hallplan/hallplan/pkg/geometry"
	"github.com/hallplan/hallplan/pkg/render/floor"
	"github.com/hallplan/hallplan/pkg/venue"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch hallerrors.GetCode(err) {
	case hallerrors.ErrCodeSectionNotFound,
		hallerrors.ErrCodeCategoryNotFound,
		hallerrors.ErrCodeDocumentNotFound,
		hallerrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case hallerrors.ErrCodeInvalidInput,
		hallerrors.ErrCodeInvalidSection,
		hallerrors.ErrCodeInvalidDocument,
		hallerrors.ErrCodeInvalidFormat,
		hallerrors.ErrCodeInvalidPath,
		hallerrors.ErrCodeInvalidColor:
		status = http.StatusBadRequest
	case hallerrors.ErrCodeStageExists:
		status = http.StatusConflict
	case hallerrors.ErrCodeDragRejected:
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, errorResponse{
		Error: hallerrors.UserMessage(err),
		Code:  string(hallerrors.GetCode(err)),
	})
}

// ---------------------------------------------------------------------------
// Sections
// ---------------------------------------------------------------------------

func (s *Server) handleListSections(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.sections.Snapshot()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, snap.Sections)
}

type addSectionRequest struct {
	Type venue.Type `json:"type"`
}

func (s *Server) handleAddSection(w http.ResponseWriter, r *http.Request) {
	var req addSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, hallerrors.Wrap(hallerrors.ErrCodeInvalidInput, err, "decoding request"))
		return
	}

	s.mu.Lock()
	sec, err := s.sections.AddSection(req.Type)
	if err == nil {
		s.realizeLocked()
	}
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sec)
}

func (s *Server) handleGetSection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	sec, ok := s.sections.Section(id)
	s.mu.Unlock()
	if !ok {
		writeError(w, hallerrors.New(hallerrors.ErrCodeSectionNotFound, "section %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, sec)
}

func (s *Server) handleReplaceSection(w http.ResponseWriter, r *http.Request) {
	var sec venue.Section
	if err := json.NewDecoder(r.Body).Decode(&sec); err != nil {
		writeError(w, hallerrors.Wrap(hallerrors.ErrCodeInvalidInput, err, "decoding section"))
		return
	}
	sec.ID = chi.URLParam(r, "id")

	s.mu.Lock()
	err := s.sections.Replace(sec)
	var updated *venue.Section
	if err == nil {
		s.realizeLocked()
		updated, _ = s.sections.Section(sec.ID)
	}
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

type patchSectionRequest struct {
	Position   *geometry.Point        `json:"position,omitempty"`
	BalconyPos *venue.BalconyPosition `json:"balcony_position,omitempty"`
}

func (s *Server) handlePatchSection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req patchSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, hallerrors.Wrap(hallerrors.ErrCodeInvalidInput, err, "decoding patch"))
		return
	}

	s.mu.Lock()
	err := s.sections.Apply(id, venue.Patch{Position: req.Position, BalconyPos: req.BalconyPos})
	if err == nil {
		s.realizeLocked()
	}
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteSection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	err := s.sections.DeleteSection(id)
	if err == nil {
		s.realizeLocked()
	}
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddRow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	err := s.sections.AddRow(id)
	if err == nil {
		s.realizeLocked()
	}
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteRow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, hallerrors.Wrap(hallerrors.ErrCodeInvalidInput, err, "parsing row index"))
		return
	}

	s.mu.Lock()
	err = s.sections.DeleteRow(id, index)
	if err == nil {
		s.realizeLocked()
	}
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Categories
// ---------------------------------------------------------------------------

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.sections.Snapshot()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, snap.Categories)
}

// ---------------------------------------------------------------------------
// Gestures
// ---------------------------------------------------------------------------

type gestureRequest struct {
	Action    string  `json:"action"` // press, move, release, cancel
	SectionID string  `json:"section_id,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

type gestureResponse struct {
	Active    bool    `json:"active"`
	SectionID string  `json:"section_id,omitempty"`
	Dx        float64 `json:"dx,omitempty"`
	Dy        float64 `json:"dy,omitempty"`
	Clicked   bool    `json:"clicked,omitempty"`
	Committed bool    `json:"committed,omitempty"`
	Rejected  bool    `json:"rejected,omitempty"`
	Warning   string  `json:"warning,omitempty"`
}

func (s *Server) handleGesture(w http.ResponseWriter, r *http.Request) {
	var req gestureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, hallerrors.Wrap(hallerrors.ErrCodeInvalidInput, err, "decoding gesture"))
		return
	}
	at := geometry.Point{X: req.X, Y: req.Y}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch req.Action {
	case "press":
		center, ok := s.sectionCenterLocked(req.SectionID)
		if !ok {
			writeError(w, hallerrors.New(hallerrors.ErrCodeSectionNotFound, "section %s not found", req.SectionID))
			return
		}
		if err := s.ctrl.Begin(req.SectionID, at, center); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, gestureResponse{Active: true, SectionID: req.SectionID})

	case "move":
		tf, dragging := s.ctrl.Move(at)
		resp := gestureResponse{Active: s.ctrl.Active()}
		if dragging {
			resp.SectionID = tf.SectionID
			resp.Dx = tf.Dx
			resp.Dy = tf.Dy
		}
		writeJSON(w, http.StatusOK, resp)

	case "release":
		res := s.ctrl.End(at)
		s.realizeLocked()
		writeJSON(w, http.StatusOK, gestureResponse{
			SectionID: res.SectionID,
			Clicked:   res.Clicked,
			Committed: res.Committed,
			Rejected:  res.Rejected,
			Warning:   res.Warning,
		})

	case "cancel":
		s.ctrl.Cancel()
		s.realizeLocked()
		writeJSON(w, http.StatusOK, gestureResponse{})

	default:
		writeError(w, hallerrors.New(hallerrors.ErrCodeInvalidInput, "unknown gesture action %q", req.Action))
	}
}

// sectionCenterLocked derives a section's on-canvas center from the
// last realized command list.
func (s *Server) sectionCenterLocked(id string) (geometry.Point, bool) {
	var union geometry.Rect
	found := false
	for _, c := range s.latest {
		if c.SectionID != id || c.Overlay {
			continue
		}
		b := c.Bounds()
		if !found {
			union = b
			found = true
			continue
		}
		x1 := min(union.X, b.X)
		y1 := min(union.Y, b.Y)
		x2 := max(union.X+union.W, b.X+b.W)
		y2 := max(union.Y+union.H, b.Y+b.H)
		union = geometry.Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
	}
	if !found {
		return geometry.Point{}, false
	}
	return union.Center(), true
}

// ---------------------------------------------------------------------------
// Persistence and rendering
// ---------------------------------------------------------------------------

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.sections.Sweep()
	doc := venue.DocumentFromSnapshot(s.cfg.Document, s.cfg.Canvas, s.sections.Snapshot())
	s.mu.Unlock()

	if err := s.docs.Save(r.Context(), s.cfg.Document, doc); err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("saved document", "name", s.cfg.Document, "sections", len(doc.Sections))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenderSVG(w http.ResponseWriter, r *http.Request) {
	interactive := r.URL.Query().Get("interactive") == "1"

	s.mu.Lock()
	snap := s.sections.Snapshot()
	cmds := s.latest
	canvas := s.cfg.Canvas
	s.mu.Unlock()

	format := "svg"
	if interactive {
		format = "svg+interactive"
	}
	key := s.keyer.ArtifactKey(snap.Hash(), cache.ArtifactKeyOpts{
		Format: format,
		Width:  canvas.Width,
		Height: canvas.Height,
	})
	if data, hit, err := s.cache.Get(r.Context(), key); err == nil && hit {
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(data)
		return
	}

	var opts []floor.SVGOption
	if interactive {
		opts = append(opts, floor.WithInteraction())
	}
	data := floor.RenderSVG(cmds, canvas, opts...)
	_ = s.cache.Set(r.Context(), key, data, cache.TTLArtifact)

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(data)
}

func (s *Server) handleRenderJSON(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	cmds := s.latest
	canvas := s.cfg.Canvas
	s.mu.Unlock()

	data, err := floor.RenderJSON(cmds, canvas)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}
