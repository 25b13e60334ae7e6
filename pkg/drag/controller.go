// Package drag implements the interactive repositioning state machine.
//
// The controller never touches rendered primitives: while a gesture is in
// flight it produces a transient [Transform] the rendering surface applies
// to the dragged section's primitives only, and the canonical store is
// mutated exactly once, on release. Re-layout is suppressed while a
// gesture is active (see [Controller.Active]); pointer events for all
// other sections are inert for the duration, and that suppression is
// released on every exit path, including cancellation.
package drag

import (
	"time"

	"github.com/hallplan/hallplan/pkg/errors"
	"github.com/hallplan/hallplan/pkg/geometry"
	"github.com/hallplan/hallplan/pkg/venue"
)

// Gesture thresholds, in canvas units unless stated otherwise.
const (
	// SlopRadius is how far the pointer must travel before an armed
	// press becomes a drag rather than a click.
	SlopRadius = 4.0

	// Side-commit thresholds for balcony placement, measured from the
	// gesture origin. Fixed pixels, not canvas-relative: scaling them
	// with canvas size is an open product decision.
	HorizThreshold = 100.0
	VertThreshold  = 80.0

	// UpThreshold rejects a balcony drag whose dominant motion is toward
	// the stage.
	UpThreshold = 80.0

	// GraceWindow suspends click handling on a section right after a
	// rejected drag, so the same gesture cannot immediately reopen its
	// configuration menu.
	GraceWindow = 400 * time.Millisecond
)

// State is the controller phase.
type State int

// Controller states.
const (
	StateIdle State = iota
	StateArmed
	StateDragging
)

// Transform is the transient translation the surface applies to the
// in-flight section's primitives for visual feedback.
type Transform struct {
	SectionID string
	Dx, Dy    float64
}

// Result describes how a gesture ended.
type Result struct {
	SectionID string

	// Clicked is set when the pointer never left the slop radius; the
	// surface should open the selection menu instead.
	Clicked bool

	// Committed is set when the store accepted a new position.
	Committed bool

	// Rejected is set when the gesture was refused (balcony dragged
	// toward the stage). Warning carries the operator-facing message.
	Rejected bool
	Warning  string
}

// Controller drives one drag gesture at a time against a section store.
type Controller struct {
	store *venue.Store
	vp    geometry.Rect

	state   State
	section venue.Section
	origin  geometry.Point
	center  geometry.Point // section center at gesture start
	last    geometry.Point

	grace map[string]time.Time
	now   func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the time source, for tests exercising the grace
// window.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController creates a controller bound to a store and viewport.
func NewController(store *venue.Store, viewport geometry.Rect, opts ...Option) *Controller {
	c := &Controller{
		store: store,
		vp:    viewport,
		grace: make(map[string]time.Time),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Active reports whether a gesture is in flight. While true, the surface
// must keep other sections' hit layers inert and must not re-run layout.
func (c *Controller) Active() bool {
	return c.state != StateIdle
}

// ClickAllowed reports whether click handling on a section is currently
// allowed. It is false during another section's gesture and inside the
// grace window after a rejected drag.
func (c *Controller) ClickAllowed(sectionID string) bool {
	if c.Active() && c.section.ID != sectionID {
		return false
	}
	return c.now().After(c.grace[sectionID])
}

// Begin arms a gesture on a section. at is the pointer-down point and
// center the rendered center of the grabbed section. Stages are fixed and
// refuse the gesture; so does a second concurrent gesture.
func (c *Controller) Begin(sectionID string, at, center geometry.Point) error {
	if c.Active() {
		return errors.New(errors.ErrCodeDragRejected, "a gesture is already active")
	}
	sec, ok := c.store.Section(sectionID)
	if !ok {
		return errors.New(errors.ErrCodeSectionNotFound, "section %s not found", sectionID)
	}
	if sec.Type == venue.TypeStage {
		return errors.New(errors.ErrCodeDragRejected, "the stage cannot be moved")
	}

	c.state = StateArmed
	c.section = *sec
	c.origin = at
	c.center = center
	c.last = at
	return nil
}

// Move advances the gesture to a new pointer position and returns the
// overlay transform to apply to the dragged section. The second return is
// false while the pointer is still inside the slop radius.
func (c *Controller) Move(to geometry.Point) (Transform, bool) {
	if !c.Active() {
		return Transform{}, false
	}
	c.last = to
	if c.state == StateArmed {
		if geometry.Dist(c.origin, to) <= SlopRadius {
			return Transform{}, false
		}
		c.state = StateDragging
	}

	candidate := c.candidateCenter(to)
	return Transform{
		SectionID: c.section.ID,
		Dx:        candidate.X - c.center.X,
		Dy:        candidate.Y - c.center.Y,
	}, true
}

// End releases the gesture at the pointer-up point and commits or rejects
// the outcome synchronously. Suppression of other sections ends on every
// path out of here.
func (c *Controller) End(to geometry.Point) Result {
	if !c.Active() {
		return Result{}
	}
	defer c.reset()

	if c.state == StateArmed {
		return Result{SectionID: c.section.ID, Clicked: true}
	}
	if c.section.Type == venue.TypeBalcony {
		return c.endBalcony(to)
	}

	candidate := c.candidateCenter(to)
	_ = c.store.Apply(c.section.ID, venue.Patch{Position: &candidate})
	return Result{SectionID: c.section.ID, Committed: true}
}

// Cancel aborts the gesture without committing. It is safe to call on an
// idle controller, which makes it suitable for unconditional cleanup on
// surface teardown.
func (c *Controller) Cancel() {
	c.reset()
}

func (c *Controller) reset() {
	c.state = StateIdle
	c.section = venue.Section{}
}

// candidateCenter applies the per-type clamping and snapping rules to the
// would-be section center.
func (c *Controller) candidateCenter(to geometry.Point) geometry.Point {
	p := geometry.Point{
		X: c.center.X + to.X - c.origin.X,
		Y: c.center.Y + to.Y - c.origin.Y,
	}
	if c.section.Type == venue.TypeBar {
		p.X = geometry.Snap(p.X, geometry.DefaultGrid)
		p.Y = geometry.Snap(p.Y, geometry.DefaultGrid)
	}
	p.X = geometry.Clamp(p.X, c.vp.X, c.vp.X+c.vp.W)
	p.Y = geometry.Clamp(p.Y, c.vp.Y, c.vp.Y+c.vp.H)
	return p
}

// endBalcony decides a balcony's side from the gesture's total motion.
// Dominant upward motion past the threshold is invalid: the balcony
// reverts to pending, the operator gets a warning, and clicks on it are
// suspended for the grace window. Motion past no threshold leaves the
// placement unchanged.
func (c *Controller) endBalcony(to geometry.Point) Result {
	dx := to.X - c.origin.X
	dy := to.Y - c.origin.Y

	if -dy > UpThreshold && -dy > abs(dx) {
		_ = c.store.ResetPosition(c.section.ID)
		c.grace[c.section.ID] = c.now().Add(GraceWindow)
		return Result{
			SectionID: c.section.ID,
			Rejected:  true,
			Warning:   "balconies cannot be placed above the seating area",
		}
	}

	var pos venue.BalconyPosition
	switch {
	case dx < -HorizThreshold:
		pos = venue.BalconyLeft
	case dx > HorizThreshold:
		pos = venue.BalconyRight
	case dy > VertThreshold:
		pos = venue.BalconyMiddle
	default:
		// Not decisive: keep the current placement.
		return Result{SectionID: c.section.ID}
	}

	_ = c.store.Apply(c.section.ID, venue.Patch{BalconyPos: &pos})
	return Result{SectionID: c.section.ID, Committed: true}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
