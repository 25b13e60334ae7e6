package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hallplan/hallplan/pkg/drag"
	"github.com/hallplan/hallplan/pkg/geometry"
	"github.com/hallplan/hallplan/pkg/layout"
	"github.com/hallplan/hallplan/pkg/pipeline"
	"github.com/hallplan/hallplan/pkg/store"
	"github.com/hallplan/hallplan/pkg/venue"
)

// chrome reserves rows for the title and the two status lines.
const chromeRows = 3

// editorMode selects what keyboard input drives.
type editorMode int

const (
	modeCanvas editorMode = iota
	modeSectionMenu
	modeAddMenu
)

// menuItem is one entry in the section or add menu.
type menuItem struct {
	label  string
	action func(*editorModel)
}

// realizedMsg carries a fresh layout from the scheduler.
type realizedMsg struct {
	cmds []layout.Command
	snap venue.Snapshot
}

// editorModel is the bubbletea model for the interactive editor.
type editorModel struct {
	name   string
	store  *venue.Store
	canvas venue.Canvas
	docs   store.DocumentStore

	ctrl    *drag.Controller
	sched   *pipeline.Scheduler
	updates chan realizedMsg

	cmds []layout.Command
	snap venue.Snapshot

	termW, termH int
	mode         editorMode
	menu         []menuItem
	menuTitle    string
	cursor       int
	menuSection  string

	preview  *drag.Transform
	warning  string
	status   string
	saveErr  error
	quitting bool
}

func newEditorModel(name string, vs *venue.Store, canvas venue.Canvas, docs store.DocumentStore) *editorModel {
	m := &editorModel{
		name:    name,
		store:   vs,
		canvas:  canvas,
		docs:    docs,
		updates: make(chan realizedMsg, 8),
		termW:   80,
		termH:   24,
	}
	vp := geometry.Rect{W: canvas.Width, H: canvas.Height}
	m.ctrl = drag.NewController(vs, vp)
	m.sched = pipeline.NewScheduler(vs, vp, func(cmds []layout.Command, snap venue.Snapshot) {
		offerLatest(m.updates, realizedMsg{cmds: cmds, snap: snap})
	})
	m.sched.Flush()
	return m
}

// offerLatest delivers msg to ch without blocking the scheduler goroutine.
// When the buffer is full the oldest queued realization is evicted, so the
// canvas always converges on the newest layout.
func offerLatest(ch chan realizedMsg, msg realizedMsg) {
	for {
		select {
		case ch <- msg:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Close stops the scheduler. Safe to call after the program exits.
func (m *editorModel) Close() {
	m.sched.Close()
}

func (m *editorModel) Init() tea.Cmd {
	return m.waitRealize()
}

func (m *editorModel) waitRealize() tea.Cmd {
	return func() tea.Msg {
		return <-m.updates
	}
}

func (m *editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case realizedMsg:
		m.cmds = msg.cmds
		m.snap = msg.snap
		return m, m.waitRealize()

	case tea.WindowSizeMsg:
		m.termW = msg.Width
		m.termH = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)
	}
	return m, nil
}

func (m *editorModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeCanvas {
		return m.updateMenuKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "s":
		m.save()
		return m, nil
	case "a":
		m.openAddMenu()
		return m, nil
	case "esc":
		if m.ctrl.Active() {
			m.ctrl.Cancel()
			m.preview = nil
			m.sched.Resume()
		}
		m.warning = ""
		return m, nil
	}
	return m, nil
}

func (m *editorModel) updateMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.mode = modeCanvas
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.menu)-1 {
			m.cursor++
		}
	case "enter":
		item := m.menu[m.cursor]
		m.mode = modeCanvas
		if item.action != nil {
			item.action(m)
		}
	}
	return m, nil
}

func (m *editorModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeCanvas {
		return m, nil
	}
	at := m.toCanvas(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		id, ok := m.hitTest(at)
		if !ok || !m.ctrl.ClickAllowed(id) {
			return m, nil
		}
		center, ok := m.sectionCenter(id)
		if !ok {
			return m, nil
		}
		if err := m.ctrl.Begin(id, at, center); err == nil {
			m.sched.Suppress()
			m.warning = ""
		}

	case tea.MouseActionMotion:
		if tf, dragging := m.ctrl.Move(at); dragging {
			m.preview = &tf
		}

	case tea.MouseActionRelease:
		if !m.ctrl.Active() {
			return m, nil
		}
		res := m.ctrl.End(at)
		m.preview = nil
		m.sched.Resume()
		switch {
		case res.Clicked:
			m.openSectionMenu(res.SectionID)
		case res.Committed, res.Rejected:
			m.sched.Invalidate()
		}
		if res.Warning != "" {
			m.warning = res.Warning
		}
	}
	return m, nil
}

// toCanvas maps a terminal cell to canvas coordinates.
func (m *editorModel) toCanvas(x, y int) geometry.Point {
	w, h := m.canvasCells()
	return geometry.Point{
		X: (float64(x) + 0.5) * m.canvas.Width / float64(w),
		Y: (float64(y-1) + 0.5) * m.canvas.Height / float64(h),
	}
}

func (m *editorModel) canvasCells() (int, int) {
	w := m.termW
	h := m.termH - chromeRows
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// hitTest finds the topmost section under the point. Overlay commands
// sit above everything and act as the per-section hit layer, so they
// are checked first, back to front; plain shapes are the fallback for
// sections without an overlay.
func (m *editorModel) hitTest(at geometry.Point) (string, bool) {
	for i := len(m.cmds) - 1; i >= 0; i-- {
		c := m.cmds[i]
		if !c.Overlay || c.SectionID == "" {
			continue
		}
		if c.Rect.Contains(at) {
			return c.SectionID, true
		}
	}
	for i := len(m.cmds) - 1; i >= 0; i-- {
		c := m.cmds[i]
		if c.Overlay || c.SectionID == "" {
			continue
		}
		if c.Bounds().Contains(at) {
			return c.SectionID, true
		}
	}
	return "", false
}

func (m *editorModel) sectionCenter(id string) (geometry.Point, bool) {
	var union geometry.Rect
	found := false
	for _, c := range m.cmds {
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
// Menus
// ---------------------------------------------------------------------------

func (m *editorModel) openSectionMenu(id string) {
	sec, ok := m.store.Section(id)
	if !ok {
		return
	}
	m.menuSection = id
	m.menuTitle = sec.Label
	m.cursor = 0
	m.menu = m.sectionMenuItems(sec)
	m.mode = modeSectionMenu
}

func (m *editorModel) sectionMenuItems(sec *venue.Section) []menuItem {
	id := sec.ID
	items := []menuItem{}

	if sec.Type == venue.TypeRows {
		items = append(items,
			menuItem{label: "Add row", action: func(m *editorModel) {
				m.mutate(func() error { return m.store.AddRow(id) })
			}},
			menuItem{label: "Delete last row", action: func(m *editorModel) {
				m.mutate(func() error {
					s, ok := m.store.Section(id)
					if !ok || len(s.Rows) == 0 {
						return nil
					}
					return m.store.DeleteRow(id, len(s.Rows)-1)
				})
			}},
		)
	}

	if sec.Type == venue.TypeBalcony {
		items = append(items, menuItem{label: "Cycle interior (seats/dancefloor/tables/sofas)", action: func(m *editorModel) {
			m.mutate(func() error {
				s, ok := m.store.Section(id)
				if !ok {
					return nil
				}
				next := *s
				switch s.BalconyKind {
				case venue.BalconySeats:
					next.BalconyKind = venue.BalconyDanceFloor
				case venue.BalconyDanceFloor:
					next.BalconyKind = venue.BalconyTables
				case venue.BalconyTables:
					next.BalconyKind = venue.BalconySofas
				default:
					next.BalconyKind = venue.BalconySeats
				}
				return m.store.Replace(next)
			})
		}})
	}

	if sec.Type == venue.TypeTable {
		items = append(items, menuItem{label: "Toggle shape (round/square)", action: func(m *editorModel) {
			m.mutate(func() error {
				s, ok := m.store.Section(id)
				if !ok {
					return nil
				}
				next := *s
				if s.Shape == venue.TableRound {
					next.Shape = venue.TableSquare
				} else {
					next.Shape = venue.TableRound
				}
				return m.store.Replace(next)
			})
		}})
	}

	if sec.Position != nil || sec.Type == venue.TypeBalcony {
		items = append(items, menuItem{label: "Reset position", action: func(m *editorModel) {
			m.mutate(func() error { return m.store.ResetPosition(id) })
		}})
	}

	items = append(items,
		menuItem{label: "Delete section", action: func(m *editorModel) {
			m.mutate(func() error { return m.store.DeleteSection(id) })
		}},
		menuItem{label: "Cancel"},
	)
	return items
}

func (m *editorModel) openAddMenu() {
	m.menuTitle = "Add section"
	m.cursor = 0
	m.menu = nil
	for _, t := range venue.Types {
		t := t
		m.menu = append(m.menu, menuItem{
			label: t.DisplayName(),
			action: func(m *editorModel) {
				m.mutate(func() error {
					_, err := m.store.AddSection(t)
					return err
				})
			},
		})
	}
	m.menu = append(m.menu, menuItem{label: "Cancel"})
	m.mode = modeAddMenu
}

// mutate runs a store operation, surfaces its error on the warning
// line, and schedules a re-layout.
func (m *editorModel) mutate(fn func() error) {
	if err := fn(); err != nil {
		m.warning = err.Error()
		return
	}
	m.warning = ""
	m.sched.Invalidate()
}

func (m *editorModel) save() {
	m.store.Sweep()
	doc := venue.DocumentFromSnapshot(m.name, m.canvas, m.store.Snapshot())
	if err := m.docs.Save(context.Background(), m.name, doc); err != nil {
		m.saveErr = err
		m.warning = err.Error()
		return
	}
	m.saveErr = nil
	m.status = fmt.Sprintf("Saved %q", m.name)
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

var (
	editorTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	editorHelpStyle  = lipgloss.NewStyle().Foreground(colorDim)
	editorWarnStyle  = lipgloss.NewStyle().Foreground(colorYellow)
	menuBoxStyle     = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

func (m *editorModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	title := fmt.Sprintf("%s · %d sections", m.name, len(m.snap.Sections))
	b.WriteString(editorTitleStyle.Render(title))
	b.WriteString("\n")

	if m.mode != modeCanvas {
		b.WriteString(m.menuView())
	} else {
		w, h := m.canvasCells()
		r := newRaster(geometry.Rect{W: m.canvas.Width, H: m.canvas.Height}, w, h)
		r.draw(m.cmds, m.preview)
		b.WriteString(r.String())
	}
	b.WriteString("\n")

	if m.warning != "" {
		b.WriteString(editorWarnStyle.Render("! " + m.warning))
	} else if m.status != "" {
		b.WriteString(editorHelpStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(editorHelpStyle.Render("drag to move · click for menu · a add · s save · q quit"))
	return b.String()
}

func (m *editorModel) menuView() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.menuTitle))
	b.WriteString("\n")
	b.WriteString(editorHelpStyle.Render("↑/↓ navigate  ⏎ select  esc close"))
	b.WriteString("\n\n")
	for i, item := range m.menu {
		cursor := "  "
		style := listNormalStyle
		if i == m.cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		b.WriteString(cursor + style.Render(item.label) + "\n")
	}
	return menuBoxStyle.Render(b.String())
}

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
)
