// Package tui is an interactive terminal demo of tether: widgets drawn in
// terminal cells show tips on hover, tips can be pinned and dragged with
// the mouse, and pinned tips survive restarts through a persist backend.
package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/phanxgames/tether"
)

// Frame is the tick interval driving the store clock and fades.
const Frame = 50 * time.Millisecond

const tipRefSuffix = "#tip"

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(Frame, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the bubbletea model of the demo.
type Model struct {
	store    *tether.Store
	widgets  []Widget
	handles  map[string]*tether.Handle
	observer *tether.ResizeObserver
	watches  []*tether.GeometryWatch
	fader    *tether.Fader
	drag     *tether.Dragger

	width, height int
	cursor        tether.Vec2
	hover         string
	pressed       string
}

// New registers widgets with s and returns the demo model. The store's host
// is replaced with the demo screen.
func New(s *tether.Store, widgets []Widget, width, height int) (*Model, error) {
	m := &Model{
		store:   s,
		widgets: widgets,
		handles: make(map[string]*tether.Handle, len(widgets)),
		width:   width,
		height:  height,
		fader:   tether.NewFader(s),
		drag:    tether.NewDragger(s),
	}
	s.SetHost(tether.HostFunc(m.bounds))
	m.observer = tether.NewResizeObserver(tether.MeasurerFunc(m.measure))
	for _, w := range widgets {
		h, err := s.RegisterOrShare(w.ID, w.Config)
		if err != nil {
			return nil, fmt.Errorf("widget %q: %w", w.ID, err)
		}
		m.handles[w.ID] = h
		m.watches = append(m.watches, tether.WatchGeometry(s, w.ID, w.ID+tipRefSuffix, m.observer, tether.Size{}))
	}
	return m, nil
}

// Close releases every widget's share of the store.
func (m *Model) Close() {
	for _, w := range m.watches {
		w.Stop()
	}
	m.fader.Close()
	for id, h := range m.handles {
		m.report("release", id, h.Release())
	}
}

// report logs an input event the store refused.
func (m *Model) report(op, id string, err error) {
	if err != nil {
		m.store.Logger().Debug("input dropped", "op", op, "id", id, "err", err)
	}
}

func (m *Model) bounds(ref string) (tether.Rect, bool) {
	if ref == "" {
		return tether.Rect{Width: float64(m.width), Height: float64(m.height - 1)}, true
	}
	if w, ok := m.widget(ref); ok {
		return w.Bounds, true
	}
	return tether.Rect{}, false
}

func (m *Model) measure(ref string) (tether.Measurement, bool) {
	id, ok := strings.CutSuffix(ref, tipRefSuffix)
	if !ok {
		return tether.Measurement{}, false
	}
	w, ok := m.widget(id)
	if !ok {
		return tether.Measurement{}, false
	}
	box := tipBox.Render(w.Tip)
	return tether.Measurement{Size: tether.Size{
		Width:  float64(lipgloss.Width(box)),
		Height: float64(lipgloss.Height(box)),
	}}, true
}

func (m *Model) widget(id string) (Widget, bool) {
	i := slices.IndexFunc(m.widgets, func(w Widget) bool { return w.ID == id })
	if i < 0 {
		return Widget{}, false
	}
	return m.widgets[i], true
}

func (m *Model) widgetAt(p tether.Vec2) string {
	for _, w := range m.widgets {
		if w.Bounds.Contains(p.X, p.Y) {
			return w.ID
		}
	}
	return ""
}

// tipAt returns the topmost laid-out tip under p.
func (m *Model) tipAt(p tether.Vec2) string {
	views := m.store.Visible()
	for i := len(views) - 1; i >= 0; i-- {
		v := views[i]
		if v.LaidOut && v.Location.Contains(p.X, p.Y) {
			return v.ID
		}
	}
	return ""
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return tickCmd() }

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			m.pointer(m.cursor.Add(tether.Vec2{Y: -1}))
		case "down", "j":
			m.pointer(m.cursor.Add(tether.Vec2{Y: 1}))
		case "left", "h":
			m.pointer(m.cursor.Add(tether.Vec2{X: -1}))
		case "right", "l":
			m.pointer(m.cursor.Add(tether.Vec2{X: 1}))
		case "p", " ":
			if m.hover != "" {
				m.report("pin", m.hover, m.store.TogglePin(m.hover))
			}
		case "esc":
			m.unpinAll()
		}
	case tea.MouseMsg:
		m.mouse(msg)
	case tickMsg:
		m.store.Advance(Frame)
		m.fader.Update(float32(Frame.Seconds()))
		return m, tickCmd()
	}
	return m, nil
}

func (m *Model) mouse(msg tea.MouseMsg) {
	p := tether.Vec2{X: float64(msg.X), Y: float64(msg.Y)}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if id := m.tipAt(p); id != "" && m.drag.Press(id, p) == nil {
			m.pressed = id
		}
	case tea.MouseActionMotion:
		if m.pressed != "" {
			m.report("drag", m.pressed, m.drag.Motion(p))
			m.cursor = p
			return
		}
		m.pointer(p)
	case tea.MouseActionRelease:
		if m.pressed == "" {
			return
		}
		id := m.pressed
		m.pressed = ""
		if dragged, _ := m.drag.Release(p); !dragged {
			m.report("pin", id, m.store.TogglePin(id))
		}
		m.pointer(p)
	}
}

// pointer moves the cursor to p and posts hover transitions.
func (m *Model) pointer(p tether.Vec2) {
	p.X = max(0, min(p.X, float64(m.width-1)))
	p.Y = max(0, min(p.Y, float64(m.height-2)))
	m.cursor = p
	id := m.widgetAt(p)
	if id == m.hover {
		if id != "" {
			m.report("move", id, m.handles[id].MouseMove(p))
		}
		return
	}
	if m.hover != "" {
		m.report("out", m.hover, m.handles[m.hover].MouseOut())
	}
	if id != "" {
		m.report("over", id, m.handles[id].MouseOver(p))
	}
	m.hover = id
}

func (m *Model) unpinAll() {
	m.store.Batch(func() {
		for _, t := range m.store.StoredTips() {
			m.report("unpin", t.ID, m.store.Dispatch(tether.Event{Type: tether.EventPin, ID: t.ID, Pinned: false}))
		}
	})
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 1 {
		return ""
	}
	cv := newCanvas(m.width, m.height-1)
	for _, w := range m.widgets {
		c := classWidget
		if w.ID == m.hover {
			c = classHover
		}
		cv.paint(int(w.Bounds.X), int(w.Bounds.Y), "[ "+w.Label+" ]", c)
	}
	for _, g := range m.fader.Ghosts() {
		if w, ok := m.widget(g.ID); ok {
			cv.paint(int(g.Location.X), int(g.Location.Y), tipBox.Render(w.Tip), classGhost)
		}
	}
	for _, v := range m.store.Visible() {
		w, ok := m.widget(v.ID)
		if !ok || !v.LaidOut {
			continue
		}
		c := classTip
		if v.Pinned {
			c = classPinned
		} else if m.fader.Alpha(v.ID) < 0.5 {
			c = classGhost
		}
		cv.paint(int(v.Location.X), int(v.Location.Y), tipBox.Render(w.Tip), c)
	}
	cv.set(int(m.cursor.X), int(m.cursor.Y), '+', classCursor)

	state := "-"
	if m.hover != "" {
		state = m.store.State(m.hover).String()
	}
	status := fmt.Sprintf(" hover: %s (%s)  pinned: %d  arrows move  p pin  drag tips  esc unpin all  q quit",
		orDash(m.hover), state, len(m.store.StoredTips()))
	return cv.String() + "\n" + statusStyle.Render(status)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Run starts the demo on the terminal and blocks until it exits.
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
