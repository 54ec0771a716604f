package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/phanxgames/tether"
)

func newTestModel(t *testing.T) (*Model, *tether.Store) {
	t.Helper()
	s := tether.NewStore(tether.StoreConfig{})
	m, err := New(s, DefaultWidgets(80, 24), 80, 24)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m, s
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion}
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInitReturnsTickCmd(t *testing.T) {
	m, _ := newTestModel(t)
	if m.Init() == nil {
		t.Fatal("Init() returned nil, expected a tick command")
	}
}

func TestHoverShowsMeasuredTip(t *testing.T) {
	m, s := newTestModel(t)
	m.Update(motion(3, 1))

	if s.State("save") != tether.StateVisible {
		t.Fatalf("state = %v, want visible", s.State("save"))
	}
	src, _ := s.Source("save")
	// The tail inset keeps the tip corner 4 cells from the box edge.
	want := tether.Rect{X: 6, Y: 2, Width: 27, Height: 3}
	if got := src.Location(); got != want {
		t.Errorf("location = %v, want %v", got, want)
	}
	view := m.View()
	if !strings.Contains(view, "Writes the file to disk") {
		t.Errorf("tip text missing from view:\n%s", view)
	}

	m.Update(motion(40, 20))
	if s.State("save") != tether.StateHidden {
		t.Errorf("state after leaving = %v", s.State("save"))
	}
}

func TestDelayedTipShowsAfterTicks(t *testing.T) {
	m, s := newTestModel(t)
	m.Update(motion(3, 5))
	if s.State("open") != tether.StatePendingShow {
		t.Fatalf("state = %v, want pending-show", s.State("open"))
	}
	for i := 0; i < 8; i++ {
		_, cmd := m.Update(tickMsg{})
		if cmd == nil {
			t.Fatal("tick did not schedule the next tick")
		}
	}
	if s.State("open") != tether.StateVisible {
		t.Errorf("state after 400ms = %v, want visible", s.State("open"))
	}
}

func TestFlipNearRightEdge(t *testing.T) {
	m, s := newTestModel(t)
	m.Update(motion(68, 1))
	src, _ := s.Source("help")
	if src.Corner() != tether.TopRight {
		t.Errorf("corner = %v, want top-right", src.Corner())
	}
	if loc := src.Location(); loc.X+loc.Width > 80 {
		t.Errorf("tip overflows the screen: %v", loc)
	}
}

func TestPinAndDrag(t *testing.T) {
	m, s := newTestModel(t)
	m.Update(motion(3, 1))
	m.Update(key("p"))
	if s.State("save") != tether.StatePinnedVisible {
		t.Fatalf("state = %v, want pinned", s.State("save"))
	}

	m.Update(press(12, 3))
	m.Update(motion(22, 3))
	m.Update(release(22, 3))

	tips := s.StoredTips()
	if len(tips) != 1 || tips[0].Location != (tether.Vec2{X: 16, Y: 2}) {
		t.Fatalf("stored tips = %+v", tips)
	}
	if s.State("save") != tether.StatePinnedVisible {
		t.Errorf("drag changed pin state: %v", s.State("save"))
	}
}

func TestClickUnpins(t *testing.T) {
	m, s := newTestModel(t)
	m.Update(motion(3, 1))
	m.Update(key("p"))
	m.Update(press(12, 3))
	m.Update(release(12, 3))
	if len(s.StoredTips()) != 0 {
		t.Errorf("click on pinned tip did not unpin")
	}
}

func TestEscUnpinsAll(t *testing.T) {
	m, s := newTestModel(t)
	m.Update(motion(3, 1))
	m.Update(key("p"))
	m.Update(motion(3, 5))
	m.Update(key("p"))
	if len(s.StoredTips()) != 2 {
		t.Fatalf("pinned = %d, want 2", len(s.StoredTips()))
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if len(s.StoredTips()) != 0 {
		t.Errorf("pinned after esc = %d", len(s.StoredTips()))
	}
}

func TestKeyboardCursor(t *testing.T) {
	m, s := newTestModel(t)
	m.Update(motion(1, 1))
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.hover != "save" || s.State("save") != tether.StateVisible {
		t.Errorf("hover = %q, state = %v", m.hover, s.State("save"))
	}
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.cursor.X != 0 {
		t.Errorf("cursor not clamped: %v", m.cursor)
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestViewSize(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	lines := strings.Split(m.View(), "\n")
	if len(lines) != 10 {
		t.Errorf("view lines = %d, want 10", len(lines))
	}
	m.Update(tea.WindowSizeMsg{Width: 0, Height: 0})
	if m.View() != "" {
		t.Error("empty terminal should render nothing")
	}
}

func TestClose(t *testing.T) {
	m, s := newTestModel(t)
	m.Close()
	if len(s.IDs()) != 0 {
		t.Errorf("records left after Close: %v", s.IDs())
	}
}
