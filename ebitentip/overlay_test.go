package ebitentip

import (
	"bytes"
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/phanxgames/tether"
)

func testOverlay(t *testing.T) *Overlay {
	t.Helper()
	s := tether.NewStore(tether.StoreConfig{})
	o, err := New(s, []Region{{
		ID:     "btn",
		Label:  "Save",
		Tip:    "Save",
		Bounds: tether.Rect{X: 100, Y: 100, Width: 60, Height: 20},
		Config: tether.DefaultConfig(),
	}}, 640, 480)
	if err != nil {
		t.Fatal(err)
	}
	return o
}

// frame runs one frame on injected input only.
func frame(o *Overlay) {
	o.processInjectedInput()
	o.advance(1.0 / 60)
}

func drain(o *Overlay) {
	for o.Pending() > 0 {
		frame(o)
	}
}

// The "Save" tip measures 36x24 plus an 8 pixel margin for the tail, and
// attaches its top-left tail tip (13, 1) to the button's bottom-right
// corner (160, 120).
var hoverLocation = tether.Rect{X: 147, Y: 119, Width: 52, Height: 40}

func TestOverlay_Hover(t *testing.T) {
	o := testOverlay(t)
	o.InjectMove(110, 105)
	frame(o)

	if o.Hovered() != "btn" {
		t.Fatalf("Hovered = %q", o.Hovered())
	}
	views := o.Store().Visible()
	if len(views) != 1 || !views[0].LaidOut {
		t.Fatalf("visible = %+v", views)
	}
	if views[0].Location != hoverLocation {
		t.Errorf("location = %+v, want %+v", views[0].Location, hoverLocation)
	}

	o.InjectMove(10, 10)
	frame(o)
	if got := o.Store().State("btn"); got != tether.StateHidden {
		t.Errorf("state after leaving = %v", got)
	}
	if len(o.fader.Ghosts()) != 1 {
		t.Error("hidden tip not fading out")
	}
}

func TestOverlay_ClickTipPins(t *testing.T) {
	o := testOverlay(t)
	o.InjectMove(110, 105)
	o.InjectClick(160, 130)
	drain(o)

	if got := o.Store().State("btn"); got != tether.StatePinnedVisible {
		t.Fatalf("state = %v, want pinned", got)
	}
	tips := o.Store().StoredTips()
	if len(tips) != 1 || tips[0].Location != hoverLocation.Origin() {
		t.Errorf("stored = %+v", tips)
	}

	o.InjectClick(160, 130)
	drain(o)
	if got := o.Store().State("btn"); got == tether.StatePinnedVisible {
		t.Error("second click did not unpin")
	}
}

func TestOverlay_DragPinnedTip(t *testing.T) {
	o := testOverlay(t)
	o.InjectMove(110, 105)
	o.InjectClick(160, 130)
	drain(o)

	var changes int
	o.Store().OnTipChange(func([]tether.StoredTip) { changes++ })
	o.InjectDrag(160, 130, 200, 150, 5)
	drain(o)

	if changes != 1 {
		t.Errorf("tip changes = %d, want 1", changes)
	}
	if got := o.Store().StoredTips()[0].Location; got != (tether.Vec2{X: 187, Y: 139}) {
		t.Errorf("stored location = %v, want (187, 139)", got)
	}
	if o.Store().State("btn") != tether.StatePinnedVisible {
		t.Error("drag unpinned the tip")
	}
}

func TestOverlay_ClickRegionPins(t *testing.T) {
	o := testOverlay(t)
	o.InjectClick(110, 105)
	drain(o)
	if got := o.Store().State("btn"); got != tether.StatePinnedVisible {
		t.Errorf("state = %v, want pinned", got)
	}
}

func TestOverlay_Close(t *testing.T) {
	o := testOverlay(t)
	o.Close()
	if o.Store().Has("btn") {
		t.Error("closed overlay kept an idle record")
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := tether.DefaultConfig()
	cfg.Position.My = tether.Corner(42)
	_, err := New(tether.NewStore(tether.StoreConfig{}), []Region{{ID: "x", Config: cfg}}, 10, 10)
	if !errors.Is(err, tether.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestTextExtent(t *testing.T) {
	tests := []struct {
		s          string
		cols, rows int
	}{
		{"", 0, 1},
		{"Save", 4, 1},
		{"a\nbcd", 3, 2},
	}
	for _, tt := range tests {
		cols, rows := textExtent(tt.s)
		if cols != tt.cols || rows != tt.rows {
			t.Errorf("textExtent(%q) = %d, %d, want %d, %d", tt.s, cols, rows, tt.cols, tt.rows)
		}
	}
}

func TestTailBase(t *testing.T) {
	box := tether.Rect{X: 155, Y: 127, Width: 36, Height: 24}
	tail := tether.Size{Width: 8, Height: 8}
	tests := []struct {
		c      tether.Corner
		tip    tether.Vec2
		b1, b2 tether.Vec2
	}{
		{tether.TopLeft, tether.Vec2{X: 160, Y: 120}, tether.Vec2{X: 156, Y: 127}, tether.Vec2{X: 164, Y: 127}},
		{tether.BottomCenter, tether.Vec2{X: 173, Y: 159}, tether.Vec2{X: 169, Y: 151}, tether.Vec2{X: 177, Y: 151}},
		{tether.CenterLeft, tether.Vec2{X: 148, Y: 139}, tether.Vec2{X: 155, Y: 135}, tether.Vec2{X: 155, Y: 143}},
		{tether.CenterRight, tether.Vec2{X: 198, Y: 139}, tether.Vec2{X: 191, Y: 135}, tether.Vec2{X: 191, Y: 143}},
	}
	for _, tt := range tests {
		b1, b2 := tailBase(tt.c, tt.tip, box, tail)
		if b1 != tt.b1 || b2 != tt.b2 {
			t.Errorf("%v: got %v %v, want %v %v", tt.c, b1, b2, tt.b1, tt.b2)
		}
	}
}

func TestFadeColor(t *testing.T) {
	got := fadeColor(color.RGBA{R: 100, G: 200, B: 50, A: 255}, 0.5)
	want := color.RGBA{R: 50, G: 100, B: 25, A: 127}
	if got != want {
		t.Errorf("fadeColor = %v, want %v", got, want)
	}
}

func TestOverlay_LogsRefusedHover(t *testing.T) {
	var buf bytes.Buffer
	s := tether.NewStore(tether.StoreConfig{
		Logger: log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}),
	})
	o, err := New(s, []Region{{
		ID:     "btn",
		Tip:    "Save",
		Bounds: tether.Rect{X: 100, Y: 100, Width: 60, Height: 20},
		Config: tether.DefaultConfig(),
	}}, 640, 480)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Release("btn"); err != nil {
		t.Fatal(err)
	}

	o.InjectMove(110, 105)
	frame(o)

	out := buf.String()
	if !strings.Contains(out, "pointer event dropped") || !strings.Contains(out, "op=over") {
		t.Errorf("refused hover not logged: %q", out)
	}
}
