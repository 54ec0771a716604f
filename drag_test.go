package tether

import (
	"errors"
	"testing"
)

func pinnedStore(t *testing.T) (*Store, *recorder) {
	t.Helper()
	s, rec := newTestStore(t)
	h := mustRegister(t, s, "btn", DefaultConfig())
	h.MouseOver(Vec2{110, 105})
	h.SetGeometry(tipBox)
	h.Pin(true)
	return s, rec
}

func TestDragger_DragMovesAndPublishesOnce(t *testing.T) {
	s, rec := pinnedStore(t)
	base := len(rec.tips)
	d := NewDragger(s)

	if err := d.Press("btn", Vec2{150, 130}); err != nil {
		t.Fatal(err)
	}
	d.Motion(Vec2{160, 130})
	d.Motion(Vec2{170, 140})
	if id, ok := d.Active(); !ok || id != "btn" {
		t.Fatalf("Active = %q, %v", id, ok)
	}
	if len(rec.tips) != base {
		t.Fatal("drag motion published stored tips")
	}
	if got := rec.lastLayout(t).Location.Origin(); got != (Vec2{160, 130}) {
		t.Errorf("origin during drag = %v, want (160, 130)", got)
	}

	dragged, err := d.Release(Vec2{175, 140})
	if err != nil || !dragged {
		t.Fatalf("Release = %v, %v", dragged, err)
	}
	if len(rec.tips) != base+1 {
		t.Fatalf("tip changes = %d, want %d", len(rec.tips), base+1)
	}
	if got := s.StoredTips()[0].Location; got != (Vec2{165, 130}) {
		t.Errorf("stored location = %v, want (165, 130)", got)
	}
	if _, ok := d.Active(); ok {
		t.Error("drag still active after release")
	}
}

func TestDragger_DeadZone(t *testing.T) {
	s, rec := pinnedStore(t)
	layouts := len(rec.layouts)
	d := NewDragger(s)

	d.Press("btn", Vec2{150, 130})
	d.Motion(Vec2{152, 131})
	dragged, err := d.Release(Vec2{152, 131})
	if err != nil {
		t.Fatal(err)
	}
	if dragged {
		t.Error("press inside the dead zone reported as drag")
	}
	if len(rec.layouts) != layouts {
		t.Errorf("click moved the tip")
	}
}

func TestDragger_UnknownTip(t *testing.T) {
	s, _ := newTestStore(t)
	d := NewDragger(s)
	if err := d.Press("nope", Vec2{}); !errors.Is(err, ErrUnknownID) {
		t.Errorf("Press = %v, want ErrUnknownID", err)
	}
	if err := d.Motion(Vec2{50, 50}); err != nil {
		t.Errorf("Motion without capture = %v", err)
	}
}

func TestDragger_Cancel(t *testing.T) {
	s, rec := pinnedStore(t)
	base := len(rec.tips)
	d := NewDragger(s)

	d.Press("btn", Vec2{150, 130})
	d.Motion(Vec2{180, 130})
	d.Cancel()
	if dragged, _ := d.Release(Vec2{200, 130}); dragged {
		t.Error("release after cancel reported a drag")
	}
	if len(rec.tips) != base {
		t.Error("cancelled drag published stored tips")
	}
}
