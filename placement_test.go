package tether

import (
	"errors"
	"testing"
)

func boxPos(my, at Corner, method Method) PositionConfig {
	return PositionConfig{My: my, At: at, Adjust: Adjust{Method: method}}
}

func TestPlace_Basic(t *testing.T) {
	target := Rect{10, 10, 20, 20}
	geom := BoxGeometry(Size{40, 10})
	container := Rect{0, 0, 200, 200}
	pos := boxPos(TopCenter, BottomCenter, Method{})
	pos.Adjust.X, pos.Adjust.Y = 5, -3

	got, err := Place(target, geom, container, pos)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	// anchor = (10+10+5, 10+20-3) = (25, 27); minus top-center (20, 0)
	want := Placement{Corner: TopCenter, Location: Rect{5, 27, 40, 10}}
	if got != want {
		t.Errorf("Place = %+v, want %+v", got, want)
	}
}

func TestPlace_ContainerRelative(t *testing.T) {
	target := Rect{50, 50, 10, 10}
	geom := BoxGeometry(Size{10, 10})
	container := Rect{20, 30, 200, 200}

	got, err := Place(target, geom, container, boxPos(TopLeft, BottomRight, Method{}))
	if err != nil {
		t.Fatal(err)
	}
	if want := (Rect{40, 30, 10, 10}); got.Location != want {
		t.Errorf("Location = %v, want %v", got.Location, want)
	}
}

func TestPlace_UsesCornerTable(t *testing.T) {
	geom := BoxGeometry(Size{30, 20})
	// Tail tip 6px above the box for top-left anchoring.
	geom.Corners[TopLeft] = Vec2{8, -6}

	got, err := Place(Rect{100, 100, 0, 0}, geom, Rect{0, 0, 500, 500}, boxPos(TopLeft, TopLeft, Method{}))
	if err != nil {
		t.Fatal(err)
	}
	if want := (Rect{92, 106, 30, 20}); got.Location != want {
		t.Errorf("Location = %v, want %v", got.Location, want)
	}
}

func TestPlace_NoneKeepsOverflow(t *testing.T) {
	target := Rect{90, 10, 10, 10}
	geom := BoxGeometry(Size{30, 20})
	container := Rect{0, 0, 100, 100}

	got, err := Place(target, geom, container, boxPos(TopLeft, BottomRight, Method{}))
	if err != nil {
		t.Fatal(err)
	}
	want := Placement{Corner: TopLeft, Location: Rect{100, 20, 30, 20}}
	if got != want {
		t.Errorf("Place = %+v, want %+v", got, want)
	}
}

func TestPlace_FlipChoosesContainedCorner(t *testing.T) {
	target := Rect{90, 10, 10, 10}
	geom := BoxGeometry(Size{30, 20})
	container := Rect{0, 0, 100, 100}
	pos := boxPos(TopLeft, BottomRight, Flip(BottomLeft, TopRight, BottomRight))

	got, err := Place(target, geom, container, pos)
	if err != nil {
		t.Fatal(err)
	}
	// bottom-left still overflows; top-right fits entirely and bottom-right
	// only ties, so the earlier top-right wins.
	want := Placement{Corner: TopRight, Location: Rect{70, 20, 30, 20}}
	if got != want {
		t.Errorf("Place = %+v, want %+v", got, want)
	}
	if Surface(Overlap(container, got.Location)) != Surface(got.Location.Size()) {
		t.Error("flipped tip is not fully contained")
	}
}

func TestPlace_FlipPicksMaxOverlap(t *testing.T) {
	target := Rect{95, 50, 0, 0}
	geom := BoxGeometry(Size{20, 10})
	container := Rect{0, 0, 100, 100}
	// top-left overflows by 15px; center-left would overflow the same; the
	// top-center candidate overflows by 5px; top-right fits.
	pos := boxPos(TopLeft, TopLeft, Flip(CenterLeft, TopCenter, TopRight))

	got, err := Place(target, geom, container, pos)
	if err != nil {
		t.Fatal(err)
	}
	if got.Corner != TopRight {
		t.Errorf("Corner = %v, want top-right", got.Corner)
	}
}

func TestPlace_FlipSkippedWhenFitting(t *testing.T) {
	target := Rect{10, 10, 10, 10}
	geom := BoxGeometry(Size{20, 10})
	container := Rect{0, 0, 100, 100}
	pos := boxPos(TopLeft, BottomRight, Flip(BottomRight, TopRight))

	got, err := Place(target, geom, container, pos)
	if err != nil {
		t.Fatal(err)
	}
	if got.Corner != TopLeft || got.Location != (Rect{20, 20, 20, 10}) {
		t.Errorf("Place = %+v, want unchanged top-left", got)
	}
}

func TestPlace_FlipTieKeepsConfiguredCorner(t *testing.T) {
	target := Rect{200, 200, 0, 0}
	geom := BoxGeometry(Size{10, 10})
	container := Rect{0, 0, 100, 100}
	// Every candidate is fully outside: no strict improvement over zero.
	pos := boxPos(TopLeft, TopLeft, Flip(BottomRight, TopRight))

	got, err := Place(target, geom, container, pos)
	if err != nil {
		t.Fatal(err)
	}
	if got.Corner != TopLeft {
		t.Errorf("Corner = %v, want top-left", got.Corner)
	}
}

func TestPlace_ShiftKeepsInsideBounds(t *testing.T) {
	container := Rect{0, 0, 100, 100}
	geom := BoxGeometry(Size{30, 20})

	tests := []struct {
		name   string
		target Rect
		my, at Corner
		want   Rect
	}{
		{"overflow right and bottom", Rect{90, 85, 10, 10}, TopLeft, BottomRight, Rect{70, 80, 30, 20}},
		{"underflow left and top", Rect{0, 0, 5, 5}, BottomRight, TopLeft, Rect{0, 0, 30, 20}},
		{"center anchors clamp both sides", Rect{95, 50, 10, 10}, TopCenter, BottomCenter, Rect{70, 60, 30, 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := boxPos(tt.my, tt.at, Shift(Horizontal, Vertical))
			got, err := Place(tt.target, geom, container, pos)
			if err != nil {
				t.Fatal(err)
			}
			if got.Corner != tt.my {
				t.Errorf("Corner = %v, shift must not reorient", got.Corner)
			}
			if got.Location != tt.want {
				t.Errorf("Location = %v, want %v", got.Location, tt.want)
			}
			l := got.Location
			if l.X < container.X || l.X+l.Width > container.X+container.Width ||
				l.Y < container.Y || l.Y+l.Height > container.Y+container.Height {
				t.Errorf("Location %v escapes container %v", l, container)
			}
		})
	}
}

func TestPlace_ShiftSingleAxis(t *testing.T) {
	container := Rect{0, 0, 100, 100}
	geom := BoxGeometry(Size{30, 20})
	pos := boxPos(TopLeft, BottomRight, Shift(Horizontal))

	got, err := Place(Rect{90, 85, 10, 10}, geom, container, pos)
	if err != nil {
		t.Fatal(err)
	}
	if want := (Rect{70, 95, 30, 20}); got.Location != want {
		t.Errorf("Location = %v, want %v", got.Location, want)
	}
}

func TestPlace_InvalidCorner(t *testing.T) {
	geom := BoxGeometry(Size{10, 10})
	container := Rect{0, 0, 100, 100}

	if _, err := Place(Rect{}, geom, container, boxPos(Corner(9), TopLeft, Method{})); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("bad my: err = %v", err)
	}
	if _, err := Place(Rect{}, geom, container, boxPos(TopLeft, Corner(9), Method{})); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("bad at: err = %v", err)
	}
	pos := boxPos(TopLeft, BottomRight, Flip(Corner(12)))
	if _, err := Place(Rect{200, 200, 0, 0}, geom, container, pos); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("bad flip candidate: err = %v", err)
	}
}
