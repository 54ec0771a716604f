package tether

import (
	"errors"
	"testing"
)

func TestCornerOffset(t *testing.T) {
	size := Size{Width: 20, Height: 14}

	tests := []struct {
		c    Corner
		want Vec2
	}{
		{TopLeft, Vec2{0, 0}},
		{TopCenter, Vec2{10, 0}},
		{TopRight, Vec2{20, 0}},
		{CenterLeft, Vec2{0, 7}},
		{CenterRight, Vec2{20, 7}},
		{BottomLeft, Vec2{0, 14}},
		{BottomCenter, Vec2{10, 14}},
		{BottomRight, Vec2{20, 14}},
	}
	for _, tt := range tests {
		t.Run(tt.c.String(), func(t *testing.T) {
			got, err := CornerOffset(size, tt.c)
			if err != nil {
				t.Fatalf("CornerOffset: %v", err)
			}
			if got != tt.want {
				t.Errorf("CornerOffset(%v) = %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}

func TestCornerOffset_Invalid(t *testing.T) {
	_, err := CornerOffset(Size{10, 10}, Corner(42))
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestParseCorner(t *testing.T) {
	for _, c := range Corners {
		got, err := ParseCorner(c.String())
		if err != nil || got != c {
			t.Errorf("ParseCorner(%q) = %v, %v", c.String(), got, err)
		}
	}
	for _, bad := range []string{"", "middle", "Top-Left", "top left"} {
		if _, err := ParseCorner(bad); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("ParseCorner(%q) err = %v, want ErrInvalidArgument", bad, err)
		}
	}
}

func TestCornerText(t *testing.T) {
	text, err := BottomCenter.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if string(text) != "bottom-center" {
		t.Errorf("MarshalText = %q", text)
	}
	var c Corner
	if err := c.UnmarshalText([]byte("center-right")); err != nil || c != CenterRight {
		t.Errorf("UnmarshalText = %v, %v", c, err)
	}
	if err := c.UnmarshalText([]byte("nowhere")); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("UnmarshalText err = %v", err)
	}
}

func TestOverlap(t *testing.T) {
	tests := []struct {
		name   string
		r1, r2 Rect
		want   Size
	}{
		{"partial", Rect{0, 0, 10, 10}, Rect{5, 5, 10, 10}, Size{5, 5}},
		{"contained", Rect{0, 0, 100, 100}, Rect{10, 20, 30, 40}, Size{30, 40}},
		{"disjoint", Rect{0, 0, 10, 10}, Rect{20, 20, 5, 5}, Size{0, 0}},
		{"disjoint x only", Rect{0, 0, 10, 10}, Rect{20, 0, 5, 5}, Size{0, 5}},
		{"touching edge", Rect{0, 0, 10, 10}, Rect{10, 0, 10, 10}, Size{0, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlap(tt.r1, tt.r2); got != tt.want {
				t.Errorf("Overlap(r1, r2) = %v, want %v", got, tt.want)
			}
			if got := Overlap(tt.r2, tt.r1); got != tt.want {
				t.Errorf("Overlap(r2, r1) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverlap_Self(t *testing.T) {
	rects := []Rect{{0, 0, 10, 10}, {-5, 3, 7, 2}, {100, 200, 0, 0}}
	for _, r := range rects {
		if got := Overlap(r, r); got != r.Size() {
			t.Errorf("Overlap(%v, %v) = %v, want %v", r, r, got, r.Size())
		}
	}
}

func TestOverlap_ZeroWhenDisjoint(t *testing.T) {
	got := Overlap(Rect{0, 0, 10, 10}, Rect{50, 50, 10, 10})
	if Surface(got) != 0 || got.Width != 0 || got.Height != 0 {
		t.Errorf("Overlap = %v, want zero size", got)
	}
}

func TestSurface(t *testing.T) {
	if got := Surface(Size{4, 2.5}); got != 10 {
		t.Errorf("Surface = %v, want 10", got)
	}
}

func TestCornerMembership(t *testing.T) {
	tests := []struct {
		c                        Corner
		left, right, top, bottom bool
	}{
		{TopLeft, true, false, true, false},
		{TopCenter, true, true, true, false},
		{TopRight, false, true, true, false},
		{CenterLeft, true, false, true, true},
		{CenterRight, false, true, true, true},
		{BottomLeft, true, false, false, true},
		{BottomCenter, true, true, false, true},
		{BottomRight, false, true, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.c.String(), func(t *testing.T) {
			if tt.c.Left() != tt.left || tt.c.Right() != tt.right ||
				tt.c.Top() != tt.top || tt.c.Bottom() != tt.bottom {
				t.Errorf("%v membership = L%v R%v T%v B%v, want L%v R%v T%v B%v", tt.c,
					tt.c.Left(), tt.c.Right(), tt.c.Top(), tt.c.Bottom(),
					tt.left, tt.right, tt.top, tt.bottom)
			}
		})
	}
}

func TestRectContainsIntersects(t *testing.T) {
	r := Rect{10, 10, 20, 20}
	if !r.Contains(10, 30) || r.Contains(31, 10) {
		t.Error("Contains edge handling wrong")
	}
	if !r.Intersects(Rect{30, 30, 5, 5}) {
		t.Error("adjacent rects should intersect")
	}
	if r.Intersects(Rect{31, 0, 5, 5}) {
		t.Error("disjoint rects should not intersect")
	}
	if got := r.Translate(Vec2{5, -5}); got != (Rect{15, 5, 20, 20}) {
		t.Errorf("Translate = %v", got)
	}
}
