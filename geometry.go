package tether

import "fmt"

// Geometry describes a tip overlay: its outer size and, for every corner,
// the point in the overlay's local frame where the tail tip sits when the
// tip is anchored at that corner. The table is supplied by the rendering
// layer and treated as opaque here.
type Geometry struct {
	Size    Size
	Corners [numCorners]Vec2
}

// CornerOffset returns the offset of corner c inside a box of the given size,
// e.g. TopCenter of a 20x14 box is (10, 0).
func CornerOffset(size Size, c Corner) (Vec2, error) {
	w, h := size.Width, size.Height
	switch c {
	case TopLeft:
		return Vec2{0, 0}, nil
	case TopCenter:
		return Vec2{w * 0.5, 0}, nil
	case TopRight:
		return Vec2{w, 0}, nil
	case CenterLeft:
		return Vec2{0, h * 0.5}, nil
	case CenterRight:
		return Vec2{w, h * 0.5}, nil
	case BottomLeft:
		return Vec2{0, h}, nil
	case BottomCenter:
		return Vec2{w * 0.5, h}, nil
	case BottomRight:
		return Vec2{w, h}, nil
	}
	return Vec2{}, fmt.Errorf("unknown position %v: %w", c, ErrInvalidArgument)
}

// Overlap returns the extents of the intersection of r1 and r2, clamped to
// zero when the rectangles are disjoint.
func Overlap(r1, r2 Rect) Size {
	return Size{
		Width: max(0,
			min(r1.X+r1.Width, r2.X+r2.Width)-max(r1.X, r2.X)),
		Height: max(0,
			min(r1.Y+r1.Height, r2.Y+r2.Height)-max(r1.Y, r2.Y)),
	}
}

// Surface returns width * height.
func Surface(s Size) float64 {
	return s.Width * s.Height
}

// --- Directional membership ---
//
// A corner belongs to every side set it touches; center anchors belong to
// both sides of their centered axis. These drive the shift adjustment.

// Left reports whether an overlay anchored at c grows rightward from a
// left-rooted anchor (LEFT set).
func (c Corner) Left() bool {
	switch c {
	case TopLeft, CenterLeft, BottomLeft, TopCenter, BottomCenter:
		return true
	}
	return false
}

// Right reports membership in the RIGHT set.
func (c Corner) Right() bool {
	switch c {
	case TopRight, CenterRight, BottomRight, TopCenter, BottomCenter:
		return true
	}
	return false
}

// Top reports membership in the TOP set.
func (c Corner) Top() bool {
	switch c {
	case TopLeft, TopCenter, TopRight, CenterLeft, CenterRight:
		return true
	}
	return false
}

// Bottom reports membership in the BOTTOM set.
func (c Corner) Bottom() bool {
	switch c {
	case BottomLeft, BottomCenter, BottomRight, CenterLeft, CenterRight:
		return true
	}
	return false
}
