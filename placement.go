package tether

import "fmt"

// FlipTolerance is the minimum overlap-area improvement a flip candidate
// needs over the best corner so far. Candidates within the tolerance lose,
// so ties keep the earlier corner in list order.
const FlipTolerance = 0.0001

// Placement is the result of laying out a tip.
type Placement struct {
	Corner   Corner // tip corner actually attached to the target
	Location Rect   // tip bounds, relative to the container origin
}

// Place computes where a tip with geometry geom goes relative to target,
// inside container, according to pos. All rectangles are absolute; the
// returned location is container-relative. The only error is
// ErrInvalidArgument for an unknown corner in pos.
func Place(target Rect, geom Geometry, container Rect, pos PositionConfig) (Placement, error) {
	targetCorner, err := CornerOffset(target.Size(), pos.At)
	if err != nil {
		return Placement{}, err
	}
	anchor := Vec2{
		X: target.X + targetCorner.X + pos.Adjust.X,
		Y: target.Y + targetCorner.Y + pos.Adjust.Y,
	}
	computeRect := func(my Corner) (Rect, error) {
		if !my.Valid() {
			return Rect{}, fmt.Errorf("unknown position %v: %w", my, ErrInvalidArgument)
		}
		c := geom.Corners[my]
		return Rect{
			X:      anchor.X - c.X,
			Y:      anchor.Y - c.Y,
			Width:  geom.Size.Width,
			Height: geom.Size.Height,
		}, nil
	}

	res := Placement{Corner: pos.My}
	if res.Location, err = computeRect(pos.My); err != nil {
		return Placement{}, err
	}

	method := pos.Adjust.Method
	if method.Kind != MethodNone {
		area := Surface(Overlap(container, res.Location))
		if area < Surface(res.Location.Size()) {
			switch method.Kind {
			case MethodFlip:
				for _, my := range method.Flip {
					loc, err := computeRect(my)
					if err != nil {
						return Placement{}, err
					}
					a := Surface(Overlap(container, loc))
					if a-area > FlipTolerance {
						res.Location, res.Corner, area = loc, my, a
					}
				}
			case MethodShift:
				res.Location = shift(res.Location, pos.My, container, method)
			}
		}
	}

	res.Location.X -= container.X
	res.Location.Y -= container.Y
	return res, nil
}

// shift translates loc back inside container along the configured axes,
// keeping the anchor corner. Which edge is enforced depends on the side the
// anchor is rooted on.
func shift(loc Rect, my Corner, container Rect, m Method) Rect {
	if m.shifts(Horizontal) {
		if my.Left() && loc.X+loc.Width > container.X+container.Width {
			loc.X = container.X + container.Width - loc.Width
		}
		if my.Right() && loc.X < container.X {
			loc.X = container.X
		}
	}
	if m.shifts(Vertical) {
		if my.Bottom() && loc.Y < container.Y {
			loc.Y = container.Y
		}
		if my.Top() && loc.Y+loc.Height > container.Y+container.Height {
			loc.Y = container.Y + container.Height - loc.Height
		}
	}
	return loc
}
