package tether

import "math"

// DefaultDragDeadZone is the distance in pixels the pointer must travel
// with the button held before a press on a tip becomes a drag.
const DefaultDragDeadZone = 4.0

// Dragger turns pointer press, motion and release on a tip into store
// moves. Intermediate moves are silent; the move issued on release ends the
// drag and publishes a pinned tip's new location. A press released inside
// the dead zone is a click, not a drag.
type Dragger struct {
	store    *Store
	DeadZone float64

	id       string
	down     bool
	dragging bool
	start    Vec2
	last     Vec2
}

// NewDragger creates a dragger for s with the default dead zone.
func NewDragger(s *Store) *Dragger {
	return &Dragger{store: s, DeadZone: DefaultDragDeadZone}
}

// Press captures the pointer for tip id at absolute point p. It fails with
// ErrUnknownID when the store has no such tip.
func (d *Dragger) Press(id string, p Vec2) error {
	if !d.store.Has(id) {
		return errUnknown("press", id)
	}
	d.id = id
	d.down = true
	d.dragging = false
	d.start, d.last = p, p
	return nil
}

// Motion moves the captured tip with the pointer once the dead zone is
// exceeded. It does nothing when no tip is captured.
func (d *Dragger) Motion(p Vec2) error {
	if !d.down || p == d.last {
		return nil
	}
	if !d.dragging {
		dx, dy := p.X-d.start.X, p.Y-d.start.Y
		if math.Sqrt(dx*dx+dy*dy) <= d.DeadZone {
			return nil
		}
		d.dragging = true
	}
	delta := p.Sub(d.last)
	d.last = p
	return d.store.Move(d.id, delta, false)
}

// Release ends the capture at point p. It reports whether the press turned
// into a drag; when it did, the final move notifies persistence.
func (d *Dragger) Release(p Vec2) (dragged bool, err error) {
	if !d.down {
		return false, nil
	}
	id, wasDragging := d.id, d.dragging
	delta := p.Sub(d.last)
	d.reset()
	if !wasDragging {
		return false, nil
	}
	return true, d.store.Move(id, delta, true)
}

// Cancel drops the capture without a final move.
func (d *Dragger) Cancel() { d.reset() }

// Active returns the captured tip id while a drag is in progress.
func (d *Dragger) Active() (string, bool) {
	return d.id, d.dragging
}

func (d *Dragger) reset() {
	d.id = ""
	d.down = false
	d.dragging = false
}
