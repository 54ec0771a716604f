package ebitentip

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/tether"
)

// --- Per-pointer state ---

type pointerState struct {
	down    bool
	last    tether.Vec2
	seen    bool
	hover   string // region under the pointer
	pressed string // tip captured by the current press
	clicked string // region under the current press
}

// processMouse reads the real mouse for this frame.
func (o *Overlay) processMouse() {
	mx, my := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	o.processPointer(tether.Vec2{X: float64(mx), Y: float64(my)}, pressed)
}

// processPointer is the pointer state machine. A press on a tip captures it
// for dragging; releasing without a drag toggles the tip's pin. A click on
// a region toggles the pin of the region's own tip. Hover transitions are
// suspended while a tip is captured.
func (o *Overlay) processPointer(p tether.Vec2, pressed bool) {
	ps := &o.pointer
	moved := !ps.seen || p != ps.last
	ps.last, ps.seen = p, true

	switch {
	case pressed && !ps.down:
		ps.down = true
		if id := o.tipAt(p); id != "" && o.drag.Press(id, p) == nil {
			ps.pressed = id
			return
		}
		ps.clicked = o.regionAt(p)
	case pressed && ps.down:
		if ps.pressed != "" {
			if moved {
				o.report("drag", ps.pressed, o.drag.Motion(p))
			}
			return
		}
	case !pressed && ps.down:
		ps.down = false
		if ps.pressed != "" {
			id := ps.pressed
			ps.pressed = ""
			if dragged, _ := o.drag.Release(p); !dragged {
				o.report("pin", id, o.store.TogglePin(id))
			}
		} else if ps.clicked != "" && ps.clicked == o.regionAt(p) {
			o.report("pin", ps.clicked, o.store.TogglePin(ps.clicked))
		}
		ps.clicked = ""
	}
	if moved {
		o.hoverAt(p)
	}
}

// hoverAt posts hover transitions for the region under p.
func (o *Overlay) hoverAt(p tether.Vec2) {
	ps := &o.pointer
	id := o.regionAt(p)
	if id == ps.hover {
		if id != "" {
			o.report("move", id, o.handles[id].MouseMove(p))
		}
		return
	}
	if ps.hover != "" {
		o.report("out", ps.hover, o.handles[ps.hover].MouseOut())
	}
	if id != "" {
		o.report("over", id, o.handles[id].MouseOver(p))
	}
	ps.hover = id
}

// report logs a pointer event the store refused. Input keeps flowing.
func (o *Overlay) report(op, id string, err error) {
	if err != nil {
		o.store.Logger().Debug("pointer event dropped", "op", op, "id", id, "err", err)
	}
}
