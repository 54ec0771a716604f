package ebitentip

import "github.com/phanxgames/tether"

// syntheticPointerEvent is a single injected pointer event in screen
// coordinates.
type syntheticPointerEvent struct {
	p       tether.Vec2
	pressed bool
}

// InjectMove queues a pointer move to (x, y). The button state is carried
// over from the previous event, so moves between InjectPress and
// InjectRelease drag.
func (o *Overlay) InjectMove(x, y float64) {
	o.injectQueue = append(o.injectQueue, syntheticPointerEvent{
		p:       tether.Vec2{X: x, Y: y},
		pressed: o.queuedDown(),
	})
}

// InjectPress queues a left-button press at (x, y).
func (o *Overlay) InjectPress(x, y float64) {
	o.injectQueue = append(o.injectQueue, syntheticPointerEvent{p: tether.Vec2{X: x, Y: y}, pressed: true})
}

// InjectRelease queues a left-button release at (x, y).
func (o *Overlay) InjectRelease(x, y float64) {
	o.injectQueue = append(o.injectQueue, syntheticPointerEvent{p: tether.Vec2{X: x, Y: y}})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (o *Overlay) InjectClick(x, y float64) {
	o.InjectPress(x, y)
	o.InjectRelease(x, y)
}

// InjectDrag queues a full drag: press at (fromX, fromY), frames-2
// interpolated moves and a release at (toX, toY). Minimum frames is 2.
func (o *Overlay) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	frames = max(frames, 2)
	o.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		o.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	o.InjectRelease(toX, toY)
}

// Pending returns the number of queued injected events.
func (o *Overlay) Pending() int { return len(o.injectQueue) }

func (o *Overlay) queuedDown() bool {
	if n := len(o.injectQueue); n > 0 {
		return o.injectQueue[n-1].pressed
	}
	return o.pointer.down
}

// processInjectedInput pops one queued event and feeds it through
// processPointer. It reports whether an event was consumed, in which case
// the real mouse is skipped this frame.
func (o *Overlay) processInjectedInput() bool {
	if len(o.injectQueue) == 0 {
		return false
	}
	evt := o.injectQueue[0]
	copy(o.injectQueue, o.injectQueue[1:])
	o.injectQueue = o.injectQueue[:len(o.injectQueue)-1]
	o.processPointer(evt.p, evt.pressed)
	return true
}
