package tether

import "slices"

// Event is a tagged message posted to Store.Dispatch. Every input adapter
// (pointer, resize, pin widgets, drag loop) talks to the store through
// these; nothing relies on event bubbling.
type Event struct {
	Type EventType
	ID   string

	// Point is the absolute pointer position for EventMouseOver and
	// EventMouseMove, and the translation for EventMove.
	Point Vec2
	// Anchor names the source's own element for EventMouseOver. Empty keeps
	// the previous anchor (initially the id).
	Anchor string
	// Config creates a transient record on EventMouseOver when none exists,
	// and is the new configuration for EventReset.
	Config *Config
	// Geometry is the measured tip for EventGeometry.
	Geometry Geometry
	// Pinned is the requested pin state for EventPin.
	Pinned bool
	// Notify marks the final EventMove of a drag.
	Notify bool
}

// LayoutEvent reports a new placement for a tip.
type LayoutEvent struct {
	ID       string
	Corner   Corner
	Location Rect // container-relative
	Config   Config
}

// VisibilityEvent reports a tip becoming visible or hidden.
type VisibilityEvent struct {
	ID      string
	Visible bool
	Config  Config
}

// --- Handler registry ---

type layoutHandler struct {
	id uint32
	fn func(LayoutEvent)
}

type visibilityHandler struct {
	id uint32
	fn func(VisibilityEvent)
}

type tipChangeHandler struct {
	id uint32
	fn func([]StoredTip)
}

type handlerKind uint8

const (
	handlerLayout handlerKind = iota
	handlerVisibility
	handlerTipChange
)

type handlerRegistry struct {
	layout     []layoutHandler
	visibility []visibilityHandler
	tipChange  []tipChangeHandler
	nextID     uint32
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id   uint32
	reg  *handlerRegistry
	kind handlerKind
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.kind {
	case handlerLayout:
		h.reg.layout = removeHandler(h.reg.layout, func(x layoutHandler) bool { return x.id == h.id })
	case handlerVisibility:
		h.reg.visibility = removeHandler(h.reg.visibility, func(x visibilityHandler) bool { return x.id == h.id })
	case handlerTipChange:
		h.reg.tipChange = removeHandler(h.reg.tipChange, func(x tipChangeHandler) bool { return x.id == h.id })
	}
}

func removeHandler[T any](s []T, match func(T) bool) []T {
	for i := range s {
		if match(s[i]) {
			var zero T
			copy(s[i:], s[i+1:])
			s[len(s)-1] = zero
			return s[:len(s)-1]
		}
	}
	return s
}

// OnLayoutChange registers a callback for tip placement changes.
func (s *Store) OnLayoutChange(fn func(LayoutEvent)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.layout = append(s.handlers.layout, layoutHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, kind: handlerLayout}
}

// OnVisibilityChange registers a callback for tips appearing or hiding.
func (s *Store) OnVisibilityChange(fn func(VisibilityEvent)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.visibility = append(s.handlers.visibility, visibilityHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, kind: handlerVisibility}
}

// OnTipChange registers a callback receiving the stored-tips snapshot each
// time the pinned set's externally visible state changes.
func (s *Store) OnTipChange(fn func([]StoredTip)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.tipChange = append(s.handlers.tipChange, tipChangeHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, kind: handlerTipChange}
}

func (s *Store) fireLayout(ev LayoutEvent) {
	for _, h := range slices.Clone(s.handlers.layout) {
		h.fn(ev)
	}
}

func (s *Store) fireVisibility(ev VisibilityEvent) {
	for _, h := range slices.Clone(s.handlers.visibility) {
		h.fn(ev)
	}
}

func (s *Store) fireTipChange(tips []StoredTip) {
	for _, h := range slices.Clone(s.handlers.tipChange) {
		h.fn(cloneStoredTips(tips))
	}
}
