package tether

// Host resolves element references to absolute, scroll-adjusted bounds.
// The empty reference names the root container.
type Host interface {
	Bounds(ref string) (Rect, bool)
}

// Elements is a Host backed by a fixed table of element bounds.
type Elements map[string]Rect

// Bounds implements Host.
func (e Elements) Bounds(ref string) (Rect, bool) {
	r, ok := e[ref]
	return r, ok
}

// HostFunc adapts a function to the Host interface.
type HostFunc func(ref string) (Rect, bool)

// Bounds implements Host.
func (f HostFunc) Bounds(ref string) (Rect, bool) { return f(ref) }

// sourceSink receives the output of a Source. The Store is the only
// production sink.
type sourceSink interface {
	sourceLayout(s *Source)
	sourceVisibility(s *Source, visible bool)
}

// Source is the per-tip state machine. It turns hover, pin, geometry and
// reset events into visibility transitions and layout requests. Sources are
// created and owned by a Store and are driven through Store.Dispatch or a
// Handle.
type Source struct {
	id     string
	anchor string // element ref used for TargetSelf
	config Config
	host   Host
	sched  Scheduler
	sink   sourceSink

	preserveLocation bool

	target       Rect
	hasTarget    bool
	mouse        Vec2
	hasMouse     bool
	geometry     Geometry
	hasGeometry  bool
	container    Rect
	hasContainer bool

	my       Corner
	location Vec2 // container-relative
	laidOut  bool
	// emitted holds the size of the last layout reported since the tip was
	// shown; current is false until one has been reported.
	emitted Size
	current bool

	visible bool
	pinned  bool

	showTimer Timer
	hideTimer Timer
	// gen is bumped whenever a timer is scheduled or cancelled. Timer
	// callbacks compare it with the value they captured and do nothing when
	// it moved on.
	gen uint64

	detached bool
}

func newSource(id string, cfg Config, host Host, sched Scheduler, sink sourceSink) *Source {
	return &Source{
		id:     id,
		anchor: id,
		config: cfg,
		host:   host,
		sched:  sched,
		sink:   sink,
		my:     cfg.Position.My,
	}
}

// ID returns the source id.
func (s *Source) ID() string { return s.id }

// Config returns the source's current configuration.
func (s *Source) Config() Config { return s.config }

// Corner returns the tip corner of the last layout.
func (s *Source) Corner() Corner { return s.my }

// Location returns the container-relative tip bounds of the last layout.
// The size is zero until geometry is known.
func (s *Source) Location() Rect {
	return Rect{X: s.location.X, Y: s.location.Y, Width: s.geometry.Size.Width, Height: s.geometry.Size.Height}
}

// LaidOut reports whether the source has a location.
func (s *Source) LaidOut() bool { return s.laidOut }

// Visible reports whether the tip is rendered, including while a hide is
// pending.
func (s *Source) Visible() bool { return s.visible }

// Pinned reports whether the tip is pinned.
func (s *Source) Pinned() bool { return s.pinned }

// State returns the current state machine state.
func (s *Source) State() State {
	switch {
	case s.pinned:
		return StatePinnedVisible
	case s.hideTimer != nil:
		return StatePendingHide
	case s.visible:
		return StateVisible
	case s.showTimer != nil:
		return StatePendingShow
	}
	return StateHidden
}

// idle reports whether nothing keeps the source alive on its own.
func (s *Source) idle() bool {
	return !s.visible && !s.pinned && s.showTimer == nil && s.hideTimer == nil
}

// --- Transitions ---

// MouseOver handles the pointer entering the source at absolute point p.
func (s *Source) MouseOver(p Vec2) {
	if s.detached {
		return
	}
	s.mouse, s.hasMouse = p, true
	if s.pinned {
		return
	}
	pos := s.config.Position
	if pos.Target.Kind == TargetMouse || pos.Adjust.tracksMouse() {
		s.target, s.hasTarget = PointRect(s.transform(p)), true
	}
	if s.hideTimer != nil {
		s.stopTimers()
	}
	if s.visible {
		s.layout()
		return
	}
	if s.showTimer != nil {
		return
	}
	if s.config.Show.Delay <= 0 {
		s.show()
		return
	}
	s.gen++
	gen := s.gen
	s.showTimer = s.sched.AfterFunc(s.config.Show.Delay, func() {
		if gen != s.gen || s.detached {
			return
		}
		s.showTimer = nil
		s.show()
	})
}

// MouseOut handles the pointer leaving the source. A pending show is
// cancelled without starting a hide.
func (s *Source) MouseOut() {
	if s.detached || s.pinned {
		return
	}
	if s.showTimer != nil {
		s.stopTimers()
		return
	}
	if !s.visible || s.hideTimer != nil {
		return
	}
	if s.config.Hide.Delay <= 0 {
		s.hide()
		return
	}
	s.gen++
	gen := s.gen
	s.hideTimer = s.sched.AfterFunc(s.config.Hide.Delay, func() {
		if gen != s.gen || s.detached {
			return
		}
		s.hideTimer = nil
		s.hide()
	})
}

// MouseMove re-targets the tip at the pointer when adjust.mouse is set.
func (s *Source) MouseMove(p Vec2) {
	if s.detached {
		return
	}
	s.mouse, s.hasMouse = p, true
	if s.pinned || !s.config.Position.Adjust.tracksMouse() {
		return
	}
	s.target, s.hasTarget = PointRect(s.transform(p)), true
	s.layout()
}

// SetGeometry records a new tip measurement and lays out again. Replaying
// an unchanged geometry does nothing. A pinned tip keeps its location and
// only picks up the new size.
func (s *Source) SetGeometry(g Geometry) {
	if s.detached || (s.hasGeometry && s.geometry == g) {
		return
	}
	sizeChanged := s.geometry.Size != g.Size
	s.geometry, s.hasGeometry = g, true
	if s.pinned && s.laidOut {
		if sizeChanged && s.visible {
			s.emitLayout()
		}
		return
	}
	s.layout()
}

// Pin forces the tip visible and suspends hover handling. Unpinning behaves
// like a pointer leaving the source.
func (s *Source) Pin(pinned bool) {
	if s.detached || pinned == s.pinned {
		return
	}
	if !pinned {
		s.pinned = false
		s.MouseOut()
		return
	}
	s.stopTimers()
	s.pinned = true
	if !s.visible {
		s.visible = true
		s.layout()
		s.sink.sourceVisibility(s, true)
	}
}

// Reset applies a new configuration. Timers are cancelled and resolved
// target and container bounds are dropped so the next layout starts from
// the new configuration. A pinned tip keeps its location; an unpinned one
// keeps it only when the store preserves locations on reset.
func (s *Source) Reset(cfg Config) {
	if s.detached {
		return
	}
	hiding := s.hideTimer != nil
	s.stopTimers()
	s.config = cfg
	s.hasTarget = false
	s.hasContainer = false
	s.current = false
	if !s.pinned && !s.preserveLocation {
		s.my = cfg.Position.My
		s.location = Vec2{}
		s.laidOut = false
	}
	if hiding {
		s.hide()
		return
	}
	if s.visible && !s.pinned {
		s.layout()
	}
}

// Unmount cancels every timer. The source emits nothing afterwards.
func (s *Source) Unmount() {
	s.stopTimers()
	s.detached = true
}

// move translates the tip location by delta.
func (s *Source) move(delta Vec2) {
	if s.detached || delta == (Vec2{}) {
		return
	}
	s.location = s.location.Add(delta)
	s.laidOut = true
	if s.visible {
		s.emitLayout()
	}
}

// restore materializes a pinned tip from a stored snapshot.
func (s *Source) restore(t StoredTip) {
	s.stopTimers()
	s.config = t.Config
	s.my = t.My
	s.location = t.Location
	s.laidOut = true
	s.pinned = true
	if !s.visible {
		s.visible = true
		s.sink.sourceVisibility(s, true)
	}
	s.emitLayout()
}

func (s *Source) show() {
	s.visible = true
	s.layout()
	s.sink.sourceVisibility(s, true)
}

func (s *Source) hide() {
	s.visible = false
	s.current = false
	s.hasGeometry = false
	s.geometry = Geometry{}
	s.hasContainer = false
	if s.config.Position.Target.Kind != TargetMouse && !s.config.Position.Adjust.tracksMouse() {
		s.hasTarget = false
	}
	s.sink.sourceVisibility(s, false)
}

func (s *Source) stopTimers() {
	if s.showTimer != nil {
		s.showTimer.Stop()
		s.showTimer = nil
	}
	if s.hideTimer != nil {
		s.hideTimer.Stop()
		s.hideTimer = nil
	}
	s.gen++
}

func (s *Source) transform(p Vec2) Vec2 {
	if fn := s.config.Position.Adjust.MouseTransform; fn != nil {
		return fn(p)
	}
	return p
}

// --- Layout ---

// resolve fills in the target and container bounds from the host. It
// reports whether both are known.
func (s *Source) resolve() bool {
	if !s.hasTarget {
		pos := s.config.Position
		switch pos.Target.Kind {
		case TargetSelf:
			s.target, s.hasTarget = s.bounds(s.anchor)
		case TargetPoint:
			s.target, s.hasTarget = PointRect(pos.Target.Point), true
		case TargetMouse:
			if s.hasMouse {
				s.target, s.hasTarget = PointRect(s.transform(s.mouse)), true
			}
		case TargetElement:
			s.target, s.hasTarget = s.bounds(pos.Target.Selector)
		}
	}
	if !s.hasContainer {
		s.container, s.hasContainer = s.bounds(s.config.Position.Container)
	}
	return s.hasTarget && s.hasContainer
}

func (s *Source) bounds(ref string) (Rect, bool) {
	if s.host == nil {
		return Rect{}, false
	}
	return s.host.Bounds(ref)
}

// layout runs the placement engine once target, geometry and container are
// all known and emits a layout change when the result differs.
func (s *Source) layout() {
	if !s.visible || !s.hasGeometry || !s.resolve() {
		return
	}
	p, err := Place(s.target, s.geometry, s.container, s.config.Position)
	if err != nil {
		logger.Error("placement failed", "id", s.id, "err", err)
		return
	}
	loc := p.Location.Origin()
	if s.current && s.laidOut && p.Corner == s.my && loc == s.location && p.Location.Size() == s.emitted {
		return
	}
	s.my, s.location, s.laidOut = p.Corner, loc, true
	s.emitLayout()
}

func (s *Source) emitLayout() {
	s.emitted, s.current = s.geometry.Size, true
	s.sink.sourceLayout(s)
}
