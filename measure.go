package tether

import (
	"image/color"
	"slices"
)

// Edges holds per-side box metrics such as margins.
type Edges struct {
	Top, Right, Bottom, Left float64
}

// Measurement describes a rendered tip box. Size excludes margins.
type Measurement struct {
	Size            Size
	Margin          Edges
	BorderWidth     float64
	BorderRadius    float64
	BackgroundColor color.RGBA
	BorderColor     color.RGBA
	BorderStyle     string
}

// Outer returns the size of the box including margins.
func (m Measurement) Outer() Size {
	return Size{
		Width:  m.Size.Width + m.Margin.Left + m.Margin.Right,
		Height: m.Size.Height + m.Margin.Top + m.Margin.Bottom,
	}
}

// Measurer measures the element named by ref. ok is false while the
// element is not rendered.
type Measurer interface {
	Measure(ref string) (m Measurement, ok bool)
}

// MeasurerFunc adapts a function to the Measurer interface.
type MeasurerFunc func(ref string) (Measurement, bool)

// Measure implements Measurer.
func (f MeasurerFunc) Measure(ref string) (Measurement, bool) { return f(ref) }

// minTailInset keeps a corner tail clear of small border radii.
const minTailInset = 4

// BalloonGeometry returns the corner table of a rectangular balloon whose
// tail of the given size points away from the box at each corner. Offsets
// are in the balloon's local frame, including margins.
func BalloonGeometry(m Measurement, tail Size) Geometry {
	ml, mt := m.Margin.Left, m.Margin.Top
	w, h := m.Size.Width, m.Size.Height
	bw := m.BorderWidth
	inset := max(m.BorderRadius, minTailInset)
	aw, ah := tail.Width, tail.Height

	above := mt - ah + bw
	below := mt + h - bw + ah
	left := ml + bw + inset
	right := ml + w - inset
	center := ml + 0.5*w
	middle := mt + 0.5*h

	var g Geometry
	g.Size = m.Outer()
	g.Corners[TopLeft] = Vec2{left, above}
	g.Corners[TopCenter] = Vec2{center, above}
	g.Corners[TopRight] = Vec2{right, above}
	g.Corners[CenterLeft] = Vec2{ml - aw + bw, middle}
	g.Corners[CenterRight] = Vec2{ml + w - bw + aw, middle}
	g.Corners[BottomLeft] = Vec2{left, below}
	g.Corners[BottomCenter] = Vec2{center, below}
	g.Corners[BottomRight] = Vec2{right, below}
	return g
}

// BoxGeometry returns the corner table of a plain box with no tail: every
// corner offset is the matching corner of the box.
func BoxGeometry(size Size) Geometry {
	g := Geometry{Size: size}
	for _, c := range Corners {
		g.Corners[c], _ = CornerOffset(size, c)
	}
	return g
}

// --- Resize observer ---

type resizeSub struct {
	id     uint32
	ref    string
	fn     func(Measurement)
	last   Measurement
	seeded bool
}

// ResizeObserver is a frame-polled resize notifier. Subscribers are called
// once as soon as their element can be measured and afterwards only when
// the measurement changes, so replaying the same measurement is harmless.
type ResizeObserver struct {
	measurer Measurer
	subs     []*resizeSub
	nextID   uint32
}

// NewResizeObserver creates an observer over m.
func NewResizeObserver(m Measurer) *ResizeObserver {
	return &ResizeObserver{measurer: m}
}

// Subscription is a registered resize callback.
type Subscription struct {
	id uint32
	o  *ResizeObserver
}

// Unsubscribe removes the callback.
func (s Subscription) Unsubscribe() {
	if s.o == nil {
		return
	}
	s.o.subs = slices.DeleteFunc(s.o.subs, func(sub *resizeSub) bool { return sub.id == s.id })
}

// Subscribe registers fn for ref and measures it right away.
func (o *ResizeObserver) Subscribe(ref string, fn func(Measurement)) Subscription {
	o.nextID++
	sub := &resizeSub{id: o.nextID, ref: ref, fn: fn}
	o.subs = append(o.subs, sub)
	o.check(sub, false)
	return Subscription{id: sub.id, o: o}
}

// Poll measures every subscribed element and notifies changes. It returns
// the number of callbacks made.
func (o *ResizeObserver) Poll() int {
	n := 0
	for _, sub := range slices.Clone(o.subs) {
		if o.check(sub, false) {
			n++
		}
	}
	return n
}

// Refresh measures ref now and notifies its subscribers even when nothing
// changed. Renderers call it when an element is shown again.
func (o *ResizeObserver) Refresh(ref string) {
	for _, sub := range slices.Clone(o.subs) {
		if sub.ref == ref {
			o.check(sub, true)
		}
	}
}

func (o *ResizeObserver) check(sub *resizeSub, force bool) bool {
	m, ok := o.measurer.Measure(sub.ref)
	if !ok {
		return false
	}
	if sub.seeded && m == sub.last && !force {
		return false
	}
	sub.last, sub.seeded = m, true
	sub.fn(m)
	return true
}

// --- Geometry watch ---

// GeometryWatch keeps a tip's geometry in sync with its measurement.
type GeometryWatch struct {
	sub       Subscription
	visHandle CallbackHandle
}

// Stop ends the watch.
func (w *GeometryWatch) Stop() {
	w.sub.Unsubscribe()
	w.visHandle.Remove()
}

// WatchGeometry dispatches EventGeometry for id whenever the element ref
// resizes, and re-measures each time the tip is shown again.
func WatchGeometry(s *Store, id, ref string, o *ResizeObserver, tail Size) *GeometryWatch {
	w := &GeometryWatch{}
	w.visHandle = s.OnVisibilityChange(func(ev VisibilityEvent) {
		if ev.ID == id && ev.Visible {
			o.Refresh(ref)
		}
	})
	w.sub = o.Subscribe(ref, func(m Measurement) {
		err := s.Dispatch(Event{Type: EventGeometry, ID: id, Geometry: BalloonGeometry(m, tail)})
		if err != nil {
			s.log.Debug("geometry dropped", "id", id, "err", err)
		}
	})
	return w
}
