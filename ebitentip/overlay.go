// Package ebitentip runs tether tips inside an Ebitengine game. An Overlay
// turns the game's mouse input into hover, pin and drag events on a
// tether.Store, measures tip text with the debug font and draws every
// visible tip as a bordered box with a corner tail.
//
// Typical use:
//
//	store := tether.NewStore(tether.StoreConfig{})
//	ov, err := ebitentip.New(store, regions, 640, 480)
//	...
//	func (g *Game) Update() error { return g.ov.Update() }
//	func (g *Game) Draw(screen *ebiten.Image) { g.ov.Draw(screen) }
//
// Input can be injected for tests and scripted demos with InjectMove,
// InjectPress, InjectRelease and InjectDrag; injected events take priority
// over the real mouse, one per frame.
package ebitentip

import (
	"fmt"
	"image/color"
	"slices"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/tether"
)

// Debug font metrics of ebitenutil.DebugPrint.
const (
	glyphWidth  = 6
	glyphHeight = 16
)

const tipRefSuffix = "#tip"

// Region is a hoverable area of the screen with a tip attached.
type Region struct {
	ID     string
	Label  string
	Tip    string
	Bounds tether.Rect
	Config tether.Config
}

// Style controls how tips are measured and drawn.
type Style struct {
	Padding      tether.Size // inner padding per side
	Tail         tether.Size
	BorderWidth  float64
	BorderRadius float64
	Background   color.RGBA
	Border       color.RGBA
	Text         color.RGBA
}

// DefaultStyle is the style used by New.
var DefaultStyle = Style{
	Padding:      tether.Size{Width: 6, Height: 4},
	Tail:         tether.Size{Width: 8, Height: 8},
	BorderWidth:  1,
	BorderRadius: 4,
	Background:   color.RGBA{R: 0x24, G: 0x1f, B: 0x31, A: 0xf0},
	Border:       color.RGBA{R: 0xc4, G: 0xb5, B: 0xfd, A: 0xff},
	Text:         color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
}

// Overlay drives a store from Ebitengine input and draws its tips.
type Overlay struct {
	store    *tether.Store
	style    Style
	regions  []Region
	handles  map[string]*tether.Handle
	observer *tether.ResizeObserver
	watches  []*tether.GeometryWatch
	fader    *tether.Fader
	drag     *tether.Dragger
	screen   tether.Rect

	pointer     pointerState
	injectQueue []syntheticPointerEvent
}

// New registers every region with s and returns the overlay for a screen
// of the given size. The store's host is replaced with the region table.
func New(s *tether.Store, regions []Region, width, height int) (*Overlay, error) {
	return NewWithStyle(s, regions, width, height, DefaultStyle)
}

// NewWithStyle is New with an explicit tip style.
func NewWithStyle(s *tether.Store, regions []Region, width, height int, style Style) (*Overlay, error) {
	o := &Overlay{
		store:   s,
		style:   style,
		regions: regions,
		handles: make(map[string]*tether.Handle, len(regions)),
		fader:   tether.NewFader(s),
		drag:    tether.NewDragger(s),
		screen:  tether.Rect{Width: float64(width), Height: float64(height)},
	}
	s.SetHost(tether.HostFunc(o.bounds))
	o.observer = tether.NewResizeObserver(tether.MeasurerFunc(o.measure))
	for _, r := range regions {
		h, err := s.RegisterOrShare(r.ID, r.Config)
		if err != nil {
			o.Close()
			return nil, fmt.Errorf("region %q: %w", r.ID, err)
		}
		o.handles[r.ID] = h
		o.watches = append(o.watches, tether.WatchGeometry(s, r.ID, r.ID+tipRefSuffix, o.observer, style.Tail))
	}
	return o, nil
}

// Close releases the overlay's shares of the store. Pinned tips stay in
// the store's stored list.
func (o *Overlay) Close() {
	for _, w := range o.watches {
		w.Stop()
	}
	o.watches = nil
	o.fader.Close()
	for id, h := range o.handles {
		o.report("release", id, h.Release())
		delete(o.handles, id)
	}
}

// Store returns the overlay's store.
func (o *Overlay) Store() *tether.Store { return o.store }

// Resize updates the screen size after a window resize.
func (o *Overlay) Resize(width, height int) {
	o.screen.Width, o.screen.Height = float64(width), float64(height)
}

// Hovered returns the region under the pointer, or "".
func (o *Overlay) Hovered() string { return o.pointer.hover }

// Update processes one frame of input and advances timers and fades. It
// implements the Update half of ebiten.Game.
func (o *Overlay) Update() error {
	if !o.processInjectedInput() {
		o.processMouse()
	}
	o.advance(1.0 / float64(ebiten.TPS()))
	return nil
}

func (o *Overlay) advance(dt float64) {
	o.store.Update(dt)
	o.observer.Poll()
	o.fader.Update(float32(dt))
}

// --- Host and measurement ---

func (o *Overlay) bounds(ref string) (tether.Rect, bool) {
	if ref == "" {
		return o.screen, true
	}
	if r, ok := o.region(ref); ok {
		return r.Bounds, true
	}
	return tether.Rect{}, false
}

func (o *Overlay) region(id string) (Region, bool) {
	i := slices.IndexFunc(o.regions, func(r Region) bool { return r.ID == id })
	if i < 0 {
		return Region{}, false
	}
	return o.regions[i], true
}

// measure sizes a tip's text box in debug-font pixels. The tail is drawn
// inside the margin, so every margin is as deep as the tail.
func (o *Overlay) measure(ref string) (tether.Measurement, bool) {
	id, ok := strings.CutSuffix(ref, tipRefSuffix)
	if !ok {
		return tether.Measurement{}, false
	}
	r, ok := o.region(id)
	if !ok {
		return tether.Measurement{}, false
	}
	cols, rows := textExtent(r.Tip)
	st := o.style
	tail := max(st.Tail.Width, st.Tail.Height)
	return tether.Measurement{
		Size: tether.Size{
			Width:  float64(cols*glyphWidth) + 2*st.Padding.Width,
			Height: float64(rows*glyphHeight) + 2*st.Padding.Height,
		},
		Margin:          tether.Edges{Top: tail, Right: tail, Bottom: tail, Left: tail},
		BorderWidth:     st.BorderWidth,
		BorderRadius:    st.BorderRadius,
		BackgroundColor: st.Background,
		BorderColor:     st.Border,
		BorderStyle:     "solid",
	}, true
}

// textExtent returns the longest line length and the line count of s.
func textExtent(s string) (cols, rows int) {
	for _, line := range strings.Split(s, "\n") {
		cols = max(cols, len(line))
		rows++
	}
	return cols, rows
}

// --- Hit testing ---

func (o *Overlay) regionAt(p tether.Vec2) string {
	for i := len(o.regions) - 1; i >= 0; i-- {
		if o.regions[i].Bounds.Contains(p.X, p.Y) {
			return o.regions[i].ID
		}
	}
	return ""
}

// tipAt returns the topmost laid-out tip whose box lies under p.
func (o *Overlay) tipAt(p tether.Vec2) string {
	views := o.store.Visible()
	for i := len(views) - 1; i >= 0; i-- {
		v := views[i]
		if v.LaidOut && o.absolute(v).Contains(p.X, p.Y) {
			return v.ID
		}
	}
	return ""
}

// absolute converts a tip's container-relative location to screen
// coordinates.
func (o *Overlay) absolute(v tether.TipView) tether.Rect {
	c, ok := o.bounds(v.Config.Position.Container)
	if !ok {
		return v.Location
	}
	return v.Location.Translate(c.Origin())
}
