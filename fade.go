package tether

import (
	"slices"
	"strings"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultFadeDuration is the fade length in seconds used by NewFader.
const DefaultFadeDuration = 0.15

type fade struct {
	tween  *gween.Tween
	alpha  float64
	out    bool
	done   bool
	corner Corner
	loc    Rect
}

// Fader animates a per-tip opacity from the store's visibility changes.
// Tips fade in when shown and fade out when hidden; a hidden tip stays
// listed as a ghost until its fade-out completes so renderers can keep
// drawing it. Call Update(dt) once per frame.
type Fader struct {
	Duration float32
	Ease     ease.TweenFunc

	fades   map[string]*fade
	handles []CallbackHandle
}

// NewFader creates a fader listening on s.
func NewFader(s *Store) *Fader {
	f := &Fader{
		Duration: DefaultFadeDuration,
		Ease:     ease.OutQuad,
		fades:    make(map[string]*fade),
	}
	f.handles = append(f.handles,
		s.OnVisibilityChange(f.visibility),
		s.OnLayoutChange(f.layout),
	)
	return f
}

// Close stops listening to the store.
func (f *Fader) Close() {
	for _, h := range f.handles {
		h.Remove()
	}
	f.handles = nil
}

func (f *Fader) visibility(ev VisibilityEvent) {
	fd, ok := f.fades[ev.ID]
	if !ok {
		if !ev.Visible {
			return
		}
		fd = &fade{}
		f.fades[ev.ID] = fd
	}
	to := float32(1)
	if !ev.Visible {
		to = 0
	}
	fd.tween = gween.New(float32(fd.alpha), to, f.Duration, f.Ease)
	fd.out = !ev.Visible
	fd.done = false
}

func (f *Fader) layout(ev LayoutEvent) {
	if fd, ok := f.fades[ev.ID]; ok {
		fd.corner, fd.loc = ev.Corner, ev.Location
	}
}

// Update advances every fade by dt seconds. Finished fade-outs are
// dropped.
func (f *Fader) Update(dt float32) {
	for id, fd := range f.fades {
		if fd.done {
			continue
		}
		val, finished := fd.tween.Update(dt)
		fd.alpha = float64(val)
		if !finished {
			continue
		}
		fd.done = true
		if fd.out {
			delete(f.fades, id)
		}
	}
}

// Alpha returns the current opacity of id. Unknown ids are fully
// transparent.
func (f *Fader) Alpha(id string) float64 {
	if fd, ok := f.fades[id]; ok {
		return fd.alpha
	}
	return 0
}

// Ghost is a hidden tip that is still fading out.
type Ghost struct {
	ID       string
	Corner   Corner
	Location Rect
	Alpha    float64
}

// Ghosts returns the tips fading out, in id order.
func (f *Fader) Ghosts() []Ghost {
	var out []Ghost
	for id, fd := range f.fades {
		if fd.out {
			out = append(out, Ghost{ID: id, Corner: fd.corner, Location: fd.loc, Alpha: fd.alpha})
		}
	}
	slices.SortFunc(out, func(a, b Ghost) int { return strings.Compare(a.ID, b.ID) })
	return out
}
