package ebitentip

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/tether"
)

var (
	regionColor      = color.RGBA{R: 0x6b, G: 0x72, B: 0x80, A: 0xff}
	regionHoverColor = color.RGBA{R: 0xfb, G: 0xbf, B: 0x24, A: 0xff}
	pinnedColor      = color.RGBA{R: 0x10, G: 0xb9, B: 0x81, A: 0xff}
)

// Draw renders regions, fading-out ghosts and visible tips. It implements
// the Draw half of ebiten.Game.
func (o *Overlay) Draw(screen *ebiten.Image) {
	for _, r := range o.regions {
		c := regionColor
		if r.ID == o.pointer.hover {
			c = regionHoverColor
		}
		b := r.Bounds
		vector.StrokeRect(screen, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), 1, c, false)
		ebitenutil.DebugPrintAt(screen, r.Label, int(b.X)+4, int(b.Y+(b.Height-glyphHeight)/2))
	}
	for _, g := range o.fader.Ghosts() {
		o.drawTip(screen, g.ID, g.Corner, g.Location, g.Alpha, false)
	}
	for _, v := range o.store.Visible() {
		if !v.LaidOut {
			continue
		}
		o.drawTip(screen, v.ID, v.Corner, o.absolute(v), o.fader.Alpha(v.ID), v.Pinned)
	}
}

// drawTip draws the balloon of tip id occupying loc, with its tail at
// corner.
func (o *Overlay) drawTip(screen *ebiten.Image, id string, corner tether.Corner, loc tether.Rect, alpha float64, pinned bool) {
	if alpha <= 0 {
		return
	}
	m, ok := o.measure(id + tipRefSuffix)
	if !ok {
		return
	}
	box := tether.Rect{
		X:      loc.X + m.Margin.Left,
		Y:      loc.Y + m.Margin.Top,
		Width:  m.Size.Width,
		Height: m.Size.Height,
	}
	border := m.BorderColor
	if pinned {
		border = pinnedColor
	}
	bg, fg := fadeColor(m.BackgroundColor, alpha), fadeColor(border, alpha)
	bw := float32(m.BorderWidth)

	vector.DrawFilledRect(screen, float32(box.X), float32(box.Y), float32(box.Width), float32(box.Height), bg, false)
	vector.StrokeRect(screen, float32(box.X), float32(box.Y), float32(box.Width), float32(box.Height), bw, fg, false)

	g := tether.BalloonGeometry(m, o.style.Tail)
	tip := loc.Origin().Add(g.Corners[corner])
	b1, b2 := tailBase(corner, tip, box, o.style.Tail)
	vector.StrokeLine(screen, float32(tip.X), float32(tip.Y), float32(b1.X), float32(b1.Y), bw, fg, true)
	vector.StrokeLine(screen, float32(tip.X), float32(tip.Y), float32(b2.X), float32(b2.Y), bw, fg, true)

	if alpha >= 0.5 {
		r, _ := o.region(id)
		ebitenutil.DebugPrintAt(screen, r.Tip, int(box.X+o.style.Padding.Width), int(box.Y+o.style.Padding.Height))
	}
}

// tailBase returns the two points where a tail ending at tip meets box.
func tailBase(c tether.Corner, tip tether.Vec2, box tether.Rect, tail tether.Size) (tether.Vec2, tether.Vec2) {
	hw, hh := tail.Width/2, tail.Height/2
	switch c {
	case tether.TopLeft, tether.TopCenter, tether.TopRight:
		return tether.Vec2{X: tip.X - hw, Y: box.Y}, tether.Vec2{X: tip.X + hw, Y: box.Y}
	case tether.BottomLeft, tether.BottomCenter, tether.BottomRight:
		y := box.Y + box.Height
		return tether.Vec2{X: tip.X - hw, Y: y}, tether.Vec2{X: tip.X + hw, Y: y}
	case tether.CenterLeft:
		return tether.Vec2{X: box.X, Y: tip.Y - hh}, tether.Vec2{X: box.X, Y: tip.Y + hh}
	}
	x := box.X + box.Width
	return tether.Vec2{X: x, Y: tip.Y - hh}, tether.Vec2{X: x, Y: tip.Y + hh}
}

// fadeColor scales a straight-alpha color by alpha into the premultiplied
// form color.RGBA expects.
func fadeColor(c color.RGBA, alpha float64) color.RGBA {
	a := float64(c.A) / 0xff * alpha
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * alpha),
	}
}
