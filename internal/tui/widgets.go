package tui

import (
	"time"

	"github.com/phanxgames/tether"
)

// Widget is a hoverable element of the demo screen. Bounds are in terminal
// cells.
type Widget struct {
	ID     string
	Label  string
	Tip    string
	Bounds tether.Rect
	Config tether.Config
}

func button(id, label, tip string, x, y float64, cfg tether.Config) Widget {
	return Widget{
		ID:     id,
		Label:  label,
		Tip:    tip,
		Bounds: tether.Rect{X: x, Y: y, Width: float64(len(label) + 4), Height: 1},
		Config: cfg,
	}
}

// DefaultWidgets returns the demo screen for a terminal of the given size:
// one widget per placement behaviour.
func DefaultWidgets(width, height int) []Widget {
	plain := tether.DefaultConfig()

	delayed := tether.DefaultConfig()
	delayed.Show.Delay = 400 * time.Millisecond
	delayed.Hide.Delay = 250 * time.Millisecond

	flip := tether.DefaultConfig()
	flip.Position.Adjust.Method = tether.Flip(tether.TopRight, tether.BottomRight, tether.BottomLeft)

	follow := tether.DefaultConfig()
	follow.Position.Target = tether.MouseTarget()
	follow.Position.Adjust.Mouse = true
	follow.Position.Adjust.X = 2
	follow.Position.Adjust.Y = 1

	shift := tether.DefaultConfig()
	shift.Position.Adjust.Method = tether.Shift(tether.Horizontal, tether.Vertical)

	w, h := float64(width), float64(height)
	return []Widget{
		button("save", "Save", "Writes the file to disk", 2, 1, plain),
		button("open", "Open", "Shows after a short delay", 2, 5, delayed),
		button("help", "Help", "Flips to stay on screen", w-14, 1, flip),
		button("track", "Track", "Follows the pointer", w/2-4, h/2-1, follow),
		button("edge", "Edge", "Shifted back inside the screen", w-10, h-3, shift),
	}
}
