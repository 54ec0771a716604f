package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phanxgames/tether"
)

type placeOptions struct {
	target    string
	size      string
	container string
	my        string
	at        string
	flip      string
	shift     string
	tail      string
	json      bool
}

type placeOutput struct {
	Corner   tether.Corner `json:"corner"`
	Location tether.Rect   `json:"location"`
}

func newPlaceCmd() *cobra.Command {
	var opts placeOptions

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Compute a tip placement",
		Long: `Run the placement engine once and print the chosen corner and the
container-relative tip bounds.

Rectangles are given as x,y,width,height and sizes as width,height. The
position block of the configured [tip] table is the starting point; flags
override it.`,
		Example: `  tether place --target 100,100,40,20 --size 60,30
  tether place --target 700,560,40,20 --size 120,60 --flip bottom-right,top-left --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := configFromContext(cmd.Context()).TipConfig()
			if err != nil {
				return err
			}
			out, err := runPlace(opts, base.Position)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if opts.json {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			l := out.Location
			fmt.Fprintf(w, "%s %s\n", styleDim.Render("corner:  "), out.Corner)
			fmt.Fprintf(w, "%s %g,%g,%g,%g\n", styleDim.Render("location:"), l.X, l.Y, l.Width, l.Height)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.target, "target", "", "target rectangle x,y,w,h (required)")
	f.StringVar(&opts.size, "size", "", "tip size w,h (required)")
	f.StringVar(&opts.container, "container", "0,0,800,600", "container rectangle x,y,w,h")
	f.StringVar(&opts.my, "my", "", "tip corner, e.g. top-left")
	f.StringVar(&opts.at, "at", "", "target corner, e.g. bottom-right")
	f.StringVar(&opts.flip, "flip", "", "comma-separated flip candidates")
	f.StringVar(&opts.shift, "shift", "", "comma-separated shift axes (horizontal, vertical)")
	f.StringVar(&opts.tail, "tail", "", "balloon tail size w,h; omit for a plain box")
	f.BoolVar(&opts.json, "json", false, "print JSON")
	cmd.MarkFlagRequired("target")
	cmd.MarkFlagRequired("size")
	return cmd
}

func runPlace(opts placeOptions, pos tether.PositionConfig) (placeOutput, error) {
	target, err := parseRect(opts.target)
	if err != nil {
		return placeOutput{}, fmt.Errorf("--target: %w", err)
	}
	size, err := parseSize(opts.size)
	if err != nil {
		return placeOutput{}, fmt.Errorf("--size: %w", err)
	}
	container, err := parseRect(opts.container)
	if err != nil {
		return placeOutput{}, fmt.Errorf("--container: %w", err)
	}
	if opts.my != "" {
		if pos.My, err = tether.ParseCorner(opts.my); err != nil {
			return placeOutput{}, err
		}
	}
	if opts.at != "" {
		if pos.At, err = tether.ParseCorner(opts.at); err != nil {
			return placeOutput{}, err
		}
	}
	switch {
	case opts.flip != "" && opts.shift != "":
		return placeOutput{}, fmt.Errorf("--flip and --shift are exclusive: %w", tether.ErrInvalidArgument)
	case opts.flip != "":
		var corners []tether.Corner
		for _, name := range splitList(opts.flip) {
			c, err := tether.ParseCorner(name)
			if err != nil {
				return placeOutput{}, err
			}
			corners = append(corners, c)
		}
		pos.Adjust.Method = tether.Flip(corners...)
	case opts.shift != "":
		var axes []tether.Axis
		for _, name := range splitList(opts.shift) {
			a, err := tether.ParseAxis(name)
			if err != nil {
				return placeOutput{}, err
			}
			axes = append(axes, a)
		}
		pos.Adjust.Method = tether.Shift(axes...)
	}

	geom := tether.BoxGeometry(size)
	if opts.tail != "" {
		tail, err := parseSize(opts.tail)
		if err != nil {
			return placeOutput{}, fmt.Errorf("--tail: %w", err)
		}
		geom = tether.BalloonGeometry(tether.Measurement{Size: size}, tail)
	}

	p, err := tether.Place(target, geom, container, pos)
	if err != nil {
		return placeOutput{}, err
	}
	return placeOutput{Corner: p.Corner, Location: p.Location}, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("%q: want %d comma-separated numbers: %w", s, n, tether.ErrInvalidArgument)
	}
	vals := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", s, tether.ErrInvalidArgument)
		}
		vals[i] = v
	}
	return vals, nil
}

func parseRect(s string) (tether.Rect, error) {
	v, err := parseFloats(s, 4)
	if err != nil {
		return tether.Rect{}, err
	}
	return tether.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

func parseSize(s string) (tether.Size, error) {
	v, err := parseFloats(s, 2)
	if err != nil {
		return tether.Size{}, err
	}
	return tether.Size{Width: v[0], Height: v[1]}, nil
}
