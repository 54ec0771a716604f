package tether

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"gopkg.in/yaml.v3"
)

// TargetKind selects what a tip is positioned against.
type TargetKind uint8

const (
	TargetSelf    TargetKind = iota // the source's own bounds (config value false)
	TargetPoint                     // a literal [x, y] point
	TargetMouse                     // the pointer position that triggered the tip
	TargetElement                   // another element, looked up by selector
)

// Target is the position.target configuration value.
type Target struct {
	Kind     TargetKind
	Point    Vec2   // TargetPoint only
	Selector string // TargetElement only
}

// SelfTarget positions the tip against its source.
func SelfTarget() Target { return Target{Kind: TargetSelf} }

// PointTarget positions the tip against a fixed point.
func PointTarget(x, y float64) Target { return Target{Kind: TargetPoint, Point: Vec2{x, y}} }

// MouseTarget positions the tip against the pointer.
func MouseTarget() Target { return Target{Kind: TargetMouse} }

// ElementTarget positions the tip against the element matched by selector.
func ElementTarget(selector string) Target {
	return Target{Kind: TargetElement, Selector: selector}
}

// MethodKind selects the placement adjustment strategy.
type MethodKind uint8

const (
	MethodNone  MethodKind = iota // use the configured corner even if it overflows
	MethodFlip                    // re-choose the corner to maximize containment
	MethodShift                   // translate the tip to stay inside the container
)

// Method is the position.adjust.method configuration value.
type Method struct {
	Kind  MethodKind
	Flip  []Corner // candidates tried in order
	Shift []Axis
}

// Flip returns a flip adjustment over the given candidate corners.
func Flip(corners ...Corner) Method { return Method{Kind: MethodFlip, Flip: corners} }

// Shift returns a shift adjustment along the given axes.
func Shift(axes ...Axis) Method { return Method{Kind: MethodShift, Shift: axes} }

func (m Method) shifts(a Axis) bool {
	for _, v := range m.Shift {
		if v == a {
			return true
		}
	}
	return false
}

// Adjust is the position.adjust configuration block.
type Adjust struct {
	// Mouse makes the tip follow pointer moves over its source.
	Mouse bool
	// MouseTransform maps a pointer position to the point the tip tracks.
	// Setting it implies Mouse.
	MouseTransform func(Vec2) Vec2
	X, Y           float64
	Method         Method
}

// tracksMouse reports whether mouse moves re-target the tip.
func (a Adjust) tracksMouse() bool {
	return a.Mouse || a.MouseTransform != nil
}

// PositionConfig is the position configuration block.
type PositionConfig struct {
	My     Corner // corner of the tip attached to the target
	At     Corner // corner of the target the tip attaches to
	Target Target
	Adjust Adjust
	// Container references the element tips are positioned in. Empty means
	// the root.
	Container string
}

// ShowConfig is the show configuration block.
type ShowConfig struct {
	Delay time.Duration
}

// HideConfig is the hide configuration block.
type HideConfig struct {
	Delay time.Duration
}

// Config is a complete tip configuration.
type Config struct {
	Position PositionConfig
	Show     ShowConfig
	Hide     HideConfig
}

// DefaultConfig returns the configuration every other configuration is
// merged over.
func DefaultConfig() Config {
	return Config{
		Position: PositionConfig{
			My:     TopLeft,
			At:     BottomRight,
			Target: SelfTarget(),
		},
	}
}

// Equal reports whether c and o describe the same configuration. Mouse
// transforms compare by function identity.
func (c Config) Equal(o Config) bool {
	if reflect.ValueOf(c.Position.Adjust.MouseTransform).Pointer() !=
		reflect.ValueOf(o.Position.Adjust.MouseTransform).Pointer() {
		return false
	}
	c.Position.Adjust.MouseTransform = nil
	o.Position.Adjust.MouseTransform = nil
	if len(c.Position.Adjust.Method.Flip) == 0 && len(o.Position.Adjust.Method.Flip) == 0 {
		c.Position.Adjust.Method.Flip, o.Position.Adjust.Method.Flip = nil, nil
	}
	if len(c.Position.Adjust.Method.Shift) == 0 && len(o.Position.Adjust.Method.Shift) == 0 {
		c.Position.Adjust.Method.Shift, o.Position.Adjust.Method.Shift = nil, nil
	}
	return reflect.DeepEqual(c, o)
}

// Validate checks that every enum in c holds a known value.
func (c Config) Validate() error {
	p := c.Position
	if !p.My.Valid() {
		return fmt.Errorf("position.my %v: %w", p.My, ErrInvalidArgument)
	}
	if !p.At.Valid() {
		return fmt.Errorf("position.at %v: %w", p.At, ErrInvalidArgument)
	}
	if p.Target.Kind > TargetElement {
		return fmt.Errorf("position.target kind %d: %w", p.Target.Kind, ErrInvalidArgument)
	}
	m := p.Adjust.Method
	switch m.Kind {
	case MethodNone:
	case MethodFlip:
		for _, cr := range m.Flip {
			if !cr.Valid() {
				return fmt.Errorf("position.adjust.method.flip %v: %w", cr, ErrInvalidArgument)
			}
		}
	case MethodShift:
		for _, a := range m.Shift {
			if a != Horizontal && a != Vertical {
				return fmt.Errorf("position.adjust.method.shift %v: %w", a, ErrInvalidArgument)
			}
		}
	default:
		return fmt.Errorf("position.adjust.method kind %d: %w", m.Kind, ErrInvalidArgument)
	}
	return nil
}

// --- Values codec ---

// Values returns c as a mapping tree suitable for MergeObjects. Delays are
// expressed in milliseconds. A mouse transform is carried as the function
// value itself.
func (c Config) Values() Values {
	p := c.Position
	var target any
	switch p.Target.Kind {
	case TargetPoint:
		target = []any{p.Target.Point.X, p.Target.Point.Y}
	case TargetMouse:
		target = "mouse"
	case TargetElement:
		target = p.Target.Selector
	default:
		target = false
	}
	var mouse any = p.Adjust.Mouse
	if p.Adjust.MouseTransform != nil {
		mouse = p.Adjust.MouseTransform
	}
	var method any = "none"
	switch p.Adjust.Method.Kind {
	case MethodFlip:
		list := make([]any, len(p.Adjust.Method.Flip))
		for i, v := range p.Adjust.Method.Flip {
			list[i] = v.String()
		}
		method = Values{"flip": list}
	case MethodShift:
		list := make([]any, len(p.Adjust.Method.Shift))
		for i, v := range p.Adjust.Method.Shift {
			list[i] = v.String()
		}
		method = Values{"shift": list}
	}
	return Values{
		"position": Values{
			"my":     p.My.String(),
			"at":     p.At.String(),
			"target": target,
			"adjust": Values{
				"mouse":  mouse,
				"x":      p.Adjust.X,
				"y":      p.Adjust.Y,
				"method": method,
			},
			"container": p.Container,
		},
		"show": Values{"delay": durationMillis(c.Show.Delay)},
		"hide": Values{"delay": durationMillis(c.Hide.Delay)},
	}
}

// DecodeConfig builds a Config from a mapping tree. Keys missing from v keep
// their DefaultConfig value. Unknown keys are ignored so that renderers can
// carry their own settings in the same tree.
func DecodeConfig(v Values) (Config, error) {
	cfg := DefaultConfig()
	if v == nil {
		return cfg, nil
	}
	if pos, ok := asMapping(v["position"]); ok {
		if err := decodePosition(&cfg.Position, pos); err != nil {
			return cfg, err
		}
	}
	var err error
	if show, ok := asMapping(v["show"]); ok {
		if cfg.Show.Delay, err = decodeDelay(show["delay"], cfg.Show.Delay); err != nil {
			return cfg, fmt.Errorf("show.delay: %w", err)
		}
	}
	if hide, ok := asMapping(v["hide"]); ok {
		if cfg.Hide.Delay, err = decodeDelay(hide["delay"], cfg.Hide.Delay); err != nil {
			return cfg, fmt.Errorf("hide.delay: %w", err)
		}
	}
	return cfg, nil
}

func decodePosition(p *PositionConfig, v Values) error {
	var err error
	if p.My, err = decodeCorner(v["my"], p.My); err != nil {
		return fmt.Errorf("position.my: %w", err)
	}
	if p.At, err = decodeCorner(v["at"], p.At); err != nil {
		return fmt.Errorf("position.at: %w", err)
	}
	if raw, ok := v["target"]; ok {
		if p.Target, err = decodeTarget(raw); err != nil {
			return fmt.Errorf("position.target: %w", err)
		}
	}
	if raw, ok := v["container"]; ok {
		switch c := raw.(type) {
		case nil:
			p.Container = ""
		case string:
			p.Container = c
		default:
			return fmt.Errorf("position.container: %T: %w", raw, ErrInvalidArgument)
		}
	}
	adj, ok := asMapping(v["adjust"])
	if !ok {
		return nil
	}
	if raw, ok := adj["mouse"]; ok {
		switch m := raw.(type) {
		case nil:
			p.Adjust.Mouse, p.Adjust.MouseTransform = false, nil
		case bool:
			p.Adjust.Mouse, p.Adjust.MouseTransform = m, nil
		case func(Vec2) Vec2:
			p.Adjust.Mouse, p.Adjust.MouseTransform = true, m
		default:
			return fmt.Errorf("position.adjust.mouse: %T: %w", raw, ErrInvalidArgument)
		}
	}
	if raw, ok := adj["x"]; ok && raw != nil {
		x, ok := toFloat(raw)
		if !ok {
			return fmt.Errorf("position.adjust.x: %T: %w", raw, ErrInvalidArgument)
		}
		p.Adjust.X = x
	}
	if raw, ok := adj["y"]; ok && raw != nil {
		y, ok := toFloat(raw)
		if !ok {
			return fmt.Errorf("position.adjust.y: %T: %w", raw, ErrInvalidArgument)
		}
		p.Adjust.Y = y
	}
	if raw, ok := adj["method"]; ok {
		if p.Adjust.Method, err = decodeMethod(raw); err != nil {
			return fmt.Errorf("position.adjust.method: %w", err)
		}
	}
	return nil
}

func decodeCorner(raw any, def Corner) (Corner, error) {
	switch c := raw.(type) {
	case nil:
		return def, nil
	case Corner:
		if !c.Valid() {
			return 0, fmt.Errorf("unknown position %v: %w", c, ErrInvalidArgument)
		}
		return c, nil
	case string:
		return ParseCorner(c)
	}
	return 0, fmt.Errorf("%T: %w", raw, ErrInvalidArgument)
}

func decodeTarget(raw any) (Target, error) {
	switch t := raw.(type) {
	case nil, bool:
		return SelfTarget(), nil
	case Target:
		return t, nil
	case string:
		if t == "mouse" {
			return MouseTarget(), nil
		}
		if t == "" {
			return SelfTarget(), nil
		}
		return ElementTarget(t), nil
	case Vec2:
		return PointTarget(t.X, t.Y), nil
	case []float64:
		if len(t) == 2 {
			return PointTarget(t[0], t[1]), nil
		}
	case []any:
		if len(t) == 2 {
			x, okx := toFloat(t[0])
			y, oky := toFloat(t[1])
			if okx && oky {
				return PointTarget(x, y), nil
			}
		}
	}
	return Target{}, fmt.Errorf("%v: %w", raw, ErrInvalidArgument)
}

func decodeMethod(raw any) (Method, error) {
	if raw == nil {
		return Method{}, nil
	}
	if s, ok := raw.(string); ok {
		if s == "none" || s == "" {
			return Method{}, nil
		}
		return Method{}, fmt.Errorf("unknown method %q: %w", s, ErrInvalidArgument)
	}
	if m, ok := raw.(Method); ok {
		return m, nil
	}
	v, ok := asMapping(raw)
	if !ok {
		return Method{}, fmt.Errorf("%T: %w", raw, ErrInvalidArgument)
	}
	if list, ok := v["flip"]; ok && list != nil {
		items, ok := asList(list)
		if !ok {
			return Method{}, fmt.Errorf("flip: %T: %w", list, ErrInvalidArgument)
		}
		m := Method{Kind: MethodFlip, Flip: make([]Corner, 0, len(items))}
		for _, item := range items {
			c, err := decodeCorner(item, 0)
			if err != nil || item == nil {
				return Method{}, fmt.Errorf("flip: %v: %w", item, ErrInvalidArgument)
			}
			m.Flip = append(m.Flip, c)
		}
		return m, nil
	}
	if list, ok := v["shift"]; ok && list != nil {
		items, ok := asList(list)
		if !ok {
			return Method{}, fmt.Errorf("shift: %T: %w", list, ErrInvalidArgument)
		}
		m := Method{Kind: MethodShift, Shift: make([]Axis, 0, len(items))}
		for _, item := range items {
			var a Axis
			var err error
			switch it := item.(type) {
			case Axis:
				a = it
			case string:
				a, err = ParseAxis(it)
			default:
				err = fmt.Errorf("%v: %w", item, ErrInvalidArgument)
			}
			if err != nil {
				return Method{}, fmt.Errorf("shift: %w", err)
			}
			m.Shift = append(m.Shift, a)
		}
		return m, nil
	}
	return Method{}, nil
}

func decodeDelay(raw any, def time.Duration) (time.Duration, error) {
	switch d := raw.(type) {
	case nil:
		return def, nil
	case time.Duration:
		return d, nil
	case string:
		return time.ParseDuration(d)
	}
	ms, ok := toFloat(raw)
	if !ok || ms < 0 {
		return 0, fmt.Errorf("%v: %w", raw, ErrInvalidArgument)
	}
	return time.Duration(ms * float64(time.Millisecond)), nil
}

func durationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func toFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func asList(raw any) ([]any, bool) {
	switch l := raw.(type) {
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	case []Corner:
		out := make([]any, len(l))
		for i, c := range l {
			out[i] = c
		}
		return out, true
	case []Axis:
		out := make([]any, len(l))
		for i, a := range l {
			out[i] = a
		}
		return out, true
	}
	return nil, false
}

// --- Serialization ---

// serializable replaces function values with true so the tree can be
// written by JSON, YAML or TOML encoders.
func serializable(v Values) Values {
	out := make(Values, len(v))
	for k, val := range v {
		if m, ok := asMapping(val); ok {
			out[k] = serializable(m)
			continue
		}
		if val != nil && reflect.TypeOf(val).Kind() == reflect.Func {
			out[k] = true
			continue
		}
		out[k] = val
	}
	return out
}

// MarshalJSON encodes c in its mapping form.
func (c Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(serializable(c.Values()))
}

// UnmarshalJSON decodes the mapping form, filling unset keys with defaults.
func (c *Config) UnmarshalJSON(data []byte) error {
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	cfg, err := DecodeConfig(v)
	if err != nil {
		return err
	}
	*c = cfg
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Config) MarshalYAML() (any, error) {
	return map[string]any(serializable(c.Values())), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	var v map[string]any
	if err := node.Decode(&v); err != nil {
		return err
	}
	cfg, err := DecodeConfig(v)
	if err != nil {
		return err
	}
	*c = cfg
	return nil
}
