package tether

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// scriptStep is a single action in a script.
type scriptStep struct {
	Action string  `json:"action"`
	ID     string  `json:"id,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Pinned bool    `json:"pinned,omitempty"`
	Ms     float64 `json:"ms,omitempty"`
	State  string  `json:"state,omitempty"`
	Config Values  `json:"config,omitempty"`
}

// scriptFile is the top-level JSON structure of a script.
type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// Script is a sequence of store events and timer advances used to replay
// interaction scenarios without a display. Steps:
//
//	register {id, config}    release {id}
//	over {id, x, y}          out {id}          move {id, x, y}
//	geometry {id, width, height}
//	pin {id, pinned}         toggle {id}
//	drag {id, fromX, fromY, toX, toY, frames}
//	reset {id, config}       wait {ms}         expect {id, state}
type Script struct {
	steps []scriptStep
}

// ErrExpectation is returned by Script.Run when an expect step fails.
var ErrExpectation = errors.New("expectation failed")

// LoadScript parses a JSON script.
func LoadScript(jsonData []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	return &Script{steps: f.Steps}, nil
}

// Len returns the number of steps.
func (sc *Script) Len() int { return len(sc.steps) }

// Run executes every step against s. Waits advance the store's clock, so
// s must run on its own Clock. Run stops at the first failing step.
func (sc *Script) Run(s *Store) error {
	handles := make(map[string]*Handle)
	for i, st := range sc.steps {
		if err := sc.step(s, handles, st); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st.Action, err)
		}
	}
	return nil
}

func (sc *Script) step(s *Store, handles map[string]*Handle, st scriptStep) error {
	switch st.Action {
	case "register":
		cfg, err := MergeConfig(st.Config)
		if err != nil {
			return err
		}
		h, err := s.RegisterOrShare(st.ID, cfg)
		if err != nil {
			return err
		}
		handles[h.ID()] = h
		return nil
	case "release":
		if h, ok := handles[st.ID]; ok {
			delete(handles, st.ID)
			return h.Release()
		}
		return s.Release(st.ID)
	case "over":
		return s.Dispatch(Event{Type: EventMouseOver, ID: st.ID, Point: Vec2{st.X, st.Y}})
	case "out":
		return s.Dispatch(Event{Type: EventMouseOut, ID: st.ID})
	case "move":
		return s.Dispatch(Event{Type: EventMouseMove, ID: st.ID, Point: Vec2{st.X, st.Y}})
	case "geometry":
		g := BoxGeometry(Size{st.Width, st.Height})
		return s.Dispatch(Event{Type: EventGeometry, ID: st.ID, Geometry: g})
	case "pin":
		return s.Dispatch(Event{Type: EventPin, ID: st.ID, Pinned: st.Pinned})
	case "toggle":
		return s.TogglePin(st.ID)
	case "drag":
		return scriptDrag(s, st)
	case "reset":
		cfg, err := MergeConfig(st.Config)
		if err != nil {
			return err
		}
		return s.Dispatch(Event{Type: EventReset, ID: st.ID, Config: &cfg})
	case "wait":
		if s.Clock() == nil {
			return fmt.Errorf("wait needs the store clock: %w", ErrInvalidArgument)
		}
		s.Advance(time.Duration(st.Ms * float64(time.Millisecond)))
		return nil
	case "expect":
		if got := s.State(st.ID).String(); got != st.State {
			return fmt.Errorf("%q is %s, want %s: %w", st.ID, got, st.State, ErrExpectation)
		}
		return nil
	}
	return fmt.Errorf("unknown action %q: %w", st.Action, ErrInvalidArgument)
}

// scriptDrag presses at from, moves through frames-2 interpolated points
// and releases at to.
func scriptDrag(s *Store, st scriptStep) error {
	frames := max(st.Frames, 2)
	d := NewDragger(s)
	from, to := Vec2{st.FromX, st.FromY}, Vec2{st.ToX, st.ToY}
	if err := d.Press(st.ID, from); err != nil {
		return err
	}
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		p := Vec2{from.X + (to.X-from.X)*t, from.Y + (to.Y-from.Y)*t}
		if err := d.Motion(p); err != nil {
			return err
		}
	}
	if err := d.Motion(to); err != nil {
		return err
	}
	_, err := d.Release(to)
	return err
}
