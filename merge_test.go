package tether

import (
	"reflect"
	"testing"
	"time"
)

func TestMergeObjects_Precedence(t *testing.T) {
	base := Values{"a": Values{"b": 1, "c": 2}}
	override := Values{"a": Values{"b": 2, "d": 4}}

	got := MergeObjects(base, override)
	want := Values{"a": Values{"b": 2, "c": 2, "d": 4}}
	if !EqualValues(got, want) {
		t.Errorf("MergeObjects = %v, want %v", got, want)
	}
}

func TestMergeObjects_NilOverride(t *testing.T) {
	x := Values{"a": Values{"b": 1}, "c": []any{1, 2}}

	for _, override := range []Values{nil, {}} {
		got := MergeObjects(x, override)
		if !EqualValues(got, x) {
			t.Errorf("MergeObjects(x, %v) = %v, want %v", override, got, x)
		}
	}
}

func TestMergeObjects_ExplicitNullAndFalseWin(t *testing.T) {
	base := Values{"a": 1, "b": true, "c": Values{"d": 1}}
	override := Values{"a": nil, "b": false, "c": nil}

	got := MergeObjects(base, override)
	if v, ok := got["a"]; !ok || v != nil {
		t.Errorf("a = %v, %v; want explicit nil", v, ok)
	}
	if got["b"] != false {
		t.Errorf("b = %v, want false", got["b"])
	}
	if got["c"] != nil {
		t.Errorf("c = %v, want nil replacing the mapping", got["c"])
	}
}

func TestMergeObjects_ArraysReplaceWholesale(t *testing.T) {
	base := Values{"flip": []any{"top-left", "top-right", "bottom-left"}}
	override := Values{"flip": []any{"bottom-right"}}

	got := MergeObjects(base, override)
	if !reflect.DeepEqual(got["flip"], []any{"bottom-right"}) {
		t.Errorf("flip = %v, want override list", got["flip"])
	}
}

func TestMergeObjects_DoesNotMutateInputs(t *testing.T) {
	base := Values{"a": Values{"b": 1}}
	override := Values{"a": Values{"c": 2}}

	got := MergeObjects(base, override)
	got["a"].(Values)["b"] = 99

	if base["a"].(Values)["b"] != 1 {
		t.Error("base was mutated through the result")
	}
	if _, ok := base["a"].(Values)["c"]; ok {
		t.Error("override key leaked into base")
	}
}

func TestMergeObjects_PlainMaps(t *testing.T) {
	base := Values{"show": map[string]any{"delay": 100}}
	override := Values{"show": map[string]any{"extra": "x"}}

	got := MergeObjects(base, override)
	show, ok := asMapping(got["show"])
	if !ok || show["delay"] != 100 || show["extra"] != "x" {
		t.Errorf("show = %v", got["show"])
	}
}

func TestEqualValues_Functions(t *testing.T) {
	fn := func(v Vec2) Vec2 { return v }
	other := func(v Vec2) Vec2 { return v.Add(Vec2{1, 1}) }

	if !EqualValues(Values{"f": fn}, Values{"f": fn}) {
		t.Error("same function should compare equal")
	}
	if EqualValues(Values{"f": fn}, Values{"f": other}) {
		t.Error("different functions should differ")
	}
}

func TestMerger_ReturnsPreviousWhenEqual(t *testing.T) {
	var m Merger
	base := Values{"a": Values{"b": 1}}

	first := m.Merge(base, Values{"a": Values{"c": 2}})
	second := m.Merge(base, Values{"a": Values{"c": 2}})
	if reflect.ValueOf(first).Pointer() != reflect.ValueOf(second).Pointer() {
		t.Error("equal merges should return the same map")
	}

	third := m.Merge(base, Values{"a": Values{"c": 3}})
	if reflect.ValueOf(first).Pointer() == reflect.ValueOf(third).Pointer() {
		t.Error("changed merge should return a new map")
	}
	if third["a"].(Values)["c"] != 3 {
		t.Errorf("third = %v", third)
	}
}

func TestMergeConfig(t *testing.T) {
	ambient := Values{
		"position": Values{"my": "top-center", "at": "bottom-center"},
		"show":     Values{"delay": 200},
	}
	local := Values{
		"position": Values{"adjust": Values{"method": Values{"shift": []any{"horizontal"}}}},
		"hide":     Values{"delay": 50},
	}

	cfg, err := MergeConfig(ambient, local)
	if err != nil {
		t.Fatalf("MergeConfig: %v", err)
	}
	if cfg.Position.My != TopCenter || cfg.Position.At != BottomCenter {
		t.Errorf("corners = %v/%v", cfg.Position.My, cfg.Position.At)
	}
	if cfg.Position.Adjust.Method.Kind != MethodShift || !cfg.Position.Adjust.Method.shifts(Horizontal) {
		t.Errorf("method = %+v", cfg.Position.Adjust.Method)
	}
	if cfg.Show.Delay != 200*time.Millisecond || cfg.Hide.Delay != 50*time.Millisecond {
		t.Errorf("delays = %v/%v", cfg.Show.Delay, cfg.Hide.Delay)
	}
	if cfg.Position.Target.Kind != TargetSelf {
		t.Errorf("target = %+v, want default self", cfg.Position.Target)
	}
}
