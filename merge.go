package tether

import "reflect"

// Values is a generic configuration tree. Nested Values (or plain
// map[string]any) are mappings and merge recursively; every other value,
// slices included, is an opaque scalar. A key that is absent is
// "undefined"; a key present with a nil value is an explicit null.
type Values map[string]any

// asMapping reports whether raw is a mapping node and returns it as Values.
func asMapping(raw any) (Values, bool) {
	switch m := raw.(type) {
	case Values:
		return m, m != nil
	case map[string]any:
		return Values(m), m != nil
	}
	return nil, false
}

// MergeObjects returns a new tree holding base overlaid with override.
// For keys present in both, two mappings merge recursively; otherwise the
// override value wins, including explicit nil and false. Keys absent from
// override keep the base value. A nil override yields a copy of base.
// Neither input is modified and the result shares no mapping with them.
func MergeObjects(base, override Values) Values {
	out := cloneValues(base)
	if out == nil {
		out = Values{}
	}
	for k, ov := range override {
		if om, ok := asMapping(ov); ok {
			if bm, ok := asMapping(out[k]); ok {
				out[k] = MergeObjects(bm, om)
				continue
			}
			out[k] = cloneValues(om)
			continue
		}
		out[k] = ov
	}
	return out
}

func cloneValues(v Values) Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	for k, val := range v {
		if m, ok := asMapping(val); ok {
			out[k] = cloneValues(m)
			continue
		}
		out[k] = val
	}
	return out
}

// EqualValues reports whether two trees are structurally equal. Function
// values compare by identity.
func EqualValues(a, b Values) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !equalValue(av, bv) {
			return false
		}
	}
	return true
}

func equalValue(a, b any) bool {
	am, aok := asMapping(a)
	bm, bok := asMapping(b)
	if aok || bok {
		return aok && bok && EqualValues(am, bm)
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Kind() == reflect.Func || rb.Kind() == reflect.Func {
		return ra.Kind() == rb.Kind() && ra.Type() == rb.Type() && ra.Pointer() == rb.Pointer()
	}
	return reflect.DeepEqual(a, b)
}

// Merger merges an ambient tree with a local override and keeps returning
// the same result map for as long as the merged content does not change,
// so consumers comparing by identity skip needless recomputation.
type Merger struct {
	last Values
}

// Merge returns MergeObjects(base, override), or the previous result when
// it is structurally equal to the new one.
func (m *Merger) Merge(base, override Values) Values {
	next := MergeObjects(base, override)
	if m.last != nil && EqualValues(m.last, next) {
		return m.last
	}
	m.last = next
	return next
}

// MergeConfig decodes DefaultConfig overlaid with each tree in order.
func MergeConfig(trees ...Values) (Config, error) {
	merged := DefaultConfig().Values()
	for _, t := range trees {
		merged = MergeObjects(merged, t)
	}
	return DecodeConfig(merged)
}
