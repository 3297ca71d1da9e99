package model

import (
	"encoding/json"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
)

// Value is a validated instance of a Model. It remembers which fields
// were explicitly present in the input, as opposed to filled from
// defaults, so responses can exclude unset fields.
type Value struct {
	model  *Model
	values map[string]any
	set    map[string]bool
}

func newValue(m *Model) *Value {
	return &Value{
		model:  m,
		values: make(map[string]any, len(m.fields)),
		set:    make(map[string]bool, len(m.fields)),
	}
}

// Model returns the model v was validated against.
func (v *Value) Model() *Model { return v.model }

// Get returns the field value. Objects are *Value, arrays []any.
func (v *Value) Get(name string) any { return v.values[name] }

// IsSet reports whether the field was present in the input.
func (v *Value) IsSet(name string) bool { return v.set[name] }

func (v *Value) String(name string) string { return cast.ToString(v.values[name]) }
func (v *Value) Int(name string) int64     { return cast.ToInt64(v.values[name]) }
func (v *Value) Float(name string) float64 { return cast.ToFloat64(v.values[name]) }

// Object returns a nested model value, or nil.
func (v *Value) Object(name string) *Value {
	obj, _ := v.values[name].(*Value)
	return obj
}

// Objects returns the nested values of an array of objects.
func (v *Value) Objects(name string) []*Value {
	items, _ := v.values[name].([]any)
	out := make([]*Value, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(*Value); ok {
			out = append(out, obj)
		}
	}
	return out
}

// Map converts v into plain JSON-ready data. With excludeUnset only
// fields present in the input are kept, at every nesting level.
func (v *Value) Map(excludeUnset bool) map[string]any {
	out := make(map[string]any, len(v.values))
	for _, f := range v.model.fields {
		if excludeUnset && !v.set[f.Name] {
			continue
		}
		val, ok := v.values[f.Name]
		if !ok {
			continue
		}
		out[f.Name] = plain(val, excludeUnset)
	}
	return out
}

func plain(val any, excludeUnset bool) any {
	switch t := val.(type) {
	case *Value:
		return t.Map(excludeUnset)
	case []any:
		out := make([]any, 0, len(t))
		for _, item := range t {
			out = append(out, plain(item, excludeUnset))
		}
		return out
	}
	return val
}

// MarshalJSON serializes every field, including defaults.
func (v *Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Map(false))
}

// Decode copies v into out, a pointer to a struct whose fields carry json
// tags.
func (v *Value) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(v.Map(false))
}
