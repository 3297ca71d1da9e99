// Package model describes structured JSON bodies and validates request
// and response payloads against them.
//
// A Model is an ordered set of Fields. Views over a model (Extend, Omit,
// Pick) are new models built from the base model's fields, which is how
// an input model can carry a password that its output view never shows.
package model

// Kind is the JSON type of a field.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindObject
	KindArray
	KindAny
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindFloat:
		return "number"
	case KindBool:
		return "boolean"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	}
	return "any"
}

// Field describes one member of a model.
type Field struct {
	Name string
	Kind Kind
	// Model is the nested model of a KindObject field.
	Model *Model
	// Elem describes the items of a KindArray field.
	Elem *Field

	Required     bool
	DefaultValue any
	// Rule holds validator tags checked after coercion, e.g. "gt=0".
	Rule string
	// Unique drops duplicate array items, keeping the first occurrence.
	Unique bool

	Description string
}

func newField(name string, kind Kind) Field {
	return Field{Name: name, Kind: kind, Required: true}
}

func String(name string) Field { return newField(name, KindString) }
func Int(name string) Field    { return newField(name, KindInt) }
func Float(name string) Field  { return newField(name, KindFloat) }
func Bool(name string) Field   { return newField(name, KindBool) }
func Any(name string) Field    { return newField(name, KindAny) }

// Object declares a nested model field.
func Object(name string, m *Model) Field {
	f := newField(name, KindObject)
	f.Model = m
	return f
}

// Array declares a list field whose items are described by elem. The
// element name is ignored.
func Array(name string, elem Field) Field {
	f := newField(name, KindArray)
	f.Elem = &elem
	return f
}

// Optional makes the field nullable and not required. Absent optional
// fields serialize as null unless excluded as unset.
func (f Field) Optional() Field {
	f.Required = false
	return f
}

// Default makes the field optional with a value used when it is absent.
func (f Field) Default(v any) Field {
	f.Required = false
	f.DefaultValue = v
	return f
}

func (f Field) Rules(rules string) Field {
	if f.Rule != "" {
		rules = f.Rule + "," + rules
	}
	f.Rule = rules
	return f
}

// Set gives an array field set semantics.
func (f Field) Set() Field {
	f.Unique = true
	return f
}

func (f Field) Describe(description string) Field {
	f.Description = description
	return f
}

// defaultValue returns a copy of the default so request values never
// share a slice or map with the descriptor.
func (f Field) defaultValue() any {
	switch d := f.DefaultValue.(type) {
	case []any:
		return append([]any{}, d...)
	case []string:
		out := make([]any, 0, len(d))
		for _, s := range d {
			out = append(out, s)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(d))
		for k, v := range d {
			out[k] = v
		}
		return out
	}
	return f.DefaultValue
}
