package model

import (
	"fmt"
)

// Model is a named, ordered set of fields. Models are built at startup
// and never modified, so one model is shared by every request.
type Model struct {
	Name   string
	fields []Field
	index  map[string]int
}

// New builds a model. It panics on duplicate field names, which can only
// come from a programming error in a model declaration.
func New(name string, fields ...Field) *Model {
	m := &Model{
		Name:   name,
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if _, ok := m.index[f.Name]; ok {
			panic(fmt.Sprintf("model %s: field %q declared twice", name, f.Name))
		}
		m.index[f.Name] = len(m.fields)
		m.fields = append(m.fields, f)
	}
	return m
}

// Fields returns the model's fields in declaration order.
func (m *Model) Fields() []Field {
	return append([]Field(nil), m.fields...)
}

// Field looks up a field by name.
func (m *Model) Field(name string) (Field, bool) {
	i, ok := m.index[name]
	if !ok {
		return Field{}, false
	}
	return m.fields[i], true
}

// Extend returns a superset view: every field of m followed by fields.
// A field with an existing name replaces the base declaration in place.
func (m *Model) Extend(name string, fields ...Field) *Model {
	out := m.Fields()
	for _, f := range fields {
		if i, ok := m.index[f.Name]; ok {
			out[i] = f
			continue
		}
		out = append(out, f)
	}
	return New(name, out...)
}

// Omit returns a subset view without the named fields.
func (m *Model) Omit(name string, names ...string) *Model {
	drop := toSet(names)
	out := make([]Field, 0, len(m.fields))
	for _, f := range m.fields {
		if !drop[f.Name] {
			out = append(out, f)
		}
	}
	return New(name, out...)
}

// Pick returns a subset view with only the named fields, in m's order.
func (m *Model) Pick(name string, names ...string) *Model {
	keep := toSet(names)
	out := make([]Field, 0, len(names))
	for _, f := range m.fields {
		if keep[f.Name] {
			out = append(out, f)
		}
	}
	return New(name, out...)
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
