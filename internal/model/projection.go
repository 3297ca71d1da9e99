package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ResponseLoc prefixes locations of response model failures.
const ResponseLoc = "response"

// Projection shapes a handler result through a response model after the
// handler ran and before serialization.
type Projection struct {
	Model *Model
	// ExcludeUnset drops fields the result did not set explicitly, even if
	// the model supplies a default for them.
	ExcludeUnset bool
	// Include keeps only these top-level fields when non-empty.
	Include []string
	// Exclude removes these top-level fields.
	Exclude []string
}

// Apply validates result against the response model, which also drops
// fields the model does not declare, then applies the projection.
//
// A result that does not satisfy the model is a server-side defect; the
// returned error deliberately does not wrap the validation failure so it
// is never reported to the client as a request error.
func (p *Projection) Apply(result any) (any, error) {
	if result == nil {
		return nil, nil
	}

	if items, ok := result.([]any); ok {
		out := make([]any, 0, len(items))
		for _, item := range items {
			projected, err := p.Apply(item)
			if err != nil {
				return nil, err
			}
			out = append(out, projected)
		}
		return out, nil
	}

	raw, err := normalize(result)
	if err != nil {
		return nil, fmt.Errorf("response model %s: %w", p.Model.Name, err)
	}

	v, err := p.Model.validateAt(raw, ResponseLoc)
	if err != nil {
		return nil, fmt.Errorf("response does not match model %s: %v", p.Model.Name, err)
	}

	out := v.Map(p.ExcludeUnset)
	if len(p.Include) > 0 {
		keep := toSet(p.Include)
		for k := range out {
			if !keep[k] {
				delete(out, k)
			}
		}
	}
	for _, k := range p.Exclude {
		delete(out, k)
	}
	return out, nil
}

// normalize turns any handler result into decoded JSON data. A *Value
// keeps its set-field information by contributing only its set fields.
func normalize(result any) (any, error) {
	if v, ok := result.(*Value); ok {
		return plainJSON(v.Map(true))
	}
	return plainJSON(result)
}

func plainJSON(data any) (any, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}
