package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/Nivhaham/FastApiBasics/internal/errs"
	"github.com/Nivhaham/FastApiBasics/internal/validation"
	"github.com/spf13/cast"
)

// BodyLoc prefixes the locations of request body failures.
const BodyLoc = "body"

// Decode reads one JSON document from r and validates it as a request
// body.
func (m *Model) Decode(r io.Reader) (*Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		verr := &errs.ValidationError{}
		if errors.Is(err, io.EOF) {
			verr.Add(BodyLoc, "is required")
		} else {
			verr.Add(BodyLoc, "invalid JSON: "+err.Error())
		}
		return nil, verr
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		verr := &errs.ValidationError{}
		verr.Add(BodyLoc, "invalid JSON: unexpected data after the document")
		return nil, verr
	}

	return m.Validate(raw)
}

// DecodeBytes is Decode over an in-memory document.
func (m *Model) DecodeBytes(data []byte) (*Value, error) {
	return m.Decode(bytes.NewReader(data))
}

// Validate checks a decoded JSON value against m and returns either the
// typed value or an *errs.ValidationError listing every failing field.
func (m *Model) Validate(raw any) (*Value, error) {
	return m.validateAt(raw, BodyLoc)
}

func (m *Model) validateAt(raw any, loc string) (*Value, error) {
	verr := &errs.ValidationError{}
	v := m.validate(raw, loc, verr)
	if err := verr.Err(); err != nil {
		return nil, err
	}
	return v, nil
}

func (m *Model) validate(raw any, loc string, verr *errs.ValidationError) *Value {
	obj, ok := raw.(map[string]any)
	if !ok {
		verr.Add(loc, "must be an object")
		return nil
	}

	v := newValue(m)
	for _, f := range m.fields {
		floc := loc + "." + f.Name
		fraw, present := obj[f.Name]

		if !present {
			if f.Required {
				verr.Add(floc, "is required")
				continue
			}
			v.values[f.Name] = f.defaultValue()
			continue
		}

		val, ok := validateField(f, fraw, floc, verr)
		if !ok {
			continue
		}
		v.values[f.Name] = val
		v.set[f.Name] = true
	}
	return v
}

func validateField(f Field, raw any, loc string, verr *errs.ValidationError) (any, bool) {
	if raw == nil {
		if f.Required {
			verr.Add(loc, "must not be null")
			return nil, false
		}
		return nil, true
	}

	val, msg := coerce(f, raw, loc, verr)
	if msg != "" {
		verr.Add(loc, msg)
		return nil, false
	}
	if val == nil {
		// nested failures were already reported
		return nil, false
	}

	if f.Kind != KindObject && f.Rule != "" {
		if fe := validation.Check(loc, val, f.Rule); fe != nil {
			verr.Fields = append(verr.Fields, *fe)
			return nil, false
		}
	}
	return val, true
}

// coerce converts raw to the field's kind. It returns a message when raw
// has the wrong type, or a nil value when nested items failed.
func coerce(f Field, raw any, loc string, verr *errs.ValidationError) (any, string) {
	switch f.Kind {
	case KindString:
		s, ok := raw.(string)
		if !ok {
			return nil, "must be a string"
		}
		return s, ""

	case KindInt:
		if _, isBool := raw.(bool); isBool {
			return nil, "must be a valid integer"
		}
		if fl, isFloat := raw.(float64); isFloat && fl != math.Trunc(fl) {
			return nil, "must be a valid integer"
		}
		n, err := cast.ToInt64E(raw)
		if err != nil {
			return nil, "must be a valid integer"
		}
		return n, ""

	case KindFloat:
		if _, isBool := raw.(bool); isBool {
			return nil, "must be a valid number"
		}
		n, err := cast.ToFloat64E(raw)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, "must be a valid number"
		}
		return n, ""

	case KindBool:
		switch b := raw.(type) {
		case bool:
			return b, ""
		case string:
			parsed, err := cast.ToBoolE(b)
			if err != nil {
				return nil, "must be a valid boolean"
			}
			return parsed, ""
		}
		return nil, "must be a valid boolean"

	case KindObject:
		if _, ok := raw.(map[string]any); !ok {
			return nil, "must be an object"
		}
		nested := f.Model.validate(raw, loc, verr)
		if nested == nil {
			return nil, ""
		}
		return nested, ""

	case KindArray:
		items, ok := raw.([]any)
		if !ok {
			return nil, "must be an array"
		}
		return coerceArray(f, items, loc, verr), ""
	}

	return raw, ""
}

func coerceArray(f Field, items []any, loc string, verr *errs.ValidationError) any {
	out := make([]any, 0, len(items))
	seen := map[string]bool{}
	failed := false

	for i, item := range items {
		val, ok := validateField(*f.Elem, item, loc+"."+strconv.Itoa(i), verr)
		if !ok {
			failed = true
			continue
		}
		if f.Unique {
			key := fmt.Sprintf("%T:%v", val, val)
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		out = append(out, val)
	}

	if failed {
		return nil
	}
	return out
}
