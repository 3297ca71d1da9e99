// Package binding extracts request parameters from their declared
// source, coerces them to the declared kind and checks their
// constraints.
//
// A route declares its parameters as a slice of Param values built once
// at startup:
//
//	binding.Path("item_id", binding.Int)
//	binding.Query("q", binding.String).Optional().MaxLength(50)
//	binding.Header("x_token", binding.String).Optional().Many()
//
// Bind then turns one request into typed Values, or a single
// *errs.ValidationError listing every parameter that failed.
package binding

import (
	"net/http"
	"strconv"
	"strings"
)

// Source is where a parameter is read from.
type Source int

const (
	InPath Source = iota + 1
	InQuery
	InHeader
	InCookie
	InForm
	InFile
)

func (s Source) String() string {
	switch s {
	case InPath:
		return "path"
	case InQuery:
		return "query"
	case InHeader:
		return "header"
	case InCookie:
		return "cookie"
	case InForm:
		return "form"
	case InFile:
		return "file"
	}
	return "unknown"
}

// Kind is the scalar type a raw parameter is coerced to.
type Kind int

const (
	String Kind = iota
	Int
	Float
	Bool
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "integer"
	case Float:
		return "number"
	case Bool:
		return "boolean"
	}
	return "string"
}

// Param describes one request parameter.
type Param struct {
	// Name is the internal name handlers read the value by. For path
	// parameters it is also the template variable.
	Name string
	// Alias, when set, is the name used on the wire.
	Alias string
	In    Source
	Kind  Kind

	Required     bool
	DefaultValue any
	Multi        bool

	Enum   []string
	MinLen int
	MaxLen int
	// Rule holds extra validator tags, e.g. "gte=1".
	Rule string

	Description string
}

func newParam(name string, in Source, kind Kind) Param {
	return Param{Name: name, In: in, Kind: kind, Required: true}
}

// Path declares a path parameter. Path parameters are always required.
func Path(name string, kind Kind) Param { return newParam(name, InPath, kind) }

// Query declares a query string parameter.
func Query(name string, kind Kind) Param { return newParam(name, InQuery, kind) }

// Header declares a header parameter. Underscores in name become hyphens
// on the wire unless an alias is given.
func Header(name string, kind Kind) Param { return newParam(name, InHeader, kind) }

// Cookie declares a cookie parameter.
func Cookie(name string, kind Kind) Param { return newParam(name, InCookie, kind) }

// Form declares a url-encoded or multipart form field.
func Form(name string, kind Kind) Param { return newParam(name, InForm, kind) }

// File declares an uploaded file field of a multipart form.
func File(name string) Param { return newParam(name, InFile, String) }

// Optional marks the parameter as not required.
func (p Param) Optional() Param {
	p.Required = false
	return p
}

// Default makes the parameter optional and supplies the value used when
// it is absent.
func (p Param) Default(v any) Param {
	p.Required = false
	p.DefaultValue = v
	return p
}

// As sets the wire name.
func (p Param) As(alias string) Param {
	p.Alias = alias
	return p
}

// Many accepts zero, one or many occurrences.
func (p Param) Many() Param {
	p.Multi = true
	return p
}

// OneOf restricts the value to a fixed set.
func (p Param) OneOf(values ...string) Param {
	p.Enum = values
	return p
}

func (p Param) MinLength(n int) Param {
	p.MinLen = n
	return p
}

func (p Param) MaxLength(n int) Param {
	p.MaxLen = n
	return p
}

// Rules appends validator tags checked after coercion.
func (p Param) Rules(rules string) Param {
	if p.Rule != "" {
		rules = p.Rule + "," + rules
	}
	p.Rule = rules
	return p
}

func (p Param) Describe(description string) Param {
	p.Description = description
	return p
}

// WireName is the name the parameter is looked up by in the request.
func (p Param) WireName() string {
	if p.Alias != "" {
		return p.Alias
	}
	if p.In == InHeader {
		return http.CanonicalHeaderKey(strings.ReplaceAll(p.Name, "_", "-"))
	}
	return p.Name
}

// Loc is the location reported in validation errors, e.g. "query.q".
func (p Param) Loc() string {
	return p.In.String() + "." + p.WireName()
}

// ValidatorRules builds the validator tag string for one coerced value.
func (p Param) ValidatorRules() string {
	var rules []string
	if len(p.Enum) > 0 {
		rules = append(rules, "oneof="+strings.Join(p.Enum, " "))
	}
	if p.MinLen > 0 {
		rules = append(rules, "min="+strconv.Itoa(p.MinLen))
	}
	if p.MaxLen > 0 {
		rules = append(rules, "max="+strconv.Itoa(p.MaxLen))
	}
	if p.Rule != "" {
		rules = append(rules, p.Rule)
	}
	return strings.Join(rules, ",")
}
