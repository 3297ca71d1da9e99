// Package openapi generates an OpenAPI 3 document from the route table.
//
// The document is derived entirely from route descriptors: parameters
// become operation parameters, body and response models become component
// schemas, and every operation that takes input documents the 422
// validation response.
package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Nivhaham/FastApiBasics/internal/binding"
	"github.com/Nivhaham/FastApiBasics/internal/model"
	"github.com/Nivhaham/FastApiBasics/internal/route"
	"github.com/getkin/kin-openapi/openapi3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Version is the OpenAPI version emitted.
const Version = "3.0.3"

const errorSchema = "HTTPError"

// Info is the document's info block.
type Info struct {
	Title       string
	Version     string
	Description string
}

type builder struct {
	doc *openapi3.T
}

// Build generates and validates the document for every route in table.
func Build(table *route.Table, info Info) (*openapi3.T, error) {
	b := &builder{
		doc: &openapi3.T{
			OpenAPI: Version,
			Info: &openapi3.Info{
				Title:       info.Title,
				Version:     info.Version,
				Description: info.Description,
			},
			Paths: openapi3.Paths{},
			Components: &openapi3.Components{
				Schemas: openapi3.Schemas{},
			},
		},
	}

	b.addErrorSchema()

	for _, r := range table.Routes() {
		op := b.operation(r)

		item := b.doc.Paths[r.Path]
		if item == nil {
			item = &openapi3.PathItem{}
			b.doc.Paths[r.Path] = item
		}
		item.SetOperation(r.Method, op)
	}

	if err := b.doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("generated document is invalid: %w", err)
	}

	return b.doc, nil
}

// JSON renders doc as indented JSON.
func JSON(doc *openapi3.T) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// YAML renders doc as block-style YAML. The document is marshalled
// through JSON first so kin-openapi's custom marshalers (refs,
// extensions) are honored and key order is preserved.
func YAML(doc *openapi3.T) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	blockStyle(&node)

	return yaml.Marshal(&node)
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// Summary humanizes an operation name: read_user_me -> "Read User Me".
func Summary(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

func (b *builder) operation(r *route.Route) *openapi3.Operation {
	summary := r.Summary
	if summary == "" {
		summary = Summary(r.Name)
	}

	op := &openapi3.Operation{
		OperationID: r.Name,
		Summary:     summary,
		Description: r.Description,
		Tags:        r.Tags,
		Responses:   openapi3.Responses{},
	}

	var formParams []binding.Param
	for _, p := range r.AllParams() {
		if p.In == binding.InForm || p.In == binding.InFile {
			formParams = append(formParams, p)
			continue
		}
		op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: parameter(p)})
	}

	switch {
	case r.Body != nil:
		op.RequestBody = &openapi3.RequestBodyRef{Value: &openapi3.RequestBody{
			Required: true,
			Content:  openapi3.NewContentWithJSONSchemaRef(b.modelRef(r.Body)),
		}}
	case len(formParams) > 0:
		op.RequestBody = &openapi3.RequestBodyRef{Value: formBody(formParams)}
	}

	success := openapi3.NewSchemaRef("", &openapi3.Schema{})
	if r.Response != nil {
		success = b.modelRef(r.Response.Model)
	}

	status := r.SuccessStatus()
	desc := "Successful Response"
	resp := &openapi3.Response{Description: &desc}
	if status != http.StatusNoContent {
		resp.Content = openapi3.NewContentWithJSONSchemaRef(success)
	}
	op.Responses[strconv.Itoa(status)] = &openapi3.ResponseRef{Value: resp}

	if len(op.Parameters) > 0 || op.RequestBody != nil {
		op.Responses[strconv.Itoa(http.StatusUnprocessableEntity)] = b.errorResponse("Validation Error")
	}
	if len(r.Dependencies) > 0 {
		op.Responses[strconv.Itoa(http.StatusBadRequest)] = b.errorResponse("Bad Request")
	}

	return op
}

func (b *builder) errorResponse(description string) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{Value: &openapi3.Response{
		Description: &description,
		Content: openapi3.NewContentWithJSONSchemaRef(
			openapi3.NewSchemaRef("#/components/schemas/"+errorSchema, b.doc.Components.Schemas[errorSchema].Value),
		),
	}}
}

func (b *builder) addErrorSchema() {
	fieldError := &openapi3.Schema{
		Type:     openapi3.TypeObject,
		Required: []string{"field", "error"},
		Properties: openapi3.Schemas{
			"field": openapi3.NewStringSchema().NewRef(),
			"error": openapi3.NewStringSchema().NewRef(),
		},
	}

	b.doc.Components.Schemas[errorSchema] = openapi3.NewSchemaRef("", &openapi3.Schema{
		Type:     openapi3.TypeObject,
		Required: []string{"code", "message", "status"},
		Properties: openapi3.Schemas{
			"code":     openapi3.NewStringSchema().NewRef(),
			"message":  openapi3.NewStringSchema().NewRef(),
			"status":   openapi3.NewIntegerSchema().NewRef(),
			"override": openapi3.NewBoolSchema().NewRef(),
			"errors": openapi3.NewSchemaRef("", &openapi3.Schema{
				Type:     openapi3.TypeArray,
				Nullable: true,
				Items:    openapi3.NewSchemaRef("", fieldError),
			}),
		},
	})
}

// modelRef registers m under components/schemas and returns a reference
// to it. Models are keyed by name; the first registration wins.
func (b *builder) modelRef(m *model.Model) *openapi3.SchemaRef {
	ref := "#/components/schemas/" + m.Name
	if existing, ok := b.doc.Components.Schemas[m.Name]; ok {
		return openapi3.NewSchemaRef(ref, existing.Value)
	}

	schema := &openapi3.Schema{
		Type:       openapi3.TypeObject,
		Title:      m.Name,
		Properties: openapi3.Schemas{},
	}
	// Registered before the fields so self-referencing models terminate.
	b.doc.Components.Schemas[m.Name] = openapi3.NewSchemaRef("", schema)

	for _, f := range m.Fields() {
		schema.Properties[f.Name] = b.fieldSchema(f)
		if f.Required {
			schema.Required = append(schema.Required, f.Name)
		}
	}

	return openapi3.NewSchemaRef(ref, schema)
}

func (b *builder) fieldSchema(f model.Field) *openapi3.SchemaRef {
	if f.Kind == model.KindObject {
		return b.modelRef(f.Model)
	}

	var s *openapi3.Schema
	switch f.Kind {
	case model.KindString:
		s = openapi3.NewStringSchema()
	case model.KindInt:
		s = openapi3.NewInt64Schema()
	case model.KindFloat:
		s = openapi3.NewFloat64Schema()
	case model.KindBool:
		s = openapi3.NewBoolSchema()
	case model.KindArray:
		s = openapi3.NewArraySchema()
		s.Items = b.fieldSchema(*f.Elem)
		s.UniqueItems = f.Unique
	default:
		s = &openapi3.Schema{}
	}

	s.Description = f.Description
	s.Nullable = !f.Required && f.DefaultValue == nil
	if f.DefaultValue != nil {
		s.Default = jsonValue(f.DefaultValue)
	}
	applyRules(s, f.Rule)

	return openapi3.NewSchemaRef("", s)
}

func parameter(p binding.Param) *openapi3.Parameter {
	s := scalarSchema(p.Kind)
	for _, e := range p.Enum {
		s.Enum = append(s.Enum, e)
	}
	if p.MinLen > 0 {
		s.MinLength = uint64(p.MinLen)
	}
	if p.MaxLen > 0 {
		max := uint64(p.MaxLen)
		s.MaxLength = &max
	}
	applyRules(s, p.Rule)

	if p.Multi {
		arr := openapi3.NewArraySchema()
		arr.Items = openapi3.NewSchemaRef("", s)
		s = arr
	}
	if p.DefaultValue != nil {
		s.Default = jsonValue(p.DefaultValue)
	}

	in := p.In.String()
	return &openapi3.Parameter{
		Name:        p.WireName(),
		In:          in,
		Required:    p.Required || p.In == binding.InPath,
		Description: p.Description,
		Schema:      openapi3.NewSchemaRef("", s),
	}
}

func formBody(params []binding.Param) *openapi3.RequestBody {
	schema := openapi3.NewObjectSchema()
	mediaType := "application/x-www-form-urlencoded"

	for _, p := range params {
		var s *openapi3.Schema
		if p.In == binding.InFile {
			mediaType = "multipart/form-data"
			s = openapi3.NewStringSchema().WithFormat("binary")
		} else {
			s = scalarSchema(p.Kind)
			applyRules(s, p.Rule)
		}
		if p.Multi {
			arr := openapi3.NewArraySchema()
			arr.Items = openapi3.NewSchemaRef("", s)
			s = arr
		}
		s.Description = p.Description

		schema.Properties[p.WireName()] = openapi3.NewSchemaRef("", s)
		if p.Required {
			schema.Required = append(schema.Required, p.WireName())
		}
	}

	return &openapi3.RequestBody{
		Required: true,
		Content: openapi3.Content{
			mediaType: &openapi3.MediaType{Schema: openapi3.NewSchemaRef("", schema)},
		},
	}
}

func scalarSchema(k binding.Kind) *openapi3.Schema {
	switch k {
	case binding.Int:
		return openapi3.NewInt64Schema()
	case binding.Float:
		return openapi3.NewFloat64Schema()
	case binding.Bool:
		return openapi3.NewBoolSchema()
	}
	return openapi3.NewStringSchema()
}

// applyRules documents the validator rules that have an OpenAPI
// equivalent and ignores the rest.
func applyRules(s *openapi3.Schema, rules string) {
	if rules == "" {
		return
	}

	for _, rule := range strings.Split(rules, ",") {
		name, arg, _ := strings.Cut(rule, "=")
		switch name {
		case "min", "max":
			n, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				continue
			}
			applyBound(s, name == "min", n, false)
		case "gt", "gte", "lt", "lte":
			n, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				continue
			}
			applyBound(s, strings.HasPrefix(name, "g"), n, len(name) == 2)
		case "oneof":
			s.Enum = nil
			for _, v := range strings.Fields(arg) {
				s.Enum = append(s.Enum, v)
			}
		case "email":
			s.Format = "email"
		case "url", "http_url":
			s.Format = "uri"
		case "uuid":
			s.Format = "uuid"
		}
	}
}

func applyBound(s *openapi3.Schema, lower bool, n float64, exclusive bool) {
	if s.Type == openapi3.TypeString {
		length := uint64(n)
		if lower {
			s.MinLength = length
		} else {
			s.MaxLength = &length
		}
		return
	}

	if lower {
		s.Min = &n
		s.ExclusiveMin = exclusive
	} else {
		s.Max = &n
		s.ExclusiveMax = exclusive
	}
}

// jsonValue converts v to its decoded-JSON form (float64, []any, ...).
func jsonValue(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}
