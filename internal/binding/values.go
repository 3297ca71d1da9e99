package binding

import (
	"mime/multipart"

	"github.com/spf13/cast"
)

// Values holds the coerced parameters of one request, keyed by internal
// name. Single values are string, int64, float64 or bool; multi-valued
// parameters are []any of those.
type Values struct {
	values  map[string]any
	present map[string]bool
	files   map[string][]*multipart.FileHeader
}

func newValues() Values {
	return Values{
		values:  map[string]any{},
		present: map[string]bool{},
		files:   map[string][]*multipart.FileHeader{},
	}
}

// Get returns the value bound to name and whether one exists (sent or
// defaulted).
func (v Values) Get(name string) (any, bool) {
	val, ok := v.values[name]
	return val, ok
}

// Has reports whether the parameter was actually sent.
func (v Values) Has(name string) bool {
	return v.present[name]
}

func (v Values) String(name string) string {
	return cast.ToString(v.values[name])
}

// StringPtr returns nil when the parameter is absent and has no default.
func (v Values) StringPtr(name string) *string {
	val, ok := v.values[name]
	if !ok || val == nil {
		return nil
	}
	s := cast.ToString(val)
	return &s
}

func (v Values) Int(name string) int {
	return cast.ToInt(v.values[name])
}

func (v Values) Float(name string) float64 {
	return cast.ToFloat64(v.values[name])
}

// Strings returns every occurrence of a multi-valued parameter.
func (v Values) Strings(name string) []string {
	switch val := v.values[name].(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, cast.ToString(item))
		}
		return out
	case nil:
		return []string{}
	default:
		return []string{cast.ToString(val)}
	}
}

// Files returns the uploaded files of a file parameter.
func (v Values) Files(name string) []*multipart.FileHeader {
	return v.files[name]
}
