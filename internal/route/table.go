package route

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/Nivhaham/FastApiBasics/internal/binding"
	"github.com/Nivhaham/FastApiBasics/internal/depend"
)

var knownMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
}

// ErrInvalidRoute is wrapped by every registration failure.
var ErrInvalidRoute = errors.New("invalid route")

// Table is the set of registered routes.
type Table struct {
	routes []*Route
	keys   map[string]bool
}

func NewTable() *Table {
	return &Table{keys: map[string]bool{}}
}

// Add validates r and registers it.
func (t *Table) Add(r *Route) error {
	if err := check(r); err != nil {
		return fmt.Errorf("%w %s %s: %w", ErrInvalidRoute, r.Method, r.Path, err)
	}

	key := r.Method + " " + r.Path
	if t.keys[key] {
		return fmt.Errorf("%w %s: already registered", ErrInvalidRoute, key)
	}

	t.keys[key] = true
	t.routes = append(t.routes, r)
	return nil
}

// Len returns the number of registered routes.
func (t *Table) Len() int {
	return len(t.routes)
}

// Routes returns the routes in specificity order (see Compare).
func (t *Table) Routes() []*Route {
	out := append([]*Route(nil), t.routes...)
	sort.SliceStable(out, func(i, j int) bool {
		return Compare(out[i], out[j]) < 0
	})
	return out
}

func check(r *Route) error {
	if !knownMethods[r.Method] {
		return fmt.Errorf("unknown method")
	}
	if r.Handler == nil {
		return fmt.Errorf("nil handler")
	}
	if r.Response != nil && r.Response.Model == nil {
		return fmt.Errorf("response projection without model")
	}

	vars, err := PathVars(r.Path)
	if err != nil {
		return err
	}

	if err := depend.CheckGraph(r.Dependencies); err != nil {
		return err
	}

	declared := map[string]int{}
	hasForm := false
	for _, p := range r.AllParams() {
		switch p.In {
		case binding.InPath:
			declared[p.WireName()]++
		case binding.InForm, binding.InFile:
			hasForm = true
		}
	}

	for _, v := range vars {
		if declared[v] == 0 {
			return fmt.Errorf("path variable {%s} has no path parameter", v)
		}
	}
	inTemplate := map[string]bool{}
	for _, v := range vars {
		inTemplate[v] = true
	}
	for _, p := range r.Params {
		if p.In != binding.InPath {
			continue
		}
		if !inTemplate[p.WireName()] {
			return fmt.Errorf("path parameter %s is not in the template", p.WireName())
		}
		if declared[p.WireName()] > 1 {
			return fmt.Errorf("path parameter %s declared more than once", p.WireName())
		}
	}

	if r.Body != nil && hasForm {
		return fmt.Errorf("a JSON body cannot be combined with form or file parameters")
	}

	return nil
}

// PathVars parses a template and returns its variable names in order.
// A segment is either literal or exactly one {name}.
func PathVars(template string) ([]string, error) {
	if !strings.HasPrefix(template, "/") {
		return nil, fmt.Errorf("path must start with /")
	}

	var vars []string
	seen := map[string]bool{}
	for _, seg := range segments(template) {
		name, isVar := variable(seg)
		if !isVar {
			if strings.ContainsAny(seg, "{}:*") {
				return nil, fmt.Errorf("malformed segment %q", seg)
			}
			continue
		}
		if name == "" || strings.ContainsAny(name, "{}/") {
			return nil, fmt.Errorf("malformed segment %q", seg)
		}
		if seen[name] {
			return nil, fmt.Errorf("path variable {%s} repeated", name)
		}
		seen[name] = true
		vars = append(vars, name)
	}
	return vars, nil
}

// EchoPath converts /users/{user_id} to echo's /users/:user_id.
func EchoPath(template string) string {
	segs := segments(template)
	for i, seg := range segs {
		if name, ok := variable(seg); ok {
			segs[i] = ":" + name
		}
	}
	return "/" + strings.Join(segs, "/")
}

// Compare orders routes by specificity: at the first segment where one
// route is literal and the other variable, the literal route comes
// first; otherwise the route with fewer segments does. Remaining ties
// compare equal so a stable sort keeps registration order.
func Compare(a, b *Route) int {
	as, bs := segments(a.Path), segments(b.Path)
	for i := 0; i < len(as) && i < len(bs); i++ {
		_, aVar := variable(as[i])
		_, bVar := variable(bs[i])
		if aVar != bVar {
			if aVar {
				return 1
			}
			return -1
		}
	}
	return len(as) - len(bs)
}

func segments(template string) []string {
	return strings.Split(strings.TrimPrefix(template, "/"), "/")
}

func variable(seg string) (string, bool) {
	if len(seg) >= 2 && seg[0] == '{' && seg[len(seg)-1] == '}' {
		return seg[1 : len(seg)-1], true
	}
	return "", false
}
