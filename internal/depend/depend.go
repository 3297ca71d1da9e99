// Package depend resolves the dependencies a route declares before its
// handler runs.
//
// A Dependency is a function with its own parameter descriptors and its
// own sub-dependencies. Together they form a directed acyclic graph that
// is checked once at registration (CheckGraph) and walked depth-first
// for every request (Resolve). Results are cached for the lifetime of
// one request unless a dependency opts out.
package depend

import (
	"fmt"
	"strings"

	"github.com/Nivhaham/FastApiBasics/internal/binding"
	"github.com/labstack/echo/v4"
)

// Func computes a dependency's value. Returning an error short-circuits
// the request: the handler and any later dependencies are not run.
type Func func(c echo.Context, in Input) (any, error)

// Dependency is built once at startup and shared by every request.
type Dependency struct {
	Name    string
	Params  []binding.Param
	Depends []*Dependency
	// NoCache re-runs the dependency every time it is reached within one
	// request instead of reusing the first result.
	NoCache bool

	fn Func
}

// Option configures a Dependency.
type Option func(*Dependency)

// WithParams declares request parameters the dependency reads.
func WithParams(params ...binding.Param) Option {
	return func(d *Dependency) { d.Params = append(d.Params, params...) }
}

// DependsOn declares sub-dependencies, resolved before d.
func DependsOn(deps ...*Dependency) Option {
	return func(d *Dependency) { d.Depends = append(d.Depends, deps...) }
}

// NoCache disables per-request caching.
func NoCache() Option {
	return func(d *Dependency) { d.NoCache = true }
}

// New creates a dependency.
func New(name string, fn Func, opts ...Option) *Dependency {
	d := &Dependency{Name: name, fn: fn}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Input is what a dependency function receives: its own bound parameters
// and the results of its sub-dependencies.
type Input struct {
	Params  binding.Values
	results *Results
}

// Dep returns the result of a sub-dependency.
func (in Input) Dep(d *Dependency) any {
	v, _ := in.results.Get(d)
	return v
}

// CycleError reports a dependency cycle found at registration time.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "dependency cycle: " + strings.Join(e.Path, " -> ")
}

// CheckGraph verifies that the graph reachable from roots is acyclic and
// well-formed.
func CheckGraph(roots []*Dependency) error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := map[*Dependency]int{}
	var stack []string

	var visit func(d *Dependency) error
	visit = func(d *Dependency) error {
		if d == nil {
			return fmt.Errorf("nil dependency declared after %q", strings.Join(stack, " -> "))
		}
		if d.fn == nil {
			return fmt.Errorf("dependency %q has no function", d.Name)
		}

		switch state[d] {
		case done:
			return nil
		case visiting:
			return &CycleError{Path: append(append([]string(nil), stack...), d.Name)}
		}

		state[d] = visiting
		stack = append(stack, d.Name)
		for _, sub := range d.Depends {
			if err := visit(sub); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[d] = done
		return nil
	}

	for _, root := range roots {
		if err := visit(root); err != nil {
			return err
		}
	}
	return nil
}

// Walk calls fn for every dependency reachable from roots, each once,
// sub-dependencies first. The graph must have passed CheckGraph.
func Walk(roots []*Dependency, fn func(*Dependency)) {
	seen := map[*Dependency]bool{}
	var visit func(d *Dependency)
	visit = func(d *Dependency) {
		if seen[d] {
			return
		}
		seen[d] = true
		for _, sub := range d.Depends {
			visit(sub)
		}
		fn(d)
	}
	for _, root := range roots {
		visit(root)
	}
}
