package depend

import (
	"errors"

	"github.com/Nivhaham/FastApiBasics/internal/binding"
	"github.com/Nivhaham/FastApiBasics/internal/errs"
	"github.com/labstack/echo/v4"
)

// Results holds the dependency values computed for one request.
type Results struct {
	values map[*Dependency]any
	// calls counts how many times each dependency function ran.
	calls map[*Dependency]int
	// skipped holds dependencies that did not run because of parameter
	// failures.
	skipped map[*Dependency]bool
}

func newResults() *Results {
	return &Results{
		values:  map[*Dependency]any{},
		calls:   map[*Dependency]int{},
		skipped: map[*Dependency]bool{},
	}
}

// Get returns the value computed for d.
func (r *Results) Get(d *Dependency) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[d]
	return v, ok
}

// Calls reports how many times d ran during the request.
func (r *Results) Calls(d *Dependency) int {
	if r == nil {
		return 0
	}
	return r.calls[d]
}

// Resolve runs roots and everything they depend on, depth-first in
// declaration order.
//
// Parameter binding failures do not stop resolution: the dependency
// whose parameters failed, and everything depending on it, is skipped
// while its siblings are still bound, so the returned
// *errs.ValidationError lists every failing parameter. A dependency
// function failure stops resolution at once and is returned unchanged
// so the error mapper can format it.
func Resolve(c echo.Context, roots []*Dependency) (*Results, error) {
	res := newResults()
	verr := &errs.ValidationError{}
	for _, d := range roots {
		if _, err := res.resolve(c, d, verr); err != nil {
			return res, err
		}
	}
	return res, verr.Err()
}

// resolve reports false when d could not run because its own or a
// sub-dependency's parameters failed; those failures are added to verr.
func (r *Results) resolve(c echo.Context, d *Dependency, verr *errs.ValidationError) (bool, error) {
	if r.skipped[d] {
		return false, nil
	}
	if _, ok := r.values[d]; ok && !d.NoCache {
		return true, nil
	}

	ready := true
	for _, sub := range d.Depends {
		ok, err := r.resolve(c, sub, verr)
		if err != nil {
			return false, err
		}
		ready = ready && ok
	}

	params, err := binding.Bind(c, d.Params)
	if err != nil {
		var fieldErrs *errs.ValidationError
		if !errors.As(err, &fieldErrs) {
			return false, err
		}
		verr.Merge(fieldErrs)
		ready = false
	}

	if !ready {
		r.skipped[d] = true
		return false, nil
	}

	r.calls[d]++
	v, err := d.fn(c, Input{Params: params, results: r})
	if err != nil {
		return false, &Error{Dependency: d.Name, Err: err}
	}
	r.values[d] = v
	return true, nil
}

// Error records which dependency failed. It unwraps to the dependency's
// own error so mappings registered for that error still apply.
type Error struct {
	Dependency string
	Err        error
}

func (e *Error) Error() string {
	return "dependency " + e.Dependency + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
