package errs_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Nivhaham/FastApiBasics/internal/errs"
	. "github.com/smartystreets/goconvey/convey"
)

type rainbowError struct {
	name string
}

func (e *rainbowError) Error() string { return e.name + " did something" }

func TestMapper(t *testing.T) {
	Convey("Given a mapper with the default mappings", t, func() {
		m := errs.NewMapper()

		Convey("An HTTPError passes through unchanged", func() {
			in := errs.NewHTTPError(http.StatusTeapot, "Nope! I don't like 10.")
			out, kind := m.Resolve(fmt.Errorf("handler: %w", in))

			So(kind, ShouldEqual, "http")
			So(out, ShouldEqual, in)
		})

		Convey("A ValidationError becomes a 422 with every field", func() {
			verr := &errs.ValidationError{}
			verr.Add("query.q", "must not exceed 50 characters")
			verr.Add("path.item_id", "must be a valid integer")

			out, kind := m.Resolve(verr)

			So(kind, ShouldEqual, "validation")
			So(out.Status, ShouldEqual, http.StatusUnprocessableEntity)
			So(out.Errors, ShouldHaveLength, 2)
		})

		Convey("An unknown error falls back to a generic 500", func() {
			out, kind := m.Resolve(errors.New("boom: secret detail"))

			So(kind, ShouldEqual, errs.KindUnhandled)
			So(out.Status, ShouldEqual, http.StatusInternalServerError)
			So(out.Message, ShouldNotContainSubstring, "secret")
		})

		Convey("When a domain error is registered", func() {
			errs.Handle(m, "rainbow", func(e *rainbowError) *errs.HTTPError {
				return errs.NewHTTPError(http.StatusTeapot, "Oops! "+e.name)
			})

			Convey("It is mapped to its own response", func() {
				out, kind := m.Resolve(&rainbowError{name: "10"})

				So(kind, ShouldEqual, "rainbow")
				So(out.Status, ShouldEqual, http.StatusTeapot)
				So(out.Message, ShouldEqual, "Oops! 10")
			})

			Convey("Other kinds are unaffected", func() {
				_, kind := m.Resolve(errs.NewNotFoundError("x", false, nil))
				So(kind, ShouldEqual, "http")
			})
		})

		Convey("A replaced fallback is used for unmapped errors", func() {
			m.SetFallback(func(err error) *errs.HTTPError {
				return errs.NewHTTPError(http.StatusServiceUnavailable, err.Error())
			})
			out, _ := m.Resolve(errors.New("down"))
			So(out.Status, ShouldEqual, http.StatusServiceUnavailable)
		})
	})
}

func TestValidationError(t *testing.T) {
	Convey("Given an empty ValidationError", t, func() {
		verr := &errs.ValidationError{}

		Convey("Err is nil", func() {
			So(verr.Err(), ShouldBeNil)
		})

		Convey("Merging failures makes it non-nil", func() {
			other := &errs.ValidationError{}
			other.Add("body.price", "is required")
			verr.Merge(other)
			verr.Merge(nil)

			So(verr.Err(), ShouldNotBeNil)
			So(verr.Error(), ShouldContainSubstring, "body.price is required")
		})
	})
}
