package validation_test

import (
	"strings"
	"testing"

	"github.com/Nivhaham/FastApiBasics/internal/validation"
	. "github.com/smartystreets/goconvey/convey"
)

type credentials struct {
	Username string `validate:"required"`
	Email    string `validate:"required,email"`
}

func TestCheck(t *testing.T) {
	Convey("Given single value rules", t, func() {
		Convey("Empty rules always pass", func() {
			So(validation.Check("query.q", "anything", ""), ShouldBeNil)
		})

		Convey("A string over its max length is rejected with a length message", func() {
			fe := validation.Check("query.q", strings.Repeat("x", 51), "max=50")
			So(fe, ShouldNotBeNil)
			So(fe.Field, ShouldEqual, "query.q")
			So(fe.Error, ShouldEqual, "must not exceed 50 characters")
		})

		Convey("A number under its minimum gets a value message", func() {
			fe := validation.Check("path.item_id", 0, "gte=1")
			So(fe, ShouldNotBeNil)
			So(fe.Error, ShouldEqual, "must be greater than or equal to 1")
		})

		Convey("Enum membership uses oneof", func() {
			So(validation.Check("path.food_name", "fruit", "oneof=fruit meat milk"), ShouldBeNil)

			fe := validation.Check("path.food_name", "bread", "oneof=fruit meat milk")
			So(fe, ShouldNotBeNil)
			So(fe.Error, ShouldEqual, "must be one of: fruit meat milk")
		})

		Convey("URLs are checked", func() {
			So(validation.Check("body.url", "https://example.com/a.png", "url"), ShouldBeNil)
			So(validation.Check("body.url", "not a url", "url"), ShouldNotBeNil)
		})
	})
}

func TestStruct(t *testing.T) {
	Convey("Given a struct with validate tags", t, func() {
		Convey("Every failing field is reported", func() {
			fields := validation.Struct(credentials{Email: "nope"})
			So(fields, ShouldHaveLength, 2)
			So(fields[0].Error, ShouldEqual, "is required")
			So(fields[1].Error, ShouldEqual, "must be a valid email address")
		})

		Convey("A valid struct reports nothing", func() {
			So(validation.Struct(credentials{Username: "rick", Email: "rick@example.com"}), ShouldBeEmpty)
		})
	})
}
