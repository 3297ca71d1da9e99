package binding_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Nivhaham/FastApiBasics/internal/binding"
	"github.com/Nivhaham/FastApiBasics/internal/errs"
	"github.com/labstack/echo/v4"
	. "github.com/smartystreets/goconvey/convey"
)

func newContext(req *http.Request) echo.Context {
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func fieldsOf(err error) []string {
	verr, ok := err.(*errs.ValidationError)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		out = append(out, f.Field)
	}
	return out
}

func TestBindPathAndQuery(t *testing.T) {
	Convey("Given an int path parameter and an optional query parameter", t, func() {
		params := []binding.Param{
			binding.Path("item_id", binding.Int),
			binding.Query("q", binding.String).Optional().MaxLength(5),
		}

		Convey("Valid values are coerced", func() {
			c := newContext(httptest.NewRequest(http.MethodGet, "/items/3?q=foo", nil))
			c.SetParamNames("item_id")
			c.SetParamValues("3")

			vals, err := binding.Bind(c, params)

			So(err, ShouldBeNil)
			So(vals.Int("item_id"), ShouldEqual, 3)
			So(vals.String("q"), ShouldEqual, "foo")
			So(vals.Has("q"), ShouldBeTrue)
		})

		Convey("An absent optional parameter has no value", func() {
			c := newContext(httptest.NewRequest(http.MethodGet, "/items/3", nil))
			c.SetParamNames("item_id")
			c.SetParamValues("3")

			vals, err := binding.Bind(c, params)

			So(err, ShouldBeNil)
			So(vals.StringPtr("q"), ShouldBeNil)
			So(vals.Has("q"), ShouldBeFalse)
		})

		Convey("Every failure is reported together", func() {
			c := newContext(httptest.NewRequest(http.MethodGet, "/items/me?q=toolong", nil))
			c.SetParamNames("item_id")
			c.SetParamValues("me")

			_, err := binding.Bind(c, params)

			So(err, ShouldNotBeNil)
			So(fieldsOf(err), ShouldResemble, []string{"path.item_id", "query.q"})
		})
	})
}

func TestBindFloat(t *testing.T) {
	Convey("Given a float query parameter", t, func() {
		params := []binding.Param{binding.Query("price", binding.Float)}

		Convey("Finite values are accepted", func() {
			c := newContext(httptest.NewRequest(http.MethodGet, "/?price=2.5", nil))
			vals, err := binding.Bind(c, params)

			So(err, ShouldBeNil)
			So(vals.Float("price"), ShouldEqual, 2.5)
		})

		Convey("NaN and infinities are rejected", func() {
			for _, raw := range []string{"NaN", "Inf", "-Infinity"} {
				c := newContext(httptest.NewRequest(http.MethodGet, "/?price="+raw, nil))
				_, err := binding.Bind(c, params)

				So(fieldsOf(err), ShouldResemble, []string{"query.price"})
				So(err.Error(), ShouldContainSubstring, "must be a valid number")
			}
		})
	})
}

func TestBindEnumAndDefaults(t *testing.T) {
	Convey("Given an enum path parameter", t, func() {
		params := []binding.Param{binding.Path("food_name", binding.String).OneOf("fruit", "meat", "milk")}

		Convey("A value outside the set is rejected", func() {
			c := newContext(httptest.NewRequest(http.MethodGet, "/food/bread", nil))
			c.SetParamNames("food_name")
			c.SetParamValues("bread")

			_, err := binding.Bind(c, params)
			So(fieldsOf(err), ShouldResemble, []string{"path.food_name"})
		})
	})

	Convey("Given parameters with defaults", t, func() {
		params := []binding.Param{
			binding.Query("skip", binding.Int).Default(int64(0)),
			binding.Query("limit", binding.Int).Default(int64(100)),
			binding.Query("b", binding.String),
		}

		Convey("Defaults fill in and required values are enforced", func() {
			c := newContext(httptest.NewRequest(http.MethodGet, "/?limit=5", nil))

			vals, err := binding.Bind(c, params)

			So(fieldsOf(err), ShouldResemble, []string{"query.b"})
			So(vals.Int("skip"), ShouldEqual, 0)
			So(vals.Int("limit"), ShouldEqual, 5)
		})
	})
}

func TestBindHeadersCookiesAliases(t *testing.T) {
	Convey("Given header, cookie and aliased parameters", t, func() {
		params := []binding.Param{
			binding.Header("x_token", binding.String).Optional().Many(),
			binding.Cookie("ads_id", binding.String).Optional(),
			binding.Query("q", binding.String).Optional().As("item-query"),
			binding.Query("tag", binding.String).Optional().Many(),
		}

		Convey("Underscored header names map to hyphenated wire names", func() {
			So(params[0].WireName(), ShouldEqual, "X-Token")
			So(params[2].WireName(), ShouldEqual, "item-query")
		})

		Convey("Zero occurrences yield an empty list", func() {
			c := newContext(httptest.NewRequest(http.MethodGet, "/", nil))

			vals, err := binding.Bind(c, params)

			So(err, ShouldBeNil)
			So(vals.Strings("x_token"), ShouldBeEmpty)
			So(vals.Strings("tag"), ShouldBeEmpty)
		})

		Convey("Many occurrences are all kept", func() {
			req := httptest.NewRequest(http.MethodGet, "/?item-query=hat&tag=a&tag=b", nil)
			req.Header.Add("X-Token", "foo")
			req.Header.Add("X-Token", "bar")
			req.AddCookie(&http.Cookie{Name: "ads_id", Value: "abc"})
			c := newContext(req)

			vals, err := binding.Bind(c, params)

			So(err, ShouldBeNil)
			So(vals.Strings("x_token"), ShouldResemble, []string{"foo", "bar"})
			So(vals.Strings("tag"), ShouldResemble, []string{"a", "b"})
			So(vals.String("q"), ShouldEqual, "hat")
			So(vals.String("ads_id"), ShouldEqual, "abc")
		})
	})
}

func TestBindFormAndFiles(t *testing.T) {
	Convey("Given form credentials", t, func() {
		params := []binding.Param{
			binding.Form("username", binding.String),
			binding.Form("password", binding.String),
		}

		Convey("Url-encoded fields are read", func() {
			body := url.Values{"username": {"rick"}, "password": {"portal"}}.Encode()
			req := httptest.NewRequest(http.MethodPost, "/login/", strings.NewReader(body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)

			vals, err := binding.Bind(newContext(req), params)

			So(err, ShouldBeNil)
			So(vals.String("username"), ShouldEqual, "rick")
		})

		Convey("Missing fields are all reported", func() {
			req := httptest.NewRequest(http.MethodPost, "/login/", strings.NewReader(""))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)

			_, err := binding.Bind(newContext(req), params)

			So(fieldsOf(err), ShouldResemble, []string{"form.username", "form.password"})
		})
	})

	Convey("Given a multi-file parameter", t, func() {
		params := []binding.Param{binding.File("files").Many()}

		Convey("Every uploaded file is returned", func() {
			var buf bytes.Buffer
			w := multipart.NewWriter(&buf)
			for _, name := range []string{"a.txt", "b.txt"} {
				part, _ := w.CreateFormFile("files", name)
				_, _ = part.Write([]byte("content"))
			}
			_ = w.Close()

			req := httptest.NewRequest(http.MethodPost, "/uploadfile/", &buf)
			req.Header.Set(echo.HeaderContentType, w.FormDataContentType())

			vals, err := binding.Bind(newContext(req), params)

			So(err, ShouldBeNil)
			files := vals.Files("files")
			So(files, ShouldHaveLength, 2)
			So(files[1].Filename, ShouldEqual, "b.txt")
		})

		Convey("A request without files fails validation", func() {
			req := httptest.NewRequest(http.MethodPost, "/uploadfile/", nil)
			_, err := binding.Bind(newContext(req), params)
			So(fieldsOf(err), ShouldResemble, []string{"file.files"})
		})
	})
}
