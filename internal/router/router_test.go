package router_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Nivhaham/FastApiBasics/internal/config"
	"github.com/Nivhaham/FastApiBasics/internal/handler"
	"github.com/Nivhaham/FastApiBasics/internal/repository"
	"github.com/Nivhaham/FastApiBasics/internal/router"
	"github.com/Nivhaham/FastApiBasics/internal/server"
	"github.com/Nivhaham/FastApiBasics/internal/service"
	"github.com/labstack/echo/v4"
	. "github.com/smartystreets/goconvey/convey"
)

func newApp() *echo.Echo {
	s, err := server.New(config.Default(), nil, nil)
	So(err, ShouldBeNil)

	services := service.NewServices(s, repository.NewRepositories(s))
	e, err := router.NewRouter(s, handler.NewHandlers(s, services))
	So(err, ShouldBeNil)
	return e
}

type call struct {
	method  string
	target  string
	body    string
	ctype   string
	headers map[string][]string
}

func (c call) do(e *echo.Echo) *httptest.ResponseRecorder {
	var req *http.Request
	if c.body == "" {
		req = httptest.NewRequest(c.method, c.target, nil)
	} else {
		req = httptest.NewRequest(c.method, c.target, strings.NewReader(c.body))
		ctype := c.ctype
		if ctype == "" {
			ctype = echo.MIMEApplicationJSON
		}
		req.Header.Set(echo.HeaderContentType, ctype)
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	return call{method: http.MethodGet, target: target}.do(e)
}

func object(rec *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	So(json.Unmarshal(rec.Body.Bytes(), &out), ShouldBeNil)
	return out
}

func fields(rec *httptest.ResponseRecorder) []string {
	var out []string
	for _, f := range object(rec)["errors"].([]any) {
		out = append(out, f.(map[string]any)["field"].(string))
	}
	return out
}

func TestBasicRoutes(t *testing.T) {
	Convey("Given the application router", t, func() {
		e := newApp()

		Convey("Every verb on / answers with its own message", func() {
			for _, verb := range []string{http.MethodGet, http.MethodPost, http.MethodPut} {
				rec := call{method: verb, target: "/"}.do(e)
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(object(rec)["message"], ShouldEqual, "hey from "+strings.ToLower(verb)+" root")
			}
		})

		Convey("The literal /users/me wins over /users/{user_id}", func() {
			rec := get(e, "/users/me")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(object(rec)["message"], ShouldEqual, "specific endpoint caught before dynamic endpoint")

			rec = get(e, "/users/42")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(object(rec)["user_id"], ShouldEqual, float64(42))

			So(object(get(e, "/users"))["message"], ShouldEqual, "users list ")
		})

		Convey("A non-integer user id is a validation failure", func() {
			rec := get(e, "/users/abc")
			So(rec.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(object(rec)["code"], ShouldEqual, "VALIDATION_FAILED")
			So(fields(rec), ShouldResemble, []string{"path.user_id"})
		})

		Convey("Food names are restricted to the enumeration", func() {
			So(object(get(e, "/food/fruit"))["message"], ShouldEqual, "fruit is good")
			So(object(get(e, "/food/milk"))["message"], ShouldEqual, "milk is tasty")
			So(object(get(e, "/food/meat"))["message"], ShouldEqual, "meat is for kids")

			rec := get(e, "/food/vegetable")
			So(rec.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(fields(rec), ShouldResemble, []string{"path.food_name"})
		})

		Convey("Unknown paths and methods use the error shape", func() {
			rec := get(e, "/nowhere")
			So(rec.Code, ShouldEqual, http.StatusNotFound)
			So(object(rec)["message"], ShouldEqual, "Route not found")

			rec = call{method: http.MethodDelete, target: "/food/fruit"}.do(e)
			So(rec.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestItemRoutes(t *testing.T) {
	Convey("Given the application router", t, func() {
		e := newApp()

		Convey("Items are looked up by index", func() {
			rec := get(e, "/items/1")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(object(rec), ShouldResemble, map[string]any{"item_id": "bike"})

			rec = get(e, "/items/1?q=somequery")
			So(object(rec), ShouldResemble, map[string]any{"item_id": "bike", "q": "somequery"})

			rec = get(e, "/items/1?q=")
			So(object(rec), ShouldResemble, map[string]any{"item_id": "bike"})
		})

		Convey("An index out of range is a 404", func() {
			rec := get(e, "/items/99")
			So(rec.Code, ShouldEqual, http.StatusNotFound)
			So(object(rec)["message"], ShouldEqual, "Item not found")
		})

		Convey("Creating an item adds the tax to the price", func() {
			rec := call{method: http.MethodPost, target: "/items", body: `{"name":"Foo","price":100,"tax":10}`}.do(e)
			So(rec.Code, ShouldEqual, http.StatusOK)
			body := object(rec)
			So(body["updated_price"], ShouldEqual, float64(110))
			So(body["name"], ShouldEqual, "Foo")
		})

		Convey("A body missing required fields reports all of them", func() {
			rec := call{method: http.MethodPost, target: "/items", body: `{"description":"x"}`}.do(e)
			So(rec.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(fields(rec), ShouldContain, "body.name")
			So(fields(rec), ShouldContain, "body.price")
		})

		Convey("Query length is checked", func() {
			So(get(e, "/items?q=short").Code, ShouldEqual, http.StatusOK)
			So(get(e, "/items?q="+strings.Repeat("x", 51)).Code, ShouldEqual, http.StatusUnprocessableEntity)
		})

		Convey("Path and query failures are aggregated", func() {
			rec := get(e, "/items_validation/0")
			So(rec.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(fields(rec), ShouldContain, "path.item_id")
			So(fields(rec), ShouldContain, "query.b")

			rec = get(e, "/items_validation/3?b=yes")
			So(object(rec), ShouldResemble, map[string]any{"item_id": float64(3), "b": "yes"})
		})

		Convey("Offer tags come back deduplicated", func() {
			body := `{"name":"Deal","price":10,"items":[{"name":"Hat","price":2,"tags":["a","b","a"]}]}`
			rec := call{method: http.MethodPut, target: "/offers", body: body}.do(e)
			So(rec.Code, ShouldEqual, http.StatusOK)
			item := object(rec)["items"].([]any)[0].(map[string]any)
			So(item["tags"], ShouldHaveLength, 2)
		})
	})
}

func TestErrorRoutes(t *testing.T) {
	Convey("Given the application router", t, func() {
		e := newApp()

		Convey("An HTTP error raised by the handler is written as is", func() {
			rec := get(e, "/get_item/10")
			So(rec.Code, ShouldEqual, http.StatusTeapot)
			So(object(rec)["message"], ShouldEqual, "Nope! I don't like 10.")

			So(get(e, "/get_item/3").Code, ShouldEqual, http.StatusOK)
		})

		Convey("A domain error goes through its registered mapping", func() {
			rec := get(e, "/blah_items/10")
			So(rec.Code, ShouldEqual, http.StatusTeapot)
			So(object(rec)["message"], ShouldEqual, "Oops! 10 did something. There goes a rainbow...")
		})
	})
}

func TestDependencyRoutes(t *testing.T) {
	Convey("Given the application router", t, func() {
		e := newApp()
		cfg := config.Default()

		coolUsers := func(headers map[string][]string) *httptest.ResponseRecorder {
			return call{method: http.MethodGet, target: "/cool-users/", headers: headers}.do(e)
		}

		Convey("Missing headers fail the first check", func() {
			rec := coolUsers(nil)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(object(rec)["message"], ShouldEqual, "X-Token header invalid")
		})

		Convey("A wrong key fails after a good token", func() {
			rec := coolUsers(map[string][]string{
				"X-Token": {cfg.Auth.Token},
				"X-Key":   {"wrong"},
			})
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(object(rec)["message"], ShouldEqual, "X-Key header invalid")
		})

		Convey("A wrong token fails even with a good key", func() {
			rec := coolUsers(map[string][]string{
				"X-Token": {"wrong"},
				"X-Key":   {cfg.Auth.Key},
			})
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(object(rec)["message"], ShouldEqual, "X-Token header invalid")
		})

		Convey("Both correct headers reach the handler", func() {
			rec := coolUsers(map[string][]string{
				"X-Token": {cfg.Auth.Token},
				"X-Key":   {cfg.Auth.Key},
			})
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "Morty")
		})

		Convey("Shared dependencies feed every consumer", func() {
			rec := get(e, "/common/?q=x&skip=5")
			So(rec.Code, ShouldEqual, http.StatusOK)
			body := object(rec)
			So(body["params"], ShouldResemble, map[string]any{"q": "x", "skip": float64(5), "limit": float64(100)})
			So(body["paging"], ShouldResemble, map[string]any{"skip": float64(5), "limit": float64(100)})
		})

		Convey("Dependency parameters are validated", func() {
			rec := get(e, "/common/?skip=-1")
			So(rec.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(fields(rec), ShouldResemble, []string{"query.skip"})
		})
	})
}

func TestParamRoutes(t *testing.T) {
	Convey("Given the application router", t, func() {
		e := newApp()

		Convey("Repeated headers are collected", func() {
			rec := call{method: http.MethodGet, target: "/headers/", headers: map[string][]string{
				"X-Token": {"foo", "bar"},
			}}.do(e)
			So(object(rec)["X-Token values"], ShouldResemble, []any{"foo", "bar"})

			So(object(get(e, "/headers/"))["X-Token values"], ShouldResemble, []any{})
		})

		Convey("Search reads the aliased query and repeated tags", func() {
			rec := get(e, "/search/?item-query=shoes&tag=a&tag=b")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(object(rec), ShouldResemble, map[string]any{"q": "shoes", "tags": []any{"a", "b"}})

			rec = get(e, "/search/?item-query=ab")
			So(rec.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(fields(rec), ShouldResemble, []string{"query.item-query"})
		})

		Convey("Cookies are optional", func() {
			So(object(get(e, "/cookies/"))["ads_id"], ShouldBeNil)

			req := httptest.NewRequest(http.MethodGet, "/cookies/", nil)
			req.AddCookie(&http.Cookie{Name: "ads_id", Value: "abc"})
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			So(object(rec)["ads_id"], ShouldEqual, "abc")
		})
	})
}

func TestFormRoutes(t *testing.T) {
	Convey("Given the application router", t, func() {
		e := newApp()

		Convey("Login reads form fields and never echoes the password", func() {
			form := url.Values{"username": {"rick"}, "password": {"secret"}}
			rec := call{
				method: http.MethodPost, target: "/login/",
				body: form.Encode(), ctype: echo.MIMEApplicationForm,
			}.do(e)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(object(rec), ShouldResemble, map[string]any{"username": "rick"})

			rec = call{
				method: http.MethodPost, target: "/login/",
				body: "username=rick", ctype: echo.MIMEApplicationForm,
			}.do(e)
			So(rec.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(fields(rec), ShouldResemble, []string{"form.password"})
		})

		Convey("The JSON login reads the body", func() {
			rec := call{method: http.MethodPost, target: "/login-json/", body: `{"username":"morty","password":"x"}`}.do(e)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(object(rec), ShouldResemble, map[string]any{"username": "morty"})
		})

		Convey("Uploads report the file names", func() {
			var buf bytes.Buffer
			w := multipart.NewWriter(&buf)
			for _, name := range []string{"a.txt", "b.txt"} {
				part, err := w.CreateFormFile("files", name)
				So(err, ShouldBeNil)
				_, _ = part.Write([]byte("content of " + name))
			}
			So(w.Close(), ShouldBeNil)

			rec := call{
				method: http.MethodPost, target: "/uploadfile/",
				body: buf.String(), ctype: w.FormDataContentType(),
			}.do(e)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(object(rec)["filenames"], ShouldResemble, []any{"a.txt", "b.txt"})
		})
	})
}

func TestResponseProjection(t *testing.T) {
	Convey("Given the application router", t, func() {
		e := newApp()

		Convey("The password never leaves the server", func() {
			body := `{"username":"rick","password":"portal","email":"rick@example.com"}`
			rec := call{method: http.MethodPost, target: "/user/", body: body}.do(e)
			So(rec.Code, ShouldEqual, http.StatusOK)
			out := object(rec)
			So(out["username"], ShouldEqual, "rick")
			So(out["email"], ShouldEqual, "rick@example.com")
			So(out, ShouldNotContainKey, "password")
		})

		Convey("An invalid email is rejected", func() {
			body := `{"username":"rick","password":"portal","email":"nope"}`
			rec := call{method: http.MethodPost, target: "/user/", body: body}.do(e)
			So(rec.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(fields(rec), ShouldResemble, []string{"body.email"})
		})

		Convey("Exclude-unset only returns stored fields", func() {
			rec := get(e, "/catalog/foo")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(object(rec), ShouldResemble, map[string]any{"name": "Foo", "price": 50.2})
		})

		Convey("Exclude-unset keeps explicitly stored values, null and defaults included", func() {
			rec := get(e, "/catalog/baz")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(object(rec), ShouldResemble, map[string]any{
				"name":        "Baz",
				"description": nil,
				"price":       50.2,
				"tax":         10.5,
				"tags":        []any{},
			})
		})

		Convey("Include and exclude shape the entry", func() {
			name := object(get(e, "/catalog/bar/name"))
			So(name, ShouldResemble, map[string]any{"name": "Bar", "description": "The bartenders"})

			public := object(get(e, "/catalog/bar/public"))
			So(public["name"], ShouldEqual, "Bar")
			So(public, ShouldNotContainKey, "tax")
		})

		Convey("Unknown catalog entries are a 404", func() {
			So(get(e, "/catalog/nope").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSystemRoutes(t *testing.T) {
	Convey("Given the application router", t, func() {
		e := newApp()

		Convey("The status endpoint reports mounted routes", func() {
			rec := get(e, "/status")
			So(rec.Code, ShouldEqual, http.StatusOK)
			body := object(rec)
			So(body["status"], ShouldEqual, "healthy")
			So(body["environment"], ShouldEqual, "development")
		})

		Convey("The OpenAPI document lists the application routes", func() {
			rec := get(e, "/openapi.json")
			So(rec.Code, ShouldEqual, http.StatusOK)
			paths := object(rec)["paths"].(map[string]any)
			So(paths, ShouldContainKey, "/items/{item_id}")
			So(paths, ShouldContainKey, "/users/me")
			So(paths, ShouldNotContainKey, "/status")

			rec = get(e, "/openapi.yaml")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "openapi: 3.0.3")
		})

		Convey("The docs page is served without caching", func() {
			rec := get(e, "/docs")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Cache-Control"), ShouldEqual, "no-cache")
			So(rec.Body.String(), ShouldContainSubstring, "/openapi.json")
		})

		Convey("Metrics count served requests", func() {
			get(e, "/users/me")
			rec := get(e, "/metrics")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `route="/users/me"`)
		})
	})
}

func TestBuildTable(t *testing.T) {
	Convey("Every application route registers cleanly", t, func() {
		s, err := server.New(config.Default(), nil, nil)
		So(err, ShouldBeNil)
		h := handler.NewHandlers(s, service.NewServices(s, repository.NewRepositories(s)))

		table, err := router.BuildTable(h)
		So(err, ShouldBeNil)
		So(table.Len(), ShouldEqual, len(h.Routes()))
	})
}
