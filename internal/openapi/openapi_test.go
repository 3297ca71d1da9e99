package openapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/Nivhaham/FastApiBasics/internal/binding"
	"github.com/Nivhaham/FastApiBasics/internal/depend"
	"github.com/Nivhaham/FastApiBasics/internal/model"
	"github.com/Nivhaham/FastApiBasics/internal/route"
	"github.com/labstack/echo/v4"
	. "github.com/smartystreets/goconvey/convey"
)

func nothing(echo.Context, *route.Request) (any, error) { return nil, nil }

func testTable() *route.Table {
	image := model.New("Image", model.String("url").Rules("url"), model.String("name"))
	item := model.New("Item",
		model.String("name"),
		model.Float("price").Rules("gt=0"),
		model.Float("tax").Default(10.5),
		model.Array("tags", model.String("tag")).Default([]any{}).Set(),
		model.Array("images", model.Object("image", image)).Optional(),
	)

	token := depend.New("verify_token", func(echo.Context, depend.Input) (any, error) { return nil, nil },
		depend.WithParams(binding.Header("x_token", binding.String).Optional()))

	table := route.NewTable()
	for _, r := range []*route.Route{
		{Name: "read_item", Method: http.MethodGet, Path: "/items/{item_id}", Handler: nothing,
			Params: []binding.Param{
				binding.Path("item_id", binding.Int).Rules("gte=1"),
				binding.Query("q", binding.String).Optional().MaxLength(50),
			}},
		{Name: "create_item", Method: http.MethodPost, Path: "/items", Body: item, Handler: nothing,
			Response: &model.Projection{Model: item}},
		{Name: "read_food", Method: http.MethodGet, Path: "/food/{food_name}", Handler: nothing,
			Params: []binding.Param{binding.Path("food_name", binding.String).OneOf("fruit", "meat", "milk")}},
		{Name: "create_upload_files", Method: http.MethodPost, Path: "/uploadfile/", Handler: nothing,
			Params: []binding.Param{binding.File("files").Many()}},
		{Name: "read_cool_users", Method: http.MethodGet, Path: "/cool-users/", Handler: nothing,
			Dependencies: []*depend.Dependency{token}},
		{Name: "read_common", Method: http.MethodGet, Path: "/common/", Handler: nothing,
			Params: []binding.Param{binding.Query("limit", binding.Int).Default(int64(100))}},
	} {
		if err := table.Add(r); err != nil {
			panic(err)
		}
	}
	return table
}

func TestBuild(t *testing.T) {
	Convey("Given a route table", t, func() {
		doc, err := Build(testTable(), Info{Title: "reqflow", Version: "1.0.0"})

		Convey("the generated document validates", func() {
			So(err, ShouldBeNil)
			So(doc.OpenAPI, ShouldEqual, Version)
		})

		Convey("every route becomes an operation", func() {
			So(doc.Paths["/items/{item_id}"].Get, ShouldNotBeNil)
			So(doc.Paths["/items"].Post, ShouldNotBeNil)
			So(doc.Paths["/items/{item_id}"].Get.Summary, ShouldEqual, "Read Item")
		})

		Convey("parameters carry their location and constraints", func() {
			params := doc.Paths["/items/{item_id}"].Get.Parameters
			So(len(params), ShouldEqual, 2)
			So(params[0].Value.In, ShouldEqual, "path")
			So(params[0].Value.Required, ShouldBeTrue)
			So(*params[0].Value.Schema.Value.Min, ShouldEqual, 1)
			So(params[1].Value.Required, ShouldBeFalse)
			So(*params[1].Value.Schema.Value.MaxLength, ShouldEqual, 50)

			food := doc.Paths["/food/{food_name}"].Get.Parameters[0].Value.Schema.Value
			So(food.Enum, ShouldResemble, []interface{}{"fruit", "meat", "milk"})
		})

		Convey("dependency parameters are documented on the route", func() {
			op := doc.Paths["/cool-users/"].Get
			So(op.Parameters[0].Value.Name, ShouldEqual, "X-Token")
			So(op.Parameters[0].Value.In, ShouldEqual, "header")
			So(op.Responses["400"], ShouldNotBeNil)
		})

		Convey("body models become component schemas", func() {
			So(doc.Components.Schemas["Item"], ShouldNotBeNil)
			So(doc.Components.Schemas["Image"], ShouldNotBeNil)
			So(doc.Components.Schemas["Item"].Value.Required, ShouldResemble, []string{"name", "price"})
			So(doc.Components.Schemas["Item"].Value.Properties["tags"].Value.UniqueItems, ShouldBeTrue)

			op := doc.Paths["/items"].Post
			So(op.RequestBody.Value.Content.Get("application/json").Schema.Ref, ShouldEqual, "#/components/schemas/Item")
			So(op.Responses["422"], ShouldNotBeNil)
		})

		Convey("file parameters become a multipart body", func() {
			op := doc.Paths["/uploadfile/"].Post
			So(op.RequestBody.Value.Content.Get("multipart/form-data"), ShouldNotBeNil)
		})

		Convey("JSON and YAML renderings agree on content", func() {
			data, err := JSON(doc)
			So(err, ShouldBeNil)

			var decoded map[string]any
			So(json.Unmarshal(data, &decoded), ShouldBeNil)
			So(decoded["openapi"], ShouldEqual, Version)

			y, err := YAML(doc)
			So(err, ShouldBeNil)
			So(string(y), ShouldContainSubstring, "openapi: 3.0.3")
			So(string(y), ShouldContainSubstring, "/items/{item_id}")
			So(strings.HasPrefix(string(y), "{"), ShouldBeFalse)
		})
	})

	Convey("Summary humanizes operation names", t, func() {
		So(Summary("read_user_me"), ShouldEqual, "Read User Me")
	})
}
