package handler

import (
	"net/http"

	"github.com/Nivhaham/FastApiBasics/internal/binding"
	"github.com/Nivhaham/FastApiBasics/internal/middleware"
	"github.com/Nivhaham/FastApiBasics/internal/route"
	"github.com/Nivhaham/FastApiBasics/internal/server"
	"github.com/Nivhaham/FastApiBasics/internal/service"
	"github.com/labstack/echo/v4"
)

// FormHandler serves the form, JSON-credential and upload routes.
type FormHandler struct {
	Handler
}

func NewFormHandler(s *server.Server, services *service.Services) *FormHandler {
	return &FormHandler{Handler: NewHandler(s, services)}
}

func (h *FormHandler) Routes() []*route.Route {
	return []*route.Route{
		{
			Name: "login", Method: http.MethodPost, Path: "/login/", Tags: []string{"forms"},
			Params: []binding.Param{
				binding.Form("username", binding.String),
				binding.Form("password", binding.String),
			},
			Handler: h.Login,
		},
		{
			Name: "login_json", Method: http.MethodPost, Path: "/login-json/", Tags: []string{"forms"},
			Body:    credentialsModel,
			Handler: h.LoginJSON,
		},
		{
			Name: "create_upload_files", Method: http.MethodPost, Path: "/uploadfile/", Tags: []string{"forms"},
			Params:  []binding.Param{binding.File("files").Many()},
			Handler: h.UploadFiles,
		},
	}
}

// Login reads form credentials. The password is accepted but never
// returned.
func (h *FormHandler) Login(_ echo.Context, req *route.Request) (any, error) {
	return map[string]any{"username": req.Params.String("username")}, nil
}

func (h *FormHandler) LoginJSON(_ echo.Context, req *route.Request) (any, error) {
	return map[string]any{"username": req.Body.String("username")}, nil
}

// UploadFiles reports the names of the uploaded files, not their
// content.
func (h *FormHandler) UploadFiles(c echo.Context, req *route.Request) (any, error) {
	files := req.Params.Files("files")
	names := make([]string, 0, len(files))
	var size int64
	for _, f := range files {
		names = append(names, f.Filename)
		size += f.Size
	}

	middleware.GetLogger(c).Debug().Int("files", len(files)).Int64("bytes", size).Msg("files uploaded")

	return map[string]any{"filenames": names}, nil
}
