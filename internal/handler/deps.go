package handler

import (
	"net/http"

	"github.com/Nivhaham/FastApiBasics/internal/binding"
	"github.com/Nivhaham/FastApiBasics/internal/depend"
	"github.com/Nivhaham/FastApiBasics/internal/errs"
	"github.com/Nivhaham/FastApiBasics/internal/route"
	"github.com/Nivhaham/FastApiBasics/internal/server"
	"github.com/Nivhaham/FastApiBasics/internal/service"
	"github.com/labstack/echo/v4"
)

// DependencyHandler serves the routes built around dependencies.
type DependencyHandler struct {
	Handler

	verifyToken *depend.Dependency
	verifyKey   *depend.Dependency
	common      *depend.Dependency
	paging      *depend.Dependency
}

func NewDependencyHandler(s *server.Server, services *service.Services) *DependencyHandler {
	h := &DependencyHandler{Handler: NewHandler(s, services)}

	// The headers are optional so that a missing header is reported as
	// an invalid one (400) rather than a validation failure (422).
	h.verifyToken = depend.New("verify_token", h.checkToken,
		depend.WithParams(binding.Header("x_token", binding.String).Optional()))
	h.verifyKey = depend.New("verify_key", h.checkKey,
		depend.WithParams(binding.Header("x_key", binding.String).Optional()))

	h.common = depend.New("common_parameters", commonParameters,
		depend.WithParams(
			binding.Query("q", binding.String).Optional(),
			binding.Query("skip", binding.Int).Default(int64(0)).Rules("gte=0"),
			binding.Query("limit", binding.Int).Default(int64(100)).Rules("gte=0"),
		))

	// paging reads common_parameters too; per-request caching resolves
	// it once.
	h.paging = depend.New("paging", func(_ echo.Context, in depend.Input) (any, error) {
		params := in.Dep(h.common).(map[string]any)
		return map[string]any{"skip": params["skip"], "limit": params["limit"]}, nil
	}, depend.DependsOn(h.common))

	return h
}

func (h *DependencyHandler) Routes() []*route.Route {
	return []*route.Route{
		{
			Name: "read_cool_users", Method: http.MethodGet, Path: "/cool-users/", Tags: []string{"dependencies"},
			Dependencies: []*depend.Dependency{h.verifyToken, h.verifyKey},
			Handler:      h.ReadCoolUsers,
		},
		{
			Name: "read_common", Method: http.MethodGet, Path: "/common/", Tags: []string{"dependencies"},
			Dependencies: []*depend.Dependency{h.common, h.paging},
			Handler:      h.ReadCommon,
		},
	}
}

func (h *DependencyHandler) checkToken(_ echo.Context, in depend.Input) (any, error) {
	token := in.Params.String("x_token")
	if !h.services.Auth.ValidToken(token) {
		return nil, errs.NewBadRequestError("X-Token header invalid", true, nil, nil)
	}
	return token, nil
}

func (h *DependencyHandler) checkKey(_ echo.Context, in depend.Input) (any, error) {
	key := in.Params.String("x_key")
	if !h.services.Auth.ValidKey(key) {
		return nil, errs.NewBadRequestError("X-Key header invalid", true, nil, nil)
	}
	return key, nil
}

func commonParameters(_ echo.Context, in depend.Input) (any, error) {
	params := map[string]any{
		"skip":  in.Params.Int("skip"),
		"limit": in.Params.Int("limit"),
	}
	if in.Params.Has("q") {
		params["q"] = in.Params.String("q")
	}
	return params, nil
}

func (h *DependencyHandler) ReadCommon(_ echo.Context, req *route.Request) (any, error) {
	return map[string]any{
		"params": req.Dep(h.common),
		"paging": req.Dep(h.paging),
	}, nil
}

// ReadCoolUsers only runs once both header checks passed; it never reads
// their results.
func (h *DependencyHandler) ReadCoolUsers(echo.Context, *route.Request) (any, error) {
	return []map[string]any{{"username": "Rick"}, {"username": "Morty"}}, nil
}
