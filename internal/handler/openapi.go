package handler

import (
	_ "embed"
	"fmt"
	"net/http"

	"github.com/Nivhaham/FastApiBasics/internal/config"
	"github.com/Nivhaham/FastApiBasics/internal/openapi"
	"github.com/Nivhaham/FastApiBasics/internal/route"
	"github.com/Nivhaham/FastApiBasics/internal/server"
	"github.com/Nivhaham/FastApiBasics/internal/service"
	"github.com/labstack/echo/v4"
)

//go:embed static/openapi.html
var openAPIPage string

// APIVersion is reported in the OpenAPI info block.
const APIVersion = "1.0.0"

// DocInfo is the info block of the published document.
func DocInfo(cfg *config.Config) openapi.Info {
	return openapi.Info{
		Title:       cfg.Observability.ServiceName,
		Version:     APIVersion,
		Description: "Request dispatch and validation service.",
	}
}

// OpenAPIHandler serves the generated OpenAPI document and a UI that
// loads it.
type OpenAPIHandler struct {
	Handler

	jsonDoc []byte
	yamlDoc []byte
}

// NewOpenAPIHandler constructs an OpenAPIHandler with access to shared dependencies.
func NewOpenAPIHandler(s *server.Server, services *service.Services) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s, services),
	}
}

// Build renders the document for table. It must be called once all
// routes are registered.
func (h *OpenAPIHandler) Build(table *route.Table) error {
	doc, err := openapi.Build(table, DocInfo(h.server.Config))
	if err != nil {
		return err
	}

	if h.jsonDoc, err = openapi.JSON(doc); err != nil {
		return fmt.Errorf("failed to render OpenAPI JSON: %w", err)
	}
	if h.yamlDoc, err = openapi.YAML(doc); err != nil {
		return fmt.Errorf("failed to render OpenAPI YAML: %w", err)
	}
	return nil
}

func (h *OpenAPIHandler) ServeJSON(c echo.Context) error {
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, h.jsonDoc)
}

func (h *OpenAPIHandler) ServeYAML(c echo.Context) error {
	return c.Blob(http.StatusOK, "application/yaml", h.yamlDoc)
}

// ServeOpenAPIUI serves the embedded docs page. Cache-Control is set to
// "no-cache" so clients do not reuse old docs UI.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-cache")

	if err := c.HTML(http.StatusOK, openAPIPage); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}
