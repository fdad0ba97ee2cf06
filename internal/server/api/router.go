package api

import (
	"net/http"

	"github.com/cvlens/cvlens/internal/core/analysis"
	"github.com/cvlens/cvlens/internal/core/extract"
	"github.com/cvlens/cvlens/internal/core/storage"
	"github.com/cvlens/cvlens/internal/server/api/handlers"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type RouterConfig struct {
	Service        *analysis.Service
	Uploads        *storage.Local
	Registry       *extract.Registry
	MaxUploadBytes int64
	CORSOrigins    []string
}

func SetupRouter(e *echo.Echo, cfg RouterConfig) {
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{"GET", "POST"},
	}))
	e.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(20)))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	h := handlers.NewAnalysesHandler(cfg.Service, cfg.Uploads, cfg.Registry, cfg.MaxUploadBytes)

	// Multipart upload goes straight to echo; huma's typed forms don't
	// carry the client-supplied filename, which is the job's source label.
	e.POST("/api/v1/analyses", h.Upload)

	v1 := e.Group("/api/v1")
	config := huma.DefaultConfig("cvlens API", "1.0.0")
	config.Servers = []*huma.Server{{URL: "/api/v1"}}
	config.Info.Description = "Asynchronous CV analysis and feedback service"

	api := humaecho.NewWithGroup(e, v1, config)

	huma.Register(api, huma.Operation{
		OperationID: "analysis-status",
		Method:      http.MethodGet,
		Path:        "/analyses/{id}/status",
		Summary:     "Get analysis progress",
		Tags:        []string{"Analyses"},
	}, h.Status)

	huma.Register(api, huma.Operation{
		OperationID: "analysis-result",
		Method:      http.MethodGet,
		Path:        "/analyses/{id}",
		Summary:     "Get the finished analysis report",
		Tags:        []string{"Analyses"},
	}, h.Result)
}
