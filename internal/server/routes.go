package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes configures all API routes and the error handler
func RegisterRoutes(e *echo.Echo, h *Handlers) {
	e.HTTPErrorHandler = JSONErrorHandler()
	e.Use(SetNoCacheHeaders)

	e.GET("/healthz", h.Health)
	if h.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(h.Metrics.Handler()))
	}

	v1 := e.Group("/v1")
	v1.GET("/quote", h.Quote)
	v1.POST("/plan", h.Plan)
	v1.POST("/estimate", h.Estimate)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found", Code: http.StatusNotFound})
	})
}
