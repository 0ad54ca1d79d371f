package server

import (
	"datadetox/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Chat search route
	apiRoutes.POST("/search", routes.PostSearchHandler)

	// Graph pipeline routes
	apiRoutes.POST("/graph", routes.PostGraphHandler)
	apiRoutes.GET("/lineage", routes.GetLineageHandler)
}
