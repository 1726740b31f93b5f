package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/noteful/api/cmd/api/container"
	"github.com/noteful/api/cmd/api/handlers"
	"github.com/noteful/api/cmd/api/middleware"
)

// RegisterTagRoutes registers all tag routes
func RegisterTagRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewTagHandler(c.TagService, c.Components.Logger)

	g := e.Group("/api/tags")
	g.Use(middleware.RequireAuth(c.Components.Config.Auth.JWTSecret))
	{
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.POST("", h.Create)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
	}
}
