package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/noteful/api/cmd/api/container"
	"github.com/noteful/api/cmd/api/handlers"
	"github.com/noteful/api/cmd/api/middleware"
)

// RegisterNoteRoutes registers all note routes
func RegisterNoteRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewNoteHandler(c.NoteService, c.Components.Logger)

	g := e.Group("/api/notes")
	g.Use(middleware.RequireAuth(c.Components.Config.Auth.JWTSecret))
	{
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.POST("", h.Create)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
	}
}
