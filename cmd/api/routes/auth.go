package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/noteful/api/cmd/api/container"
	"github.com/noteful/api/cmd/api/handlers"
)

// RegisterAuthRoutes registers the login endpoint. It is the only
// protected-surface entry point that does not require a token.
func RegisterAuthRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewAuthHandler(c.AuthService, c.Components.Logger)

	e.POST("/api/login", h.Login)
}
