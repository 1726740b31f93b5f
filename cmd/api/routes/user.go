package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/noteful/api/cmd/api/container"
	"github.com/noteful/api/cmd/api/handlers"
)

// RegisterUserRoutes registers the unauthenticated registration endpoint
func RegisterUserRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewUserHandler(c.UserService, c.Components.Logger)

	e.POST("/api/users", h.Register)
}
