package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/noteful/api/cmd/api/service"
	"github.com/noteful/api/common/apperr"
	"github.com/noteful/api/common/logger"
	"github.com/noteful/api/common/validation"
)

// UserHandler handles registration requests
type UserHandler struct {
	users *service.UserService
	log   *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *service.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{
		users: users,
		log:   log,
	}
}

// Register creates a new account
// POST /api/users
func (h *UserHandler) Register(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apperr.InvalidShape("Malformed request body")
	}

	// Inspected as raw JSON so the validator can name the offending
	// field and its type
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return apperr.InvalidShape("Malformed request body")
	}

	if fieldErr := validation.ValidateRegistration(raw); fieldErr != nil {
		return fieldErr
	}

	username := raw["username"].(string)
	password := raw["password"].(string)
	var fullname *string
	if v, ok := raw["fullname"].(string); ok {
		fullname = &v
	}

	user, err := h.users.Register(c.Request().Context(), username, password, fullname)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/users/%s", user.ID))
	return c.JSON(http.StatusCreated, user)
}
