package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/noteful/api/cmd/api/service"
	"github.com/noteful/api/common/apperr"
	"github.com/noteful/api/common/logger"
)

// AuthHandler handles login requests
type AuthHandler struct {
	auth *service.AuthService
	log  *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth: auth,
		log:  log,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies credentials and returns an identity assertion
// POST /api/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return apperr.InvalidShape("Malformed request body")
	}

	if req.Username == "" || req.Password == "" {
		return apperr.InvalidShape("Missing `username` or `password` in request body")
	}

	token, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"authToken": token})
}
