package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/noteful/api/cmd/api/middleware"
	"github.com/noteful/api/cmd/api/service"
	"github.com/noteful/api/common/apperr"
	"github.com/noteful/api/common/logger"
	"github.com/noteful/api/common/validation"
)

// TagHandler handles tag requests
type TagHandler struct {
	tags *service.TagService
	log  *logger.Logger
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tags *service.TagService, log *logger.Logger) *TagHandler {
	return &TagHandler{
		tags: tags,
		log:  log,
	}
}

// List lists the caller's tags
// GET /api/tags
func (h *TagHandler) List(c echo.Context) error {
	identity, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	tags, err := h.tags.List(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tags)
}

// Get retrieves one of the caller's tags
// GET /api/tags/:id
func (h *TagHandler) Get(c echo.Context) error {
	identity, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := validation.ParseID(c.Param("id"), "The `id` is not valid")
	if err != nil {
		return err
	}

	tag, err := h.tags.Get(c.Request().Context(), id, identity.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tag)
}

// Create creates a tag
// POST /api/tags
func (h *TagHandler) Create(c echo.Context) error {
	identity, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var req nameRequest
	if err := c.Bind(&req); err != nil {
		return apperr.InvalidShape("Malformed request body")
	}

	tag, err := h.tags.Create(c.Request().Context(), identity.UserID, req.Name)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/tags/%s", tag.ID))
	return c.JSON(http.StatusCreated, tag)
}

// Update renames a tag
// PUT /api/tags/:id
func (h *TagHandler) Update(c echo.Context) error {
	identity, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := validation.ParseID(c.Param("id"), "The `id` is not valid")
	if err != nil {
		return err
	}

	var req nameRequest
	if err := c.Bind(&req); err != nil {
		return apperr.InvalidShape("Malformed request body")
	}

	tag, err := h.tags.Update(c.Request().Context(), id, identity.UserID, req.Name)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tag)
}

// Delete removes a tag and strips it from dependent notes
// DELETE /api/tags/:id
func (h *TagHandler) Delete(c echo.Context) error {
	identity, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := validation.ParseID(c.Param("id"), "The `id` is not valid")
	if err != nil {
		return err
	}

	if err := h.tags.Delete(c.Request().Context(), id, identity.UserID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
