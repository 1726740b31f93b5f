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

// FolderHandler handles folder requests
type FolderHandler struct {
	folders *service.FolderService
	log     *logger.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folders *service.FolderService, log *logger.Logger) *FolderHandler {
	return &FolderHandler{
		folders: folders,
		log:     log,
	}
}

type nameRequest struct {
	Name string `json:"name"`
}

// List lists the caller's folders
// GET /api/folders
func (h *FolderHandler) List(c echo.Context) error {
	identity, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	folders, err := h.folders.List(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, folders)
}

// Get retrieves one of the caller's folders
// GET /api/folders/:id
func (h *FolderHandler) Get(c echo.Context) error {
	identity, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := validation.ParseID(c.Param("id"), "The `id` is not valid")
	if err != nil {
		return err
	}

	folder, err := h.folders.Get(c.Request().Context(), id, identity.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, folder)
}

// Create creates a folder
// POST /api/folders
func (h *FolderHandler) Create(c echo.Context) error {
	identity, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var req nameRequest
	if err := c.Bind(&req); err != nil {
		return apperr.InvalidShape("Malformed request body")
	}

	folder, err := h.folders.Create(c.Request().Context(), identity.UserID, req.Name)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/folders/%s", folder.ID))
	return c.JSON(http.StatusCreated, folder)
}

// Update renames a folder
// PUT /api/folders/:id
func (h *FolderHandler) Update(c echo.Context) error {
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

	folder, err := h.folders.Update(c.Request().Context(), id, identity.UserID, req.Name)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, folder)
}

// Delete removes a folder and detaches it from dependent notes
// DELETE /api/folders/:id
func (h *FolderHandler) Delete(c echo.Context) error {
	identity, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := validation.ParseID(c.Param("id"), "The `id` is not valid")
	if err != nil {
		return err
	}

	if err := h.folders.Delete(c.Request().Context(), id, identity.UserID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
