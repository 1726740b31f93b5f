package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/noteful/api/cmd/api/middleware"
	"github.com/noteful/api/cmd/api/service"
	"github.com/noteful/api/common/apperr"
	"github.com/noteful/api/common/logger"
	"github.com/noteful/api/common/validation"
)

// NoteHandler handles note requests
type NoteHandler struct {
	notes *service.NoteService
	log   *logger.Logger
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(notes *service.NoteService, log *logger.Logger) *NoteHandler {
	return &NoteHandler{
		notes: notes,
		log:   log,
	}
}

// List lists the caller's notes, optionally filtered by search term,
// folder, or tag
// GET /api/notes?searchTerm=&folderId=&tagId=
func (h *NoteHandler) List(c echo.Context) error {
	identity, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	notes, err := h.notes.List(
		c.Request().Context(),
		identity.UserID,
		c.QueryParam("searchTerm"),
		c.QueryParam("folderId"),
		c.QueryParam("tagId"),
	)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, notes)
}

// Get retrieves one of the caller's notes
// GET /api/notes/:id
func (h *NoteHandler) Get(c echo.Context) error {
	identity, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := validation.ParseID(c.Param("id"), "The `id` is not valid")
	if err != nil {
		return err
	}

	note, err := h.notes.Get(c.Request().Context(), id, identity.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, note)
}

// Create creates a note after its folder and tag references pass
// ownership validation
// POST /api/notes
func (h *NoteHandler) Create(c echo.Context) error {
	identity, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apperr.InvalidShape("Malformed request body")
	}

	note, err := h.notes.Create(c.Request().Context(), identity.UserID, body)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/notes/%s", note.ID))
	return c.JSON(http.StatusCreated, note)
}

// Update applies a partial update to a note
// PUT /api/notes/:id
func (h *NoteHandler) Update(c echo.Context) error {
	identity, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := validation.ParseID(c.Param("id"), "The `id` is not valid")
	if err != nil {
		return err
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apperr.InvalidShape("Malformed request body")
	}

	note, err := h.notes.Update(c.Request().Context(), id, identity.UserID, body)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, note)
}

// Delete removes a note
// DELETE /api/notes/:id
func (h *NoteHandler) Delete(c echo.Context) error {
	identity, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := validation.ParseID(c.Param("id"), "The `id` is not valid")
	if err != nil {
		return err
	}

	if err := h.notes.Delete(c.Request().Context(), id, identity.UserID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
