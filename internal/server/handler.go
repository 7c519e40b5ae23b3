package server

import (
	"errors"
	"net/http"

	"github.com/emrgen/notes/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type createProfileRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	NoteIDs []string `json:"noteIds"`
}

type updateProfileRequest struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	NoteIDs *[]string `json:"noteIds"`
}

// Handler serves the note and profile api.
type Handler struct {
	notes    *service.NoteService
	profiles *service.ProfileService
}

func NewHandler(notes *service.NoteService, profiles *service.ProfileService) *Handler {
	return &Handler{
		notes:    notes,
		profiles: profiles,
	}
}

func (h *Handler) Register(g *echo.Group) {
	g.POST("/note", h.CreateNote)
	g.GET("/note", h.ListNotes)
	g.GET("/note/search", h.SearchNotes)
	g.GET("/note/:id", h.GetNote)
	g.GET("/note/:id/profiles", h.ListNoteProfiles)
	g.PUT("/note/:id", h.UpdateNote)
	g.DELETE("/note/:id", h.DeleteNote)

	g.POST("/profile", h.CreateProfile)
	g.GET("/profile", h.ListProfiles)
	g.GET("/profile/search", h.SearchProfiles)
	g.GET("/profile/:id", h.GetProfile)
	g.PUT("/profile/:id", h.UpdateProfile)
	g.DELETE("/profile/:id", h.DeleteProfile)
	g.POST("/profile/:id/refresh", h.RefreshProfile)
}

func (h *Handler) CreateNote(c echo.Context) error {
	var req noteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	note, err := h.notes.CreateNote(c.Request().Context(), service.CreateNoteRequest{
		UserID:  userID(c),
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusCreated, note)
}

// ListNotes lists the notes of the ?user= scope, or of the caller's scope.
func (h *Handler) ListNotes(c echo.Context) error {
	user := c.QueryParam("user")
	if user == "" {
		user = userID(c)
	}

	notes, err := h.notes.ListNotes(c.Request().Context(), user)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, notes)
}

func (h *Handler) SearchNotes(c echo.Context) error {
	notes, err := h.notes.SearchNotes(c.Request().Context(), userID(c), c.QueryParam("query"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, notes)
}

func (h *Handler) GetNote(c echo.Context) error {
	note, err := h.notes.GetNote(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, note)
}

func (h *Handler) ListNoteProfiles(c echo.Context) error {
	profiles, err := h.notes.ListNoteProfiles(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, profiles)
}

func (h *Handler) UpdateNote(c echo.Context) error {
	var req noteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	note, err := h.notes.UpdateNote(c.Request().Context(), service.UpdateNoteRequest{
		ID:      c.Param("id"),
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, note)
}

func (h *Handler) DeleteNote(c echo.Context) error {
	if err := h.notes.DeleteNote(c.Request().Context(), c.Param("id")); err != nil {
		return handleError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CreateProfile(c echo.Context) error {
	var req createProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	profile, err := h.profiles.CreateProfile(c.Request().Context(), service.CreateProfileRequest{
		UserID:  userID(c),
		Title:   req.Title,
		Content: req.Content,
		NoteIDs: req.NoteIDs,
	})
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusCreated, profile)
}

func (h *Handler) ListProfiles(c echo.Context) error {
	profiles, err := h.profiles.ListProfiles(c.Request().Context(), userID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, profiles)
}

func (h *Handler) SearchProfiles(c echo.Context) error {
	profiles, err := h.profiles.SearchProfiles(c.Request().Context(), userID(c), c.QueryParam("query"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, profiles)
}

func (h *Handler) GetProfile(c echo.Context) error {
	profile, err := h.profiles.GetProfileWithNotes(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	profile, err := h.profiles.UpdateProfile(c.Request().Context(), service.UpdateProfileRequest{
		ID:      c.Param("id"),
		Title:   req.Title,
		Content: req.Content,
		NoteIDs: req.NoteIDs,
	})
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *Handler) DeleteProfile(c echo.Context) error {
	if err := h.profiles.DeleteProfile(c.Request().Context(), c.Param("id")); err != nil {
		return handleError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) RefreshProfile(c echo.Context) error {
	profile, err := h.profiles.RefreshProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

func badRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}

// handleError maps the service errors onto status codes.
func handleError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	default:
		logrus.Errorf("%s %s failed: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}
