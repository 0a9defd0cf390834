package favorites

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bingelist/bingelist/internal/auth"
)

// Handler serves the per-user favorites endpoints.
type Handler struct {
	repo *Repo
}

// NewHandler creates a favorites handler.
func NewHandler(repo *Repo) *Handler {
	return &Handler{repo: repo}
}

type addRequest struct {
	TmdbID int `json:"tmdbId"`
}

// List handles GET /api/v1/users/:id/favorites.
func (h *Handler) List(c echo.Context) error {
	userID, err := auth.RequireSelf(c)
	if err != nil {
		return err
	}

	favorites, err := h.repo.List(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list favorites")
	}

	return c.JSON(http.StatusOK, favorites)
}

// Add handles POST /api/v1/users/:id/favorites.
func (h *Handler) Add(c echo.Context) error {
	userID, err := auth.RequireSelf(c)
	if err != nil {
		return err
	}

	var req addRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.TmdbID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "tmdbId must be a positive integer")
	}

	if err := h.repo.Add(c.Request().Context(), userID, req.TmdbID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to add favorite")
	}

	return c.NoContent(http.StatusCreated)
}

// Remove handles DELETE /api/v1/users/:id/favorites/:tmdbId.
func (h *Handler) Remove(c echo.Context) error {
	userID, err := auth.RequireSelf(c)
	if err != nil {
		return err
	}

	tmdbID, err := strconv.Atoi(c.Param("tmdbId"))
	if err != nil || tmdbID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid show ID")
	}

	removed, err := h.repo.Remove(c.Request().Context(), userID, tmdbID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to remove favorite")
	}
	if !removed {
		return echo.NewHTTPError(http.StatusNotFound, "favorite not found")
	}

	return c.NoContent(http.StatusNoContent)
}
