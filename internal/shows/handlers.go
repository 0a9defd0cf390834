package shows

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bingelist/bingelist/internal/tmdb"
)

// Handler serves the show discovery endpoints.
type Handler struct {
	client *tmdb.Client
	store  *Store
	logger zerolog.Logger
}

// NewHandler creates a shows handler.
func NewHandler(client *tmdb.Client, store *Store, logger zerolog.Logger) *Handler {
	return &Handler{
		client: client,
		store:  store,
		logger: logger.With().Str("component", "shows").Logger(),
	}
}

// Search handles GET /api/v1/shows/search?query=.
func (h *Handler) Search(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("query"))
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter is required")
	}

	results, err := h.client.SearchShows(c.Request().Context(), query)
	if err != nil {
		if errors.Is(err, tmdb.ErrAPIKeyMissing) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "show metadata provider is not configured")
		}
		h.logger.Error().Err(err).Str("query", query).Msg("Show search failed")
		return echo.NewHTTPError(http.StatusBadGateway, "show search failed")
	}

	return c.JSON(http.StatusOK, results)
}

// Get handles GET /api/v1/shows/:id.
func (h *Handler) Get(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid show ID")
	}

	show, err := h.client.GetShow(c.Request().Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, tmdb.ErrShowNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "show not found")
		case errors.Is(err, tmdb.ErrAPIKeyMissing):
			return echo.NewHTTPError(http.StatusServiceUnavailable, "show metadata provider is not configured")
		default:
			h.logger.Error().Err(err).Int("id", id).Msg("Show lookup failed")
			return echo.NewHTTPError(http.StatusBadGateway, "show lookup failed")
		}
	}

	return c.JSON(http.StatusOK, show)
}

// Trending handles GET /api/v1/shows/trending. It serves the locally stored
// catalog, not a live TMDB call.
func (h *Handler) Trending(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}

	records, err := h.store.List(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list trending shows")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list trending shows")
	}

	return c.JSON(http.StatusOK, records)
}
