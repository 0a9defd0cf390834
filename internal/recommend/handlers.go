package recommend

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bingelist/bingelist/internal/auth"
	"github.com/bingelist/bingelist/internal/favorites"
)

// Handler serves the per-user recommendation endpoint.
type Handler struct {
	service   *Service
	favorites *favorites.Repo
}

// NewHandler creates a recommendation handler.
func NewHandler(service *Service, favoritesRepo *favorites.Repo) *Handler {
	return &Handler{
		service:   service,
		favorites: favoritesRepo,
	}
}

// Get handles GET /api/v1/users/:id/recommendations. The ownership check
// runs before any favorites or TMDB I/O.
func (h *Handler) Get(c echo.Context) error {
	userID, err := auth.RequireSelf(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	ids, err := h.favorites.ListIDs(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load favorites")
	}

	return c.JSON(http.StatusOK, h.service.Groups(ctx, ids))
}
