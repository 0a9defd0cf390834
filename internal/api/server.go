package api

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bingelist/bingelist/internal/auth"
	"github.com/bingelist/bingelist/internal/config"
	"github.com/bingelist/bingelist/internal/favorites"
	"github.com/bingelist/bingelist/internal/recommend"
	"github.com/bingelist/bingelist/internal/scheduler"
	"github.com/bingelist/bingelist/internal/shows"
	"github.com/bingelist/bingelist/internal/tmdb"
	"github.com/bingelist/bingelist/internal/trending"
	"github.com/bingelist/bingelist/internal/users"
	"github.com/bingelist/bingelist/internal/websocket"
)

// Server handles HTTP requests for the BingeList API.
type Server struct {
	echo      *echo.Echo
	db        *sql.DB
	hub       *websocket.Hub
	logger    zerolog.Logger
	cfg       *config.Config
	scheduler *scheduler.Scheduler

	authMiddleware   *auth.Middleware
	userHandler      *users.Handler
	favoritesRepo    *favorites.Repo
	favoritesHandler *favorites.Handler
	showsHandler     *shows.Handler
	recommendHandler *recommend.Handler
	trendingService  *trending.Service
}

// Deps carries the wired services the server exposes over HTTP.
type Deps struct {
	DB              *sql.DB
	Hub             *websocket.Hub
	Config          *config.Config
	AuthService     *auth.Service
	TMDBClient      *tmdb.Client
	ShowStore       *shows.Store
	TrendingService *trending.Service
	Scheduler       *scheduler.Scheduler
}

// NewServer creates a new API server instance.
func NewServer(deps Deps, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		db:        deps.DB,
		hub:       deps.Hub,
		logger:    logger,
		cfg:       deps.Config,
		scheduler: deps.Scheduler,
	}

	s.authMiddleware = auth.NewMiddleware(deps.AuthService)

	userRepo := users.NewRepo(deps.DB)
	userService := users.NewService(userRepo, deps.AuthService, logger)
	s.userHandler = users.NewHandler(userService)

	s.favoritesRepo = favorites.NewRepo(deps.DB)
	s.favoritesHandler = favorites.NewHandler(s.favoritesRepo)

	s.showsHandler = shows.NewHandler(deps.TMDBClient, deps.ShowStore, logger)

	recommendService := recommend.NewService(deps.TMDBClient, logger)
	s.recommendHandler = recommend.NewHandler(recommendService, s.favoritesRepo)

	s.trendingService = deps.TrendingService

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Start begins serving HTTP requests.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getStatus(c echo.Context) error {
	status := s.trendingService.LastStatus()

	return c.JSON(http.StatusOK, map[string]interface{}{
		"version":          config.Version,
		"connectedClients": s.hub.ClientCount(),
		"trending":         status,
	})
}
