package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/bingelist/bingelist/internal/scheduler"
	"github.com/bingelist/bingelist/internal/scheduler/tasks"
)

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())

	// Request body size limit (1MB)
	s.echo.Use(middleware.BodyLimit("1M"))

	// Request logging
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			// Skip compression for WebSocket
			return c.Request().Header.Get("Upgrade") == "websocket"
		},
	}))
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ws", s.hub.HandleWebSocket)

	api := s.echo.Group("/api/v1")
	api.GET("/status", s.getStatus)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.userHandler.Register)
	authGroup.POST("/login", s.userHandler.Login)
	authGroup.GET("/profile", s.userHandler.Profile, s.authMiddleware.Require())

	showsGroup := api.Group("/shows", s.authMiddleware.Require())
	showsGroup.GET("/search", s.showsHandler.Search)
	showsGroup.GET("/trending", s.showsHandler.Trending)
	showsGroup.GET("/:id", s.showsHandler.Get)

	usersGroup := api.Group("/users/:id", s.authMiddleware.Require())
	usersGroup.GET("/favorites", s.favoritesHandler.List)
	usersGroup.POST("/favorites", s.favoritesHandler.Add)
	usersGroup.DELETE("/favorites/:tmdbId", s.favoritesHandler.Remove)
	usersGroup.GET("/recommendations", s.recommendHandler.Get)

	tasksGroup := api.Group("/tasks", s.authMiddleware.Require())
	tasksGroup.GET("", s.listTasks)
	tasksGroup.POST("/trending/run", s.runTrendingTask)
}

func (s *Server) listTasks(c echo.Context) error {
	if s.scheduler == nil {
		return c.JSON(http.StatusOK, []scheduler.TaskInfo{})
	}
	return c.JSON(http.StatusOK, s.scheduler.ListTasks())
}

// runTrendingTask kicks off an ingestion run in the background. The caller
// only learns that the run was accepted; failures stay in logs and task
// state.
func (s *Server) runTrendingTask(c echo.Context) error {
	if s.scheduler == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "scheduler is not running")
	}

	if err := s.scheduler.RunNow(tasks.TrendingTaskID); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	return c.JSON(http.StatusAccepted, map[string]string{"status": "started"})
}
