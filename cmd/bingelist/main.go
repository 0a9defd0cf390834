package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bingelist/bingelist/internal/api"
	"github.com/bingelist/bingelist/internal/auth"
	"github.com/bingelist/bingelist/internal/config"
	"github.com/bingelist/bingelist/internal/database"
	"github.com/bingelist/bingelist/internal/logger"
	"github.com/bingelist/bingelist/internal/scheduler"
	"github.com/bingelist/bingelist/internal/scheduler/tasks"
	"github.com/bingelist/bingelist/internal/shows"
	"github.com/bingelist/bingelist/internal/tmdb"
	"github.com/bingelist/bingelist/internal/trending"
	"github.com/bingelist/bingelist/internal/websocket"
)

func main() {
	// .env is optional, mainly for local development
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	defer log.Close()

	log.Info().
		Str("version", config.Version).
		Str("logLevel", cfg.Logging.Level).
		Msg("starting BingeList")

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	log.Info().Msg("running database migrations")
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	authService, err := auth.NewService(db.Conn(), cfg.Auth.JWTSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize auth service")
	}

	hub := websocket.NewHub()
	go hub.Run()

	tmdbClient := tmdb.NewClient(cfg.TMDB, log.Logger)
	if !tmdbClient.IsConfigured() {
		log.Warn().Msg("TMDB API key is not configured, show metadata features are disabled")
	}

	showStore := shows.NewStore(db.Conn())
	trendingService := trending.NewService(tmdbClient, showStore, hub, log.Logger)

	sched, err := scheduler.New(log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}
	if err := tasks.RegisterTrendingTask(sched, trendingService, &cfg.Trending); err != nil {
		log.Fatal().Err(err).Msg("failed to register trending task")
	}
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}

	server := api.NewServer(api.Deps{
		DB:              db.Conn(),
		Hub:             hub,
		Config:          cfg,
		AuthService:     authService,
		TMDBClient:      tmdbClient,
		ShowStore:       showStore,
		TrendingService: trendingService,
		Scheduler:       sched,
	}, log.Logger)

	go func() {
		if err := server.Start(cfg.Server.Address()); err != nil {
			log.Info().Msg("server stopped")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("received shutdown signal")

	if err := sched.Stop(); err != nil {
		log.Error().Err(err).Msg("scheduler shutdown error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
}
