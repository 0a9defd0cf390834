package trending

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/bingelist/bingelist/internal/shows"
	"github.com/bingelist/bingelist/internal/tmdb"
)

// EventShowsUpdated is broadcast once after an ingestion run changed the
// catalog.
const EventShowsUpdated = "shows:updated"

// TrendingFetcher fetches the weekly trending listing.
type TrendingFetcher interface {
	GetTrending(ctx context.Context) ([]tmdb.TVResult, error)
}

// Broadcaster pushes events to connected clients.
type Broadcaster interface {
	Broadcast(msgType string, payload interface{}) error
}

// Catalog is the show store surface the ingestion needs.
type Catalog interface {
	GetByTmdbID(ctx context.Context, tmdbID int) (*shows.Record, error)
	Insert(ctx context.Context, rec shows.Record) error
	Update(ctx context.Context, rec shows.Record) error
}

// SyncStatus holds the result of the last ingestion run.
type SyncStatus struct {
	Running   bool      `json:"running"`
	LastRun   time.Time `json:"lastRun,omitempty"`
	Fetched   int       `json:"fetched"`
	Inserted  int       `json:"inserted"`
	Updated   int       `json:"updated"`
	Errors    int       `json:"errors"`
	ElapsedMs int       `json:"elapsed"`
	Error     string    `json:"error,omitempty"`
}

// Service ingests the weekly trending TV listing into the local catalog.
type Service struct {
	client TrendingFetcher
	store  Catalog
	hub    Broadcaster
	logger zerolog.Logger

	running atomic.Bool
	mu      sync.RWMutex
	status  SyncStatus
}

// NewService creates a trending ingestion service. hub may be nil when no
// event sink is attached.
func NewService(client TrendingFetcher, store Catalog, hub Broadcaster, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		store:  store,
		hub:    hub,
		logger: logger.With().Str("component", "trending").Logger(),
	}
}

// IsRunning returns whether an ingestion run is in progress.
func (s *Service) IsRunning() bool {
	return s.running.Load()
}

// LastStatus returns the last run's status.
func (s *Service) LastStatus() SyncStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.status
	st.Running = s.running.Load()
	return st
}

// Run executes one ingestion cycle. Each show is upserted on its own;
// a failing show is counted and skipped without aborting the run. A run
// already in progress makes Run a no-op.
func (s *Service) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return nil
	}
	defer s.running.Store(false)

	start := time.Now()
	s.logger.Info().Msg("Trending ingestion starting")

	results, err := s.client.GetTrending(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to fetch trending shows")
		s.setStatus(SyncStatus{LastRun: start, Error: err.Error()})
		return err
	}

	if len(results) == 0 {
		s.logger.Info().Msg("No trending shows returned, nothing to ingest")
		s.setStatus(SyncStatus{LastRun: start})
		return nil
	}

	var inserted, updated, failed int
	for _, tv := range results {
		wasInsert, err := s.upsert(ctx, tv)
		if err != nil {
			s.logger.Error().
				Err(err).
				Int("tmdbId", tv.ID).
				Str("name", tv.Name).
				Msg("Failed to upsert trending show")
			failed++
			continue
		}
		if wasInsert {
			inserted++
		} else {
			updated++
		}
	}

	elapsed := time.Since(start)
	s.logger.Info().
		Int("fetched", len(results)).
		Int("inserted", inserted).
		Int("updated", updated).
		Int("errors", failed).
		Dur("elapsed", elapsed).
		Msg("Trending ingestion completed")

	s.setStatus(SyncStatus{
		LastRun:   start,
		Fetched:   len(results),
		Inserted:  inserted,
		Updated:   updated,
		Errors:    failed,
		ElapsedMs: int(elapsed.Milliseconds()),
	})

	if s.hub != nil {
		s.hub.Broadcast(EventShowsUpdated, map[string]interface{}{
			"message":   "trending shows updated",
			"inserted":  inserted,
			"updated":   updated,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}

	return nil
}

// upsert inserts the show if absent, otherwise overwrites every mapped
// field. The bool reports whether the insert branch ran.
func (s *Service) upsert(ctx context.Context, tv tmdb.TVResult) (bool, error) {
	rec := shows.FromTVResult(tv)

	_, err := s.store.GetByTmdbID(ctx, tv.ID)
	switch {
	case errors.Is(err, shows.ErrNotFound):
		return true, s.store.Insert(ctx, rec)
	case err != nil:
		return false, err
	default:
		return false, s.store.Update(ctx, rec)
	}
}

func (s *Service) setStatus(st SyncStatus) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}
