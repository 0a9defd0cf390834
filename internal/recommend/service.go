package recommend

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bingelist/bingelist/internal/tmdb"
)

// MetadataClient is the subset of the TMDB client the aggregator needs.
type MetadataClient interface {
	GetShowName(ctx context.Context, id int) (*tmdb.ShowName, error)
	GetRecommendations(ctx context.Context, id int) ([]tmdb.RecommendedShow, error)
}

// Group is the recommendation set for a single favorite show.
type Group struct {
	TmdbID          int                    `json:"tmdbId"`
	Title           string                 `json:"title"`
	Recommendations []tmdb.RecommendedShow `json:"recommendations"`
}

// Service aggregates per-favorite recommendations from TMDB.
type Service struct {
	client MetadataClient
	logger zerolog.Logger
}

// NewService creates a recommendation service.
func NewService(client MetadataClient, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		logger: logger.With().Str("component", "recommend").Logger(),
	}
}

// Groups resolves each favorite's show name and recommendation list
// concurrently, one worker per favorite. Favorites whose name lookup fails
// are dropped from the result; a failed or empty recommendation fetch keeps
// the group with an empty list. Output order follows input order.
func (s *Service) Groups(ctx context.Context, favoriteIDs []int) []Group {
	if len(favoriteIDs) == 0 {
		return []Group{}
	}

	results := make([]*Group, len(favoriteIDs))

	var wg sync.WaitGroup
	for i, id := range favoriteIDs {
		wg.Add(1)
		go func(slot, tmdbID int) {
			defer wg.Done()
			results[slot] = s.buildGroup(ctx, tmdbID)
		}(i, id)
	}
	wg.Wait()

	groups := make([]Group, 0, len(favoriteIDs))
	for _, g := range results {
		if g != nil {
			groups = append(groups, *g)
		}
	}

	return groups
}

// buildGroup runs the name lookup and the recommendation fetch in parallel.
// A nil return means the favorite could not be titled and is dropped.
func (s *Service) buildGroup(ctx context.Context, tmdbID int) *Group {
	var recs []tmdb.RecommendedShow

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		recs = s.fetchRecommended(ctx, tmdbID)
	}()

	name := s.resolveName(ctx, tmdbID)
	wg.Wait()

	if name == "" {
		return nil
	}

	return &Group{
		TmdbID:          tmdbID,
		Title:           name,
		Recommendations: recs,
	}
}

// resolveName returns the show's display name, or "" when the lookup fails.
func (s *Service) resolveName(ctx context.Context, tmdbID int) string {
	name, err := s.client.GetShowName(ctx, tmdbID)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int("tmdbId", tmdbID).
			Msg("Failed to resolve favorite show name, dropping from recommendations")
		return ""
	}
	return name.Name
}

// fetchRecommended returns the recommendation list for a show, or an empty
// list when the fetch fails.
func (s *Service) fetchRecommended(ctx context.Context, tmdbID int) []tmdb.RecommendedShow {
	recs, err := s.client.GetRecommendations(ctx, tmdbID)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int("tmdbId", tmdbID).
			Msg("Failed to fetch recommendations for favorite")
		return []tmdb.RecommendedShow{}
	}
	if recs == nil {
		recs = []tmdb.RecommendedShow{}
	}
	return recs
}
