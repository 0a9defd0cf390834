package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/bingelist/bingelist/internal/config"
)

var (
	ErrAPIKeyMissing = errors.New("TMDB API key is not configured")
	ErrShowNotFound  = errors.New("show not found")
	ErrAPIError      = errors.New("TMDB API error")
	ErrRateLimited   = errors.New("TMDB API rate limited")
)

// MaxRecommendations is the fixed cap on recommendations returned per show.
const MaxRecommendations = 6

// Client is a TMDB API client.
type Client struct {
	httpClient *http.Client
	config     config.TMDBConfig
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client.
func NewClient(cfg config.TMDBConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "tmdb").Logger(),
	}
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// Test verifies connectivity to the TMDB API by making a configuration request.
func (c *Client) Test(ctx context.Context) error {
	if !c.IsConfigured() {
		return ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/configuration", c.config.BaseURL)
	params := url.Values{}
	params.Set("api_key", c.config.APIKey)

	var result struct {
		Images struct {
			BaseURL string `json:"base_url"`
		} `json:"images"`
	}

	return c.doRequest(ctx, endpoint, params, &result)
}

// GetShowName fetches just the display name of a show by TMDB ID.
func (c *Client) GetShowName(ctx context.Context, id int) (*ShowName, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/tv/%d", c.config.BaseURL, id)
	params := url.Values{}
	params.Set("api_key", c.config.APIKey)

	var details TVDetails
	if err := c.doRequest(ctx, endpoint, params, &details); err != nil {
		return nil, err
	}

	return &ShowName{ID: details.ID, Name: details.Name}, nil
}

// GetShow gets detailed TV show info by TMDB ID.
func (c *Client) GetShow(ctx context.Context, id int) (*NormalizedShowResult, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/tv/%d", c.config.BaseURL, id)
	params := url.Values{}
	params.Set("api_key", c.config.APIKey)

	var details TVDetails
	if err := c.doRequest(ctx, endpoint, params, &details); err != nil {
		return nil, err
	}

	result := c.detailsToResult(details)

	c.logger.Debug().
		Int("id", id).
		Str("name", result.Name).
		Msg("Got show details")

	return &result, nil
}

// GetRecommendations fetches recommended shows for a show by TMDB ID.
// The list is capped at MaxRecommendations entries; upstream ordering is
// preserved and optional fields are defaulted.
func (c *Client) GetRecommendations(ctx context.Context, id int) ([]RecommendedShow, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/tv/%d/recommendations", c.config.BaseURL, id)
	params := url.Values{}
	params.Set("api_key", c.config.APIKey)

	var response TVListResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}

	entries := response.Results
	if len(entries) > MaxRecommendations {
		entries = entries[:MaxRecommendations]
	}

	results := make([]RecommendedShow, len(entries))
	for i, tv := range entries {
		results[i] = toRecommendedShow(tv)
	}

	c.logger.Debug().
		Int("id", id).
		Int("results", len(results)).
		Msg("Got show recommendations")

	return results, nil
}

// GetTrending fetches page 1 of the weekly trending TV listing.
func (c *Client) GetTrending(ctx context.Context) ([]TVResult, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/trending/tv/week", c.config.BaseURL)
	params := url.Values{}
	params.Set("api_key", c.config.APIKey)
	params.Set("page", "1")

	var response TVListResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("results", len(response.Results)).
		Msg("Got trending shows")

	return response.Results, nil
}

// SearchShows searches for TV shows by query.
func (c *Client) SearchShows(ctx context.Context, query string) ([]NormalizedShowResult, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/search/tv", c.config.BaseURL)
	params := url.Values{}
	params.Set("api_key", c.config.APIKey)
	params.Set("query", query)
	params.Set("include_adult", "false")

	var response TVListResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}

	results := make([]NormalizedShowResult, len(response.Results))
	for i, tv := range response.Results {
		results[i] = c.toShowResult(tv)
	}

	c.logger.Debug().
		Str("query", query).
		Int("results", len(results)).
		Msg("Show search completed")

	return results, nil
}

// GetImageURL returns a full image URL for a given path and size.
// Size options: "w92", "w154", "w185", "w342", "w500", "w780", "original"
func (c *Client) GetImageURL(path string, size string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s%s", c.config.ImageBaseURL, size, path)
}

// doRequest performs an HTTP GET request and decodes the JSON response.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	reqURL := endpoint
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", endpoint).Msg("HTTP request failed")
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			c.logger.Error().
				Int("status", resp.StatusCode).
				Str("message", errResp.StatusMessage).
				Msg("TMDB API error")
		}

		switch resp.StatusCode {
		case http.StatusNotFound:
			return ErrShowNotFound
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: invalid API key", ErrAPIError)
		case http.StatusTooManyRequests:
			return ErrRateLimited
		default:
			return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// toRecommendedShow converts a TMDB list entry to a RecommendedShow,
// materializing optional fields.
func toRecommendedShow(tv TVResult) RecommendedShow {
	result := RecommendedShow{
		ID:               tv.ID,
		Name:             tv.Name,
		OriginalName:     tv.OriginalName,
		Overview:         tv.Overview,
		FirstAirDate:     tv.FirstAirDate,
		Popularity:       tv.Popularity,
		VoteAverage:      tv.VoteAverage,
		VoteCount:        tv.VoteCount,
		OriginCountry:    tv.OriginCountry,
		OriginalLanguage: tv.OriginalLanguage,
		GenreIDs:         tv.GenreIDs,
		MediaType:        tv.MediaType,
		Video:            tv.Video,
	}

	if tv.PosterPath != nil {
		result.PosterPath = *tv.PosterPath
	}
	if tv.BackdropPath != nil {
		result.BackdropPath = *tv.BackdropPath
	}
	if result.OriginCountry == nil {
		result.OriginCountry = []string{}
	}
	if result.GenreIDs == nil {
		result.GenreIDs = []int{}
	}
	if result.MediaType == "" {
		result.MediaType = "tv"
	}

	return result
}

// toShowResult converts a TMDB search result to a NormalizedShowResult.
func (c *Client) toShowResult(tv TVResult) NormalizedShowResult {
	year := 0
	if len(tv.FirstAirDate) >= 4 {
		year, _ = strconv.Atoi(tv.FirstAirDate[:4])
	}

	result := NormalizedShowResult{
		ID:            tv.ID,
		Name:          tv.Name,
		OriginalName:  tv.OriginalName,
		Year:          year,
		Overview:      tv.Overview,
		VoteAverage:   tv.VoteAverage,
		OriginCountry: tv.OriginCountry,
	}

	if tv.PosterPath != nil {
		result.PosterURL = c.GetImageURL(*tv.PosterPath, "w500")
	}
	if tv.BackdropPath != nil {
		result.BackdropURL = c.GetImageURL(*tv.BackdropPath, "w780")
	}

	return result
}

// detailsToResult converts TMDB show details to a NormalizedShowResult.
func (c *Client) detailsToResult(details TVDetails) NormalizedShowResult {
	year := 0
	if len(details.FirstAirDate) >= 4 {
		year, _ = strconv.Atoi(details.FirstAirDate[:4])
	}

	genres := make([]string, len(details.Genres))
	for i, g := range details.Genres {
		genres[i] = g.Name
	}

	// Map TMDB status to our status format
	status := "continuing"
	switch details.Status {
	case "Ended", "Canceled":
		status = "ended"
	case "Returning Series", "In Production":
		status = "continuing"
	case "Planned":
		status = "upcoming"
	}

	result := NormalizedShowResult{
		ID:            details.ID,
		Name:          details.Name,
		OriginalName:  details.OriginalName,
		Year:          year,
		Overview:      details.Overview,
		Genres:        genres,
		Status:        status,
		VoteAverage:   details.VoteAverage,
		SeasonCount:   details.NumberOfSeasons,
		EpisodeCount:  details.NumberOfEpisodes,
		OriginCountry: details.OriginCountry,
	}

	if details.PosterPath != nil {
		result.PosterURL = c.GetImageURL(*details.PosterPath, "w500")
	}
	if details.BackdropPath != nil {
		result.BackdropURL = c.GetImageURL(*details.BackdropPath, "w780")
	}

	if len(details.EpisodeRunTime) > 0 {
		result.Runtime = details.EpisodeRunTime[0]
	}

	return result
}
