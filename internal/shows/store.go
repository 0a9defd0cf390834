package shows

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bingelist/bingelist/internal/tmdb"
)

// ErrNotFound means no stored show matches the given TMDB ID.
var ErrNotFound = errors.New("show not found")

// Record is a show row in the local catalog, populated from TMDB trending
// data.
type Record struct {
	ID               int64     `json:"id"`
	TmdbID           int       `json:"tmdbId"`
	Name             string    `json:"name"`
	OriginalName     string    `json:"originalName"`
	Overview         string    `json:"overview"`
	PosterPath       string    `json:"posterPath"`
	BackdropPath     string    `json:"backdropPath"`
	FirstAirDate     string    `json:"firstAirDate"`
	GenreIDs         []int     `json:"genreIds"`
	Popularity       float64   `json:"popularity"`
	VoteAverage      float64   `json:"voteAverage"`
	VoteCount        int       `json:"voteCount"`
	OriginCountry    []string  `json:"originCountry"`
	OriginalLanguage string    `json:"originalLanguage"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// FromTVResult maps a TMDB listing entry onto a catalog record.
func FromTVResult(tv tmdb.TVResult) Record {
	rec := Record{
		TmdbID:           tv.ID,
		Name:             tv.Name,
		OriginalName:     tv.OriginalName,
		Overview:         tv.Overview,
		FirstAirDate:     tv.FirstAirDate,
		GenreIDs:         tv.GenreIDs,
		Popularity:       tv.Popularity,
		VoteAverage:      tv.VoteAverage,
		VoteCount:        tv.VoteCount,
		OriginCountry:    tv.OriginCountry,
		OriginalLanguage: tv.OriginalLanguage,
	}

	if tv.PosterPath != nil {
		rec.PosterPath = *tv.PosterPath
	}
	if tv.BackdropPath != nil {
		rec.BackdropPath = *tv.BackdropPath
	}
	if rec.GenreIDs == nil {
		rec.GenreIDs = []int{}
	}
	if rec.OriginCountry == nil {
		rec.OriginCountry = []string{}
	}

	return rec
}

// Store persists shows in SQLite. Genre IDs and origin countries are stored
// as JSON text columns.
type Store struct {
	db *sql.DB
}

// NewStore creates a show store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const recordColumns = `id, tmdb_id, name, original_name, overview, poster_path,
	backdrop_path, first_air_date, genre_ids, popularity, vote_average,
	vote_count, origin_country, original_language, created_at, updated_at`

// GetByTmdbID fetches a stored show by its TMDB ID.
func (s *Store) GetByTmdbID(ctx context.Context, tmdbID int) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM shows WHERE tmdb_id = ?", tmdbID)

	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan show: %w", err)
	}
	return rec, nil
}

// Insert adds a new show to the catalog.
func (s *Store) Insert(ctx context.Context, rec Record) error {
	genreIDs, originCountry, err := encodeLists(rec)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO shows (tmdb_id, name, original_name, overview, poster_path,
			backdrop_path, first_air_date, genre_ids, popularity, vote_average,
			vote_count, origin_country, original_language)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.TmdbID, rec.Name, rec.OriginalName, rec.Overview, rec.PosterPath,
		rec.BackdropPath, rec.FirstAirDate, genreIDs, rec.Popularity,
		rec.VoteAverage, rec.VoteCount, originCountry, rec.OriginalLanguage)
	if err != nil {
		return fmt.Errorf("failed to insert show: %w", err)
	}
	return nil
}

// Update overwrites every mapped field of an existing show, keyed by TMDB ID.
func (s *Store) Update(ctx context.Context, rec Record) error {
	genreIDs, originCountry, err := encodeLists(rec)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE shows SET name = ?, original_name = ?, overview = ?,
			poster_path = ?, backdrop_path = ?, first_air_date = ?,
			genre_ids = ?, popularity = ?, vote_average = ?, vote_count = ?,
			origin_country = ?, original_language = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE tmdb_id = ?`,
		rec.Name, rec.OriginalName, rec.Overview, rec.PosterPath,
		rec.BackdropPath, rec.FirstAirDate, genreIDs, rec.Popularity,
		rec.VoteAverage, rec.VoteCount, originCountry, rec.OriginalLanguage,
		rec.TmdbID)
	if err != nil {
		return fmt.Errorf("failed to update show: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns stored shows ordered by popularity, most popular first.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+recordColumns+" FROM shows ORDER BY popularity DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query shows: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan show: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shows: %w", err)
	}

	return records, nil
}

// Count returns the number of stored shows.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM shows").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count shows: %w", err)
	}
	return count, nil
}

func encodeLists(rec Record) (string, string, error) {
	genreIDs := rec.GenreIDs
	if genreIDs == nil {
		genreIDs = []int{}
	}
	originCountry := rec.OriginCountry
	if originCountry == nil {
		originCountry = []string{}
	}

	genreJSON, err := json.Marshal(genreIDs)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode genre IDs: %w", err)
	}
	countryJSON, err := json.Marshal(originCountry)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode origin countries: %w", err)
	}

	return string(genreJSON), string(countryJSON), nil
}

func scanRecord(scan func(dest ...interface{}) error) (*Record, error) {
	var rec Record
	var genreIDs, originCountry string

	err := scan(&rec.ID, &rec.TmdbID, &rec.Name, &rec.OriginalName,
		&rec.Overview, &rec.PosterPath, &rec.BackdropPath, &rec.FirstAirDate,
		&genreIDs, &rec.Popularity, &rec.VoteAverage, &rec.VoteCount,
		&originCountry, &rec.OriginalLanguage, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(genreIDs), &rec.GenreIDs); err != nil {
		return nil, fmt.Errorf("failed to decode genre IDs: %w", err)
	}
	if err := json.Unmarshal([]byte(originCountry), &rec.OriginCountry); err != nil {
		return nil, fmt.Errorf("failed to decode origin countries: %w", err)
	}

	return &rec, nil
}
