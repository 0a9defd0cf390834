package favorites

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Favorite marks a TMDB show as tracked by a user.
type Favorite struct {
	UserID    int64     `json:"userId"`
	TmdbID    int       `json:"tmdbId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repo persists favorites in SQLite.
type Repo struct {
	db *sql.DB
}

// NewRepo creates a favorites repository.
func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// List returns a user's favorites in insertion order.
func (r *Repo) List(ctx context.Context, userID int64) ([]Favorite, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT user_id, tmdb_id, created_at FROM favorites WHERE user_id = ? ORDER BY created_at, tmdb_id",
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	favorites := []Favorite{}
	for rows.Next() {
		var f Favorite
		if err := rows.Scan(&f.UserID, &f.TmdbID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate favorites: %w", err)
	}

	return favorites, nil
}

// ListIDs returns just the TMDB IDs of a user's favorites in insertion order.
func (r *Repo) ListIDs(ctx context.Context, userID int64) ([]int, error) {
	favorites, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int, len(favorites))
	for i, f := range favorites {
		ids[i] = f.TmdbID
	}
	return ids, nil
}

// Add marks a show as favorite. Adding an existing favorite is a no-op.
func (r *Repo) Add(ctx context.Context, userID int64, tmdbID int) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO favorites (user_id, tmdb_id) VALUES (?, ?) ON CONFLICT(user_id, tmdb_id) DO NOTHING",
		userID, tmdbID)
	if err != nil {
		return fmt.Errorf("failed to insert favorite: %w", err)
	}
	return nil
}

// Remove unmarks a show. Removing an absent favorite reports false.
func (r *Repo) Remove(ctx context.Context, userID int64, tmdbID int) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM favorites WHERE user_id = ? AND tmdb_id = ?",
		userID, tmdbID)
	if err != nil {
		return false, fmt.Errorf("failed to delete favorite: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}
