package shows

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/bingelist/bingelist/internal/testutil"
	"github.com/bingelist/bingelist/internal/tmdb"
)

func sampleRecord(tmdbID int) Record {
	return Record{
		TmdbID:           tmdbID,
		Name:             "Breaking Bad",
		OriginalName:     "Breaking Bad",
		Overview:         "A high school chemistry teacher turns to crime.",
		PosterPath:       "/poster.jpg",
		BackdropPath:     "/backdrop.jpg",
		FirstAirDate:     "2008-01-20",
		GenreIDs:         []int{18, 80},
		Popularity:       450.5,
		VoteAverage:      8.9,
		VoteCount:        12000,
		OriginCountry:    []string{"US"},
		OriginalLanguage: "en",
	}
}

func TestStore_InsertAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewStore(db.Conn())
	ctx := context.Background()

	want := sampleRecord(1396)
	if err := store.Insert(ctx, want); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := store.GetByTmdbID(ctx, 1396)
	if err != nil {
		t.Fatalf("GetByTmdbID() error = %v", err)
	}

	if got.Name != want.Name {
		t.Errorf("Name = %q, want %q", got.Name, want.Name)
	}
	if !reflect.DeepEqual(got.GenreIDs, want.GenreIDs) {
		t.Errorf("GenreIDs = %v, want %v", got.GenreIDs, want.GenreIDs)
	}
	if !reflect.DeepEqual(got.OriginCountry, want.OriginCountry) {
		t.Errorf("OriginCountry = %v, want %v", got.OriginCountry, want.OriginCountry)
	}
	if got.Popularity != want.Popularity {
		t.Errorf("Popularity = %v, want %v", got.Popularity, want.Popularity)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Get_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewStore(db.Conn())

	_, err := store.GetByTmdbID(context.Background(), 99999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByTmdbID() error = %v, want %v", err, ErrNotFound)
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewStore(db.Conn())
	ctx := context.Background()

	rec := sampleRecord(1396)
	if err := store.Insert(ctx, rec); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	rec.Name = "Breaking Bad (Remastered)"
	rec.Popularity = 999
	rec.GenreIDs = []int{18}
	if err := store.Update(ctx, rec); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := store.GetByTmdbID(ctx, 1396)
	if err != nil {
		t.Fatalf("GetByTmdbID() error = %v", err)
	}
	if got.Name != "Breaking Bad (Remastered)" {
		t.Errorf("Name = %q, want updated name", got.Name)
	}
	if got.Popularity != 999 {
		t.Errorf("Popularity = %v, want 999", got.Popularity)
	}
	if !reflect.DeepEqual(got.GenreIDs, []int{18}) {
		t.Errorf("GenreIDs = %v, want [18]", got.GenreIDs)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestStore_Update_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewStore(db.Conn())

	err := store.Update(context.Background(), sampleRecord(42))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() error = %v, want %v", err, ErrNotFound)
	}
}

func TestStore_List_OrderedByPopularity(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewStore(db.Conn())
	ctx := context.Background()

	for i, pop := range []float64{10, 300, 50} {
		rec := sampleRecord(100 + i)
		rec.Popularity = pop
		if err := store.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	records, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	want := []float64{300, 50, 10}
	for i, rec := range records {
		if rec.Popularity != want[i] {
			t.Errorf("records[%d].Popularity = %v, want %v", i, rec.Popularity, want[i])
		}
	}
}

func TestFromTVResult_Defaults(t *testing.T) {
	rec := FromTVResult(tmdb.TVResult{ID: 42, Name: "Minimal"})

	if rec.TmdbID != 42 {
		t.Errorf("TmdbID = %d, want 42", rec.TmdbID)
	}
	if rec.GenreIDs == nil {
		t.Error("GenreIDs is nil, want empty slice")
	}
	if rec.OriginCountry == nil {
		t.Error("OriginCountry is nil, want empty slice")
	}
	if rec.PosterPath != "" {
		t.Errorf("PosterPath = %q, want empty", rec.PosterPath)
	}
}
