package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bingelist/bingelist/internal/tmdb"
)

type fakeClient struct {
	nameCalls atomic.Int64
	recCalls  atomic.Int64

	names     map[int]string
	failNames map[int]bool
	recs      map[int][]tmdb.RecommendedShow
	failRecs  map[int]bool
}

func (f *fakeClient) GetShowName(ctx context.Context, id int) (*tmdb.ShowName, error) {
	f.nameCalls.Add(1)
	if f.failNames[id] {
		return nil, tmdb.ErrShowNotFound
	}
	name, ok := f.names[id]
	if !ok {
		return nil, tmdb.ErrShowNotFound
	}
	return &tmdb.ShowName{ID: id, Name: name}, nil
}

func (f *fakeClient) GetRecommendations(ctx context.Context, id int) ([]tmdb.RecommendedShow, error) {
	f.recCalls.Add(1)
	if f.failRecs[id] {
		return nil, errors.New("upstream failure")
	}
	return f.recs[id], nil
}

func makeRecs(n int) []tmdb.RecommendedShow {
	recs := make([]tmdb.RecommendedShow, n)
	for i := range recs {
		recs[i] = tmdb.RecommendedShow{ID: i + 1, Name: fmt.Sprintf("Rec %d", i+1)}
	}
	return recs
}

func TestService_Groups_Empty(t *testing.T) {
	client := &fakeClient{}
	service := NewService(client, zerolog.Nop())

	groups := service.Groups(context.Background(), nil)
	if groups == nil {
		t.Fatal("Groups() returned nil, want empty slice")
	}
	if len(groups) != 0 {
		t.Fatalf("got %d groups, want 0", len(groups))
	}

	if n := client.nameCalls.Load(); n != 0 {
		t.Errorf("made %d name calls, want 0", n)
	}
	if n := client.recCalls.Load(); n != 0 {
		t.Errorf("made %d recommendation calls, want 0", n)
	}
}

func TestService_Groups_OrderPreserved(t *testing.T) {
	client := &fakeClient{
		names: map[int]string{
			10: "Show Ten",
			20: "Show Twenty",
			30: "Show Thirty",
		},
		recs: map[int][]tmdb.RecommendedShow{
			10: makeRecs(2),
			20: makeRecs(3),
			30: makeRecs(1),
		},
	}
	service := NewService(client, zerolog.Nop())

	groups := service.Groups(context.Background(), []int{10, 20, 30})
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}

	wantTitles := []string{"Show Ten", "Show Twenty", "Show Thirty"}
	for i, g := range groups {
		if g.Title != wantTitles[i] {
			t.Errorf("groups[%d].Title = %q, want %q", i, g.Title, wantTitles[i])
		}
	}
	if len(groups[1].Recommendations) != 3 {
		t.Errorf("groups[1] has %d recommendations, want 3", len(groups[1].Recommendations))
	}
}

func TestService_Groups_DropsFailedNameLookup(t *testing.T) {
	client := &fakeClient{
		names: map[int]string{
			10: "Show Ten",
			30: "Show Thirty",
		},
		failNames: map[int]bool{20: true},
		recs: map[int][]tmdb.RecommendedShow{
			10: makeRecs(1),
			20: makeRecs(5),
			30: makeRecs(2),
		},
	}
	service := NewService(client, zerolog.Nop())

	groups := service.Groups(context.Background(), []int{10, 20, 30})
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].TmdbID != 10 || groups[1].TmdbID != 30 {
		t.Errorf("group IDs = %d, %d, want 10, 30", groups[0].TmdbID, groups[1].TmdbID)
	}
}

func TestService_Groups_FailedRecommendationsKeepGroup(t *testing.T) {
	client := &fakeClient{
		names:    map[int]string{10: "Show Ten"},
		failRecs: map[int]bool{10: true},
	}
	service := NewService(client, zerolog.Nop())

	groups := service.Groups(context.Background(), []int{10})
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].Recommendations == nil {
		t.Fatal("Recommendations is nil, want empty slice")
	}
	if len(groups[0].Recommendations) != 0 {
		t.Errorf("got %d recommendations, want 0", len(groups[0].Recommendations))
	}
}

func TestService_Groups_EmptyRecommendationsKeepGroup(t *testing.T) {
	client := &fakeClient{
		names: map[int]string{10: "Show Ten"},
	}
	service := NewService(client, zerolog.Nop())

	groups := service.Groups(context.Background(), []int{10})
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].Recommendations == nil {
		t.Fatal("Recommendations is nil, want empty slice")
	}
}

func TestService_Groups_AllFail(t *testing.T) {
	client := &fakeClient{
		failNames: map[int]bool{10: true, 20: true},
	}
	service := NewService(client, zerolog.Nop())

	groups := service.Groups(context.Background(), []int{10, 20})
	if groups == nil {
		t.Fatal("Groups() returned nil, want empty slice")
	}
	if len(groups) != 0 {
		t.Fatalf("got %d groups, want 0", len(groups))
	}
}

func TestService_Groups_CallCounts(t *testing.T) {
	client := &fakeClient{
		names: map[int]string{10: "A", 20: "B", 30: "C"},
	}
	service := NewService(client, zerolog.Nop())

	service.Groups(context.Background(), []int{10, 20, 30})

	if n := client.nameCalls.Load(); n != 3 {
		t.Errorf("made %d name calls, want 3", n)
	}
	if n := client.recCalls.Load(); n != 3 {
		t.Errorf("made %d recommendation calls, want 3", n)
	}
}
