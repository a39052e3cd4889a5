package recommend

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/rcliao/vibe-recommender/internal/catalog"
	"github.com/rcliao/vibe-recommender/internal/config"
	"github.com/rcliao/vibe-recommender/internal/model"
	"github.com/rcliao/vibe-recommender/internal/provider"
)

// fakeProvider serves a fixed discover batch and records queries.
type fakeProvider struct {
	discover  provider.Batch
	queries   []provider.DiscoverQuery
	directors map[int]int
	byDir     map[int][]model.Movie
	similar   map[int][]model.Movie
	calls     int
}

func (f *fakeProvider) Discover(ctx context.Context, q provider.DiscoverQuery) provider.Batch {
	f.calls++
	f.queries = append(f.queries, q)
	return f.discover
}

func (f *fakeProvider) LookupDirector(ctx context.Context, id int) provider.Lookup[string] {
	f.calls++
	return provider.Lookup[string]{Status: provider.StatusEmpty}
}

func (f *fakeProvider) DirectorID(ctx context.Context, id int) provider.Lookup[int] {
	f.calls++
	if d, ok := f.directors[id]; ok {
		return provider.Lookup[int]{Value: d, Status: provider.StatusOK}
	}
	return provider.Lookup[int]{Status: provider.StatusEmpty}
}

func (f *fakeProvider) SimilarItems(ctx context.Context, id, limit int) provider.Batch {
	f.calls++
	return capped(f.similar[id], limit)
}

func (f *fakeProvider) ItemsByDirector(ctx context.Context, dir, exclude, limit int) provider.Batch {
	f.calls++
	var out []model.Movie
	for _, m := range f.byDir[dir] {
		if m.ExternalID != exclude {
			out = append(out, m)
		}
	}
	return capped(out, limit)
}

func (f *fakeProvider) PosterURL(ctx context.Context, title string) provider.Lookup[string] {
	f.calls++
	return provider.Lookup[string]{Status: provider.StatusEmpty}
}

func capped(ms []model.Movie, limit int) provider.Batch {
	if limit > 0 && len(ms) > limit {
		ms = ms[:limit]
	}
	return provider.OK(ms)
}

type fixedRand int

func (r fixedRand) Intn(n int) int { return int(r) % n }

func ext(id int, energy, valence int, tags ...string) model.Movie {
	return model.Movie{
		ID: provider.MovieID(id), ExternalID: id, Title: "m", Genre: "드라마",
		MoodTags: tags, Energy: energy, Valence: valence,
	}
}

func newTestRecommender(p provider.Provider, rng Rand) *Recommender {
	return New(p, rng, Options{Oversample: 50, MinVotes: 50, RefreshPages: 5})
}

func TestGenres(t *testing.T) {
	cases := []struct {
		name    string
		profile model.EmotionProfile
		want    []int
	}{
		{"default", model.EmotionProfile{Happiness: 5, Energy: 5}, []int{18}},
		{"energy tags", model.EmotionProfile{Happiness: 5, Energy: 5, Tags: []string{"에너지", "로맨틱"}}, []int{28, 12, 35}},
		{"happy tag", model.EmotionProfile{Happiness: 5, Energy: 5, Tags: []string{"행복"}}, []int{10749, 18, 35}},
		{"night", model.EmotionProfile{Happiness: 5, Energy: 5, Tags: []string{"밤감성"}}, []int{53, 9648, 878}},
		{"comfort dedupes", model.EmotionProfile{Happiness: 2, Energy: 2, Tags: []string{"위로"}}, []int{18, 14, 10402}},
		{"happy energetic", model.EmotionProfile{Happiness: 8, Energy: 8}, []int{35, 16, 12}},
		{"low", model.EmotionProfile{Happiness: 2, Energy: 3}, []int{18, 99, 36}},
		{"energetic", model.EmotionProfile{Happiness: 5, Energy: 9}, []int{28, 12, 53}},
		{"bright", model.EmotionProfile{Happiness: 5, Energy: 5, Tags: []string{"밝음"}}, []int{16, 35, 10751}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Genres(c.profile)
			if !slices.Equal(got, c.want) {
				t.Errorf("Genres = %v, want %v", got, c.want)
			}
		})
	}
}

func TestGenresCapAndUnique(t *testing.T) {
	p := model.EmotionProfile{Happiness: 9, Energy: 9, Tags: []string{"에너지", "로맨틱", "위로", "밤감성", "밝음"}}
	got := Genres(p)
	if len(got) > MaxGenres {
		t.Fatalf("expected at most %d genres, got %v", MaxGenres, got)
	}
	seen := map[int]bool{}
	for _, id := range got {
		if seen[id] {
			t.Errorf("duplicate genre %d in %v", id, got)
		}
		seen[id] = true
	}
}

func TestOrdering(t *testing.T) {
	if got := Ordering(model.EmotionProfile{Happiness: 9, Energy: 8}); got != SortPopularity {
		t.Errorf("high energy: got %s", got)
	}
	if got := Ordering(model.EmotionProfile{Happiness: 8, Energy: 5}); got != SortRating {
		t.Errorf("high happiness: got %s", got)
	}
	if got := Ordering(model.EmotionProfile{Happiness: 5, Energy: 5}); got != SortPopularity {
		t.Errorf("neutral: got %s", got)
	}
}

func TestRecommendFromProvider(t *testing.T) {
	fp := &fakeProvider{discover: provider.OK([]model.Movie{
		ext(1, 9, 9),
		ext(2, 3, 3, "위로", "감성"),
		ext(3, 2, 2, "위로"),
		ext(4, 5, 5),
	})}
	r := newTestRecommender(fp, fixedRand(0))
	profile := model.EmotionProfile{Happiness: 3, Energy: 3, Tags: []string{"위로", "감성"}}

	res := r.Recommend(context.Background(), profile, 2, nil)
	if res.Source != SourceProvider || res.Page != 1 {
		t.Errorf("expected provider page 1, got %s page %d", res.Source, res.Page)
	}
	if len(res.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(res.Items))
	}
	if res.Items[0].ExternalID != 2 {
		t.Errorf("expected best match first, got %+v", res.Items[0])
	}
	if res.Items[0].Score < res.Items[1].Score {
		t.Error("expected descending scores")
	}
	if res.Items[0].Reason == "" {
		t.Error("expected a reason")
	}

	q := fp.queries[0]
	if q.Limit != 50 || q.MinVotes != 50 || q.Page != 1 || q.SortBy != SortPopularity {
		t.Errorf("unexpected query: %+v", q)
	}
	if !slices.Equal(q.Tags, profile.Tags) {
		t.Errorf("expected profile tags in query, got %v", q.Tags)
	}
}

func TestRecommendExcludesAndPicksPage(t *testing.T) {
	fp := &fakeProvider{discover: provider.OK([]model.Movie{ext(1, 5, 5), ext(2, 5, 5), ext(3, 5, 5)})}
	r := newTestRecommender(fp, fixedRand(3))

	res := r.Recommend(context.Background(), model.EmotionProfile{Happiness: 5, Energy: 5}, 10, []int{1, 3})
	if res.Page != 4 {
		t.Errorf("expected page 4 from rng, got %d", res.Page)
	}
	if len(res.Items) != 1 || res.Items[0].ExternalID != 2 {
		t.Errorf("expected only movie 2, got %+v", res.Items)
	}
}

func TestRecommendSeededPageInRange(t *testing.T) {
	fp := &fakeProvider{discover: provider.OK([]model.Movie{ext(1, 5, 5)})}
	r := newTestRecommender(fp, rand.New(rand.NewSource(42)))
	for i := 0; i < 20; i++ {
		res := r.Recommend(context.Background(), model.EmotionProfile{}, 1, []int{99})
		if res.Page < 1 || res.Page > 5 {
			t.Fatalf("page %d out of range", res.Page)
		}
	}
}

func TestRecommendFallsBackWhenProviderFails(t *testing.T) {
	fp := &fakeProvider{discover: provider.Failed(errors.New("timeout"))}
	r := newTestRecommender(fp, fixedRand(0))
	profile := model.EmotionProfile{Happiness: 2, Energy: 2, Tags: []string{"위로", "감성", "잔잔함"}}

	res := r.Recommend(context.Background(), profile, 5, nil)
	if res.Source != SourceFallback {
		t.Errorf("expected fallback, got %s", res.Source)
	}
	if len(res.Items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(res.Items))
	}
	for i := 1; i < len(res.Items); i++ {
		if res.Items[i-1].Score < res.Items[i].Score {
			t.Fatalf("not sorted at %d: %v < %v", i, res.Items[i-1].Score, res.Items[i].Score)
		}
	}
	if res.Items[0].FromProvider() {
		t.Error("expected built-in catalog items")
	}
}

func TestRecommendFallbackIgnoresExclusion(t *testing.T) {
	fp := &fakeProvider{discover: provider.OK([]model.Movie{ext(1, 5, 5)})}
	r := newTestRecommender(fp, fixedRand(0))

	res := r.Recommend(context.Background(), model.EmotionProfile{Happiness: 5, Energy: 5}, 100, []int{1})
	if res.Source != SourceFallback {
		t.Fatalf("expected fallback when all candidates are excluded, got %s", res.Source)
	}
	if len(res.Items) != catalog.Len() {
		t.Errorf("expected whole catalog, got %d", len(res.Items))
	}
}

func TestRankStableOnTies(t *testing.T) {
	items := []model.Movie{
		{ID: "a", Energy: 5, Valence: 5},
		{ID: "b", Energy: 5, Valence: 5},
		{ID: "c", Energy: 5, Valence: 5, MoodTags: []string{"x"}},
	}
	got := Rank(items, model.EmotionProfile{Happiness: 5, Energy: 5, Tags: []string{"x"}}, 3)
	if got[0].ID != "c" || got[1].ID != "a" || got[2].ID != "b" {
		t.Errorf("expected c,a,b got %s,%s,%s", got[0].ID, got[1].ID, got[2].ID)
	}
	if len(Rank(items, model.EmotionProfile{}, 0)) != 0 {
		t.Error("expected no items for n=0")
	}
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	profile := model.EmotionProfile{Happiness: 5, Energy: 5}

	fp := &fakeProvider{discover: provider.OK([]model.Movie{ext(1, 5, 5), ext(2, 5, 5), ext(3, 5, 5), ext(4, 5, 5)})}
	r := newTestRecommender(fp, fixedRand(1))

	first := r.Recommend(ctx, profile, 2, nil)
	next, ok := r.Refresh(ctx, profile, first.Items, 2)
	if !ok {
		t.Fatal("expected new recommendations")
	}
	for _, it := range next.Items {
		if it.ExternalID == first.Items[0].ExternalID || it.ExternalID == first.Items[1].ExternalID {
			t.Errorf("refresh returned excluded item %d", it.ExternalID)
		}
	}
	if fp.queries[1].Page != 2 {
		t.Errorf("expected refresh page 2, got %d", fp.queries[1].Page)
	}
}

func TestRefreshNothingNew(t *testing.T) {
	ctx := context.Background()
	profile := model.EmotionProfile{Happiness: 5, Energy: 5}

	// Built-in items carry no external ids, so the fallback repeats itself.
	fp := &fakeProvider{discover: provider.Batch{Status: provider.StatusEmpty}}
	r := newTestRecommender(fp, fixedRand(0))

	first := r.Recommend(ctx, profile, 3, nil)
	if _, ok := r.Refresh(ctx, profile, first.Items, 3); ok {
		t.Error("expected identical fallback list to report nothing new")
	}
	if _, ok := r.Refresh(ctx, profile, first.Items, 0); ok {
		t.Error("expected empty list to report nothing new")
	}
}

func TestRelatedProvider(t *testing.T) {
	fp := &fakeProvider{
		directors: map[int]int{10: 77},
		byDir:     map[int][]model.Movie{77: {ext(10, 5, 5), ext(11, 5, 5), ext(12, 5, 5), ext(13, 5, 5), ext(14, 5, 5)}},
		similar:   map[int][]model.Movie{10: {ext(20, 5, 5), ext(21, 5, 5)}},
	}
	r := newTestRecommender(fp, fixedRand(0))

	rel := r.Related(context.Background(), ext(10, 5, 5), 0)
	if len(rel.SameDirector) != RelatedLimit {
		t.Fatalf("expected %d same-director movies, got %d", RelatedLimit, len(rel.SameDirector))
	}
	for _, m := range rel.SameDirector {
		if m.ExternalID == 10 {
			t.Error("related list should not contain the movie itself")
		}
	}
	if len(rel.Similar) != 2 {
		t.Errorf("expected 2 similar movies, got %d", len(rel.Similar))
	}
}

func TestRelatedBuiltIn(t *testing.T) {
	fp := &fakeProvider{}
	r := newTestRecommender(fp, fixedRand(0))

	m, _ := catalog.ByID("movie_005")
	rel := r.Related(context.Background(), m, 3)
	if len(rel.SameDirector) != 1 || rel.SameDirector[0].ID != "movie_003" {
		t.Errorf("expected 라라랜드, got %+v", rel.SameDirector)
	}
	if len(rel.Similar) != 0 {
		t.Errorf("expected no similar movies for built-in items, got %d", len(rel.Similar))
	}
	if fp.calls != 0 {
		t.Errorf("expected no provider calls, got %d", fp.calls)
	}
}

func TestRecommendFallsBackOnProviderTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		fmt.Fprint(w, `{"results":[{"id":1,"vote_average":8}]}`)
	}))
	t.Cleanup(srv.Close)

	cfg := config.Default().TMDB
	cfg.APIKey = "test-key"
	cfg.BaseURL = srv.URL
	cfg.DiscoverTimeout = 50 * time.Millisecond

	r := New(provider.NewTMDB(cfg), fixedRand(0), Options{})
	res := r.Recommend(context.Background(), model.EmotionProfile{Happiness: 5, Energy: 5}, 5, nil)
	if res.Source != SourceFallback {
		t.Fatalf("expected fallback after timeout, got %q", res.Source)
	}
	if len(res.Items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(res.Items))
	}
	for _, it := range res.Items {
		if _, ok := catalog.ByID(it.ID); !ok {
			t.Errorf("expected catalog item, got %q", it.ID)
		}
	}
}
