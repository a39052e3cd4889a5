// Package recommend turns an emotion profile into a ranked list of movies,
// using the external provider when it has candidates and the built-in
// catalog otherwise.
package recommend

import (
	"context"
	"math/rand"
	"slices"
	"time"

	"github.com/rcliao/vibe-recommender/internal/catalog"
	"github.com/rcliao/vibe-recommender/internal/config"
	"github.com/rcliao/vibe-recommender/internal/logging"
	"github.com/rcliao/vibe-recommender/internal/model"
	"github.com/rcliao/vibe-recommender/internal/provider"
	"github.com/rcliao/vibe-recommender/internal/scoring"
)

// Result sources.
const (
	SourceProvider = "provider"
	SourceFallback = "fallback"
)

// RelatedLimit is the default size of each related list.
const RelatedLimit = 3

// Rand is the randomness used to pick a discover page on refresh.
// *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Options tunes candidate retrieval.
type Options struct {
	Oversample   int
	MinVotes     int
	RefreshPages int
}

// OptionsFrom copies the recommend section of the configuration.
func OptionsFrom(cfg config.RecommendConfig) Options {
	return Options{
		Oversample:   cfg.Oversample,
		MinVotes:     cfg.MinVotes,
		RefreshPages: cfg.RefreshPages,
	}
}

// Result is one recommendation pass.
type Result struct {
	Items  []model.ScoredMovie `json:"items"`
	Source string              `json:"source"`
	Page   int                 `json:"page"`
}

// Related lists movies connected to a given one.
type Related struct {
	SameDirector []model.Movie `json:"same_director"`
	Similar      []model.Movie `json:"similar"`
}

// Recommender orchestrates candidate retrieval, scoring and fallback.
type Recommender struct {
	provider provider.Provider
	rng      Rand
	opts     Options
}

// New creates a Recommender. A nil rng is seeded from the clock.
func New(p provider.Provider, rng Rand, opts Options) *Recommender {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Oversample <= 0 {
		opts.Oversample = 50
	}
	if opts.RefreshPages <= 0 {
		opts.RefreshPages = 5
	}
	return &Recommender{provider: p, rng: rng, opts: opts}
}

// Recommend returns up to n movies for the profile, best first. Provider
// candidates whose external id is in exclude are dropped; the built-in
// catalog is used unfiltered when no candidate remains.
func (r *Recommender) Recommend(ctx context.Context, profile model.EmotionProfile, n int, exclude []int) Result {
	page := 1
	if len(exclude) > 0 {
		page = 1 + r.rng.Intn(r.opts.RefreshPages)
	}

	batch := r.provider.Discover(ctx, provider.DiscoverQuery{
		Genres:   Genres(profile),
		SortBy:   Ordering(profile),
		MinVotes: r.opts.MinVotes,
		Page:     page,
		Limit:    r.opts.Oversample,
		Tags:     profile.Tags,
	})

	excluded := make(map[int]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}
	var candidates []model.Movie
	for _, m := range batch.Movies {
		if m.FromProvider() && !excluded[m.ExternalID] {
			candidates = append(candidates, m)
		}
	}

	res := Result{Source: SourceProvider, Page: page}
	if len(candidates) == 0 {
		logging.Ctx(ctx).Info().
			Str("status", batch.Status.String()).
			Int("discovered", len(batch.Movies)).
			Msg("no provider candidates, using built-in catalog")
		candidates = catalog.All()
		res.Source = SourceFallback
	}

	res.Items = Rank(candidates, profile, n)
	return res
}

// Rank scores items, sorts them best first (stable) and keeps the top n.
func Rank(items []model.Movie, profile model.EmotionProfile, n int) []model.ScoredMovie {
	scored := scoring.Rank(items, profile)
	slices.SortStableFunc(scored, func(a, b model.ScoredMovie) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
	if n < 0 {
		n = 0
	}
	if len(scored) > n {
		scored = scored[:n]
	}
	return scored
}

// Refresh recommends again excluding the previous items. It reports false
// when nothing new came back: an empty list, or the same ids in the same
// order. Callers keep the previous list in that case.
func (r *Recommender) Refresh(ctx context.Context, profile model.EmotionProfile, previous []model.ScoredMovie, n int) (Result, bool) {
	res := r.Recommend(ctx, profile, n, model.ExternalIDs(previous))
	if len(res.Items) == 0 || sameIDs(res.Items, previous) {
		return res, false
	}
	return res, true
}

func sameIDs(a, b []model.ScoredMovie) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

// Related finds other movies by the same director and similar movies, up to
// limit each (RelatedLimit when limit <= 0). Built-in movies only have
// same-director matches from the catalog.
func (r *Recommender) Related(ctx context.Context, m model.Movie, limit int) Related {
	if limit <= 0 {
		limit = RelatedLimit
	}
	var out Related
	if !m.FromProvider() {
		same := catalog.ByDirector(m.Director, m.ID)
		if len(same) > limit {
			same = same[:limit]
		}
		out.SameDirector = same
		return out
	}

	if dir := r.provider.DirectorID(ctx, m.ExternalID); dir.Found() {
		out.SameDirector = r.provider.ItemsByDirector(ctx, dir.Value, m.ExternalID, limit).Movies
	}
	out.Similar = r.provider.SimilarItems(ctx, m.ExternalID, limit).Movies
	return out
}
