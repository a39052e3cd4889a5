// Package preference builds recommendations from the movies a user liked.
package preference

import (
	"context"
	"slices"
	"strings"

	"github.com/rcliao/vibe-recommender/internal/model"
	"github.com/rcliao/vibe-recommender/internal/provider"
	"github.com/rcliao/vibe-recommender/internal/recommend"
)

// similarPerLiked is how many similar movies are requested per liked movie.
const similarPerLiked = 10

// Kind says how an Outcome was produced.
type Kind string

const (
	KindNone    Kind = ""
	KindSimilar Kind = "similar"
	KindGenre   Kind = "genre"
)

// Outcome is the aggregated recommendation for a liked list.
type Outcome struct {
	Kind  Kind                `json:"kind,omitempty"`
	Items []model.ScoredMovie `json:"items"`
	// Profile is the synthetic genre profile, set for KindGenre.
	Profile *model.EmotionProfile `json:"emotion_profile,omitempty"`
}

// GenreCount is one row of the liked-genre tally.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// Aggregator turns liked movies into recommendations.
type Aggregator struct {
	provider    provider.Provider
	recommender *recommend.Recommender
}

func NewAggregator(p provider.Provider, r *recommend.Recommender) *Aggregator {
	return &Aggregator{provider: p, recommender: r}
}

// FromLiked gathers movies similar to the liked ones, excluding anything
// already liked. When none are found it recommends for the most liked genre
// instead. An empty liked list returns an empty Outcome without calling the
// provider.
func (a *Aggregator) FromLiked(ctx context.Context, liked []model.LikedMovie, limit int) Outcome {
	if len(liked) == 0 || limit <= 0 {
		return Outcome{}
	}

	likedIDs := model.LikedExternalIDs(liked)
	seen := make(map[int]bool, len(likedIDs))
	for _, id := range likedIDs {
		seen[id] = true
	}

	var similar []model.Movie
	for _, id := range likedIDs {
		for _, m := range a.provider.SimilarItems(ctx, id, similarPerLiked).Movies {
			if !m.FromProvider() || seen[m.ExternalID] {
				continue
			}
			seen[m.ExternalID] = true
			similar = append(similar, m)
		}
	}
	if len(similar) > 0 {
		if len(similar) > limit {
			similar = similar[:limit]
		}
		items := make([]model.ScoredMovie, len(similar))
		for i, m := range similar {
			items[i] = model.ScoredMovie{Movie: m}
		}
		return Outcome{Kind: KindSimilar, Items: items}
	}

	tally := GenreTally(liked)
	if len(tally) == 0 {
		return Outcome{}
	}
	profile := GenreProfile(tally[0].Genre)
	res := a.recommender.Recommend(ctx, profile, limit, likedIDs)
	return Outcome{Kind: KindGenre, Items: res.Items, Profile: &profile}
}

// GenreProfile is the synthetic profile used to recommend by genre.
func GenreProfile(genre string) model.EmotionProfile {
	return model.EmotionProfile{
		Label:     genre + " 선호",
		Happiness: 6,
		Energy:    5,
		Tags:      []string{genre, "추천"},
	}
}

// GenreTally counts "/"-separated genre tokens across liked movies, most
// frequent first. Ties keep the order tokens were first seen.
func GenreTally(liked []model.LikedMovie) []GenreCount {
	index := map[string]int{}
	var out []GenreCount
	for _, m := range liked {
		if m.Genre == "" {
			continue
		}
		for _, g := range strings.Split(m.Genre, "/") {
			g = strings.TrimSpace(g)
			if g == "" {
				continue
			}
			if i, ok := index[g]; ok {
				out[i].Count++
				continue
			}
			index[g] = len(out)
			out = append(out, GenreCount{Genre: g, Count: 1})
		}
	}
	slices.SortStableFunc(out, func(a, b GenreCount) int { return b.Count - a.Count })
	return out
}
