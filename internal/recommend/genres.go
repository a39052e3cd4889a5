package recommend

import (
	"github.com/rcliao/vibe-recommender/internal/model"
	"github.com/rcliao/vibe-recommender/internal/provider"
)

// MaxGenres caps the genres sent to discover.
const MaxGenres = 3

// Sort orders understood by discover.
const (
	SortPopularity = "popularity.desc"
	SortRating     = "vote_average.desc"
)

type tagRule struct {
	tags   []string
	genres []int
}

// tagRules are checked in order; every matching rule contributes its genres.
var tagRules = []tagRule{
	{[]string{"에너지", "강렬함", "동기부여", "자신감"}, []int{provider.GenreAction, provider.GenreAdventure, provider.GenreComedy}},
	{[]string{"로맨틱", "따뜻함", "행복"}, []int{provider.GenreRomance, provider.GenreDrama, provider.GenreComedy}},
	{[]string{"위로", "감성", "잔잔함", "사색"}, []int{provider.GenreDrama, provider.GenreFantasy, provider.GenreMusic}},
	{[]string{"밤감성", "긴장", "집중"}, []int{provider.GenreThriller, provider.GenreMystery, provider.GenreSciFi}},
	{[]string{"밝음", "즐거움", "행복"}, []int{provider.GenreAnimation, provider.GenreComedy, provider.GenreFamily}},
}

// Genres maps a profile to at most MaxGenres discover genres, in the order
// the rules first produce them. Drama is used when nothing matches.
func Genres(profile model.EmotionProfile) []int {
	var ids []int
	for _, r := range tagRules {
		if profile.HasAnyTag(r.tags...) {
			ids = append(ids, r.genres...)
		}
	}

	h, e := profile.Happiness, profile.Energy
	switch {
	case h >= 7 && e >= 7:
		ids = append(ids, provider.GenreComedy, provider.GenreAnimation, provider.GenreAdventure)
	case h <= 3 && e <= 3:
		ids = append(ids, provider.GenreDrama, provider.GenreDocumentary, provider.GenreHistory)
	case e >= 7:
		ids = append(ids, provider.GenreAction, provider.GenreAdventure, provider.GenreThriller)
	}

	seen := map[int]bool{}
	out := make([]int, 0, MaxGenres)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
		if len(out) == MaxGenres {
			break
		}
	}
	if len(out) == 0 {
		return []int{provider.GenreDrama}
	}
	return out
}

// Ordering picks the discover sort: popularity for high energy, rating for
// high happiness, popularity otherwise.
func Ordering(profile model.EmotionProfile) string {
	switch {
	case profile.Energy >= 7:
		return SortPopularity
	case profile.Happiness >= 7:
		return SortRating
	default:
		return SortPopularity
	}
}
