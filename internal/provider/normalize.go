package provider

import (
	"fmt"
	"strings"

	"github.com/rcliao/vibe-recommender/internal/model"
)

const (
	discoverDescLen = 150
	lookupDescLen   = 100

	untitled      = "제목 없음"
	noDescription = "설명 없음"
)

// tmdbMovie is a movie as returned by the discover, similar, search and
// person credits endpoints.
type tmdbMovie struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	PosterPath  string   `json:"poster_path"`
	GenreIDs    []int    `json:"genre_ids"`
	VoteAverage *float64 `json:"vote_average"`
	ReleaseDate string   `json:"release_date"`
	Job         string   `json:"job"`
}

// MovieID is the catalog id used for a provider movie.
func MovieID(externalID int) string {
	return fmt.Sprintf("tmdb_%d", externalID)
}

// fromDiscover normalizes a discover result. Energy and valence both come
// from the vote average and the profile tags are reused as mood tags.
func (t *TMDB) fromDiscover(m tmdbMovie, tags []string) model.Movie {
	level := model.DefaultLevel
	if m.VoteAverage != nil {
		level = min(10, max(0, int(*m.VoteAverage)))
	}
	if len(tags) > 4 {
		tags = tags[:4]
	}
	out := t.base(m, discoverDescLen)
	out.MoodTags = append([]string{}, tags...)
	out.Energy = level
	out.Valence = level
	return out
}

// fromLookup normalizes similar and by-director results, which carry no
// mood information.
func (t *TMDB) fromLookup(m tmdbMovie, director string) model.Movie {
	out := t.base(m, lookupDescLen)
	out.MoodTags = []string{}
	out.Energy = model.DefaultLevel
	out.Valence = model.DefaultLevel
	if director != "" {
		out.Director = director
	}
	return out
}

func (t *TMDB) base(m tmdbMovie, descLen int) model.Movie {
	title := m.Title
	if title == "" {
		title = untitled
	}
	desc := m.Overview
	if desc == "" {
		desc = noDescription
	}
	return model.Movie{
		ID:          MovieID(m.ID),
		ExternalID:  m.ID,
		Title:       title,
		Director:    UnknownDirector,
		Genre:       GenreLabel(m.GenreIDs),
		Description: truncate(desc, descLen),
		ImageURL:    t.imageURL(m.PosterPath),
		ReleaseDate: m.ReleaseDate,
	}
}

func (t *TMDB) imageURL(posterPath string) string {
	if posterPath == "" {
		return model.PlaceholderImage
	}
	return strings.TrimSuffix(t.imageBase, "/") + "/" + strings.TrimPrefix(posterPath, "/")
}

// truncate cuts s to n runes and marks the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
