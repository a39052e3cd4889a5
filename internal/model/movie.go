// Package model defines the core recommendation data types.
package model

import "time"

// DefaultLevel is the energy/valence assumed when a source does not provide one.
const DefaultLevel = 5

// PlaceholderImage is shown for movies without a poster.
const PlaceholderImage = "https://via.placeholder.com/300x450?text=No+Image"

// Movie is a catalog item, sourced from the static catalog or the external provider.
type Movie struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Director    string   `json:"director"`
	Genre       string   `json:"genre"`
	MoodTags    []string `json:"mood_tags"`
	Energy      int      `json:"energy"`
	Valence     int      `json:"valence"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	ReleaseDate string   `json:"release_date,omitempty"`
	// ExternalID is the provider identifier. Zero for static catalog items.
	ExternalID int `json:"external_id,omitempty"`
}

// FromProvider reports whether the movie carries a provider identifier.
func (m Movie) FromProvider() bool {
	return m.ExternalID != 0
}

// ScoredMovie is a movie plus its match score for one recommendation call.
type ScoredMovie struct {
	Movie
	Score  float64 `json:"score"`
	Reason string  `json:"reason,omitempty"`
}

// LikedMovie is a snapshot of a movie the user liked.
type LikedMovie struct {
	Movie
	LikedAt time.Time `json:"liked_at"`
}

// Feedback is a user's reaction to a recommended movie.
type Feedback string

const (
	FeedbackLike    Feedback = "like"
	FeedbackDislike Feedback = "dislike"
)

// ValidFeedback are the allowed feedback values.
var ValidFeedback = map[Feedback]bool{
	FeedbackLike:    true,
	FeedbackDislike: true,
}

// ExternalIDs returns the provider ids of scored movies, skipping static items.
func ExternalIDs(items []ScoredMovie) []int {
	var ids []int
	for _, it := range items {
		if it.FromProvider() {
			ids = append(ids, it.ExternalID)
		}
	}
	return ids
}

// LikedExternalIDs returns the provider ids of liked movies, skipping static items.
func LikedExternalIDs(items []LikedMovie) []int {
	var ids []int
	for _, it := range items {
		if it.FromProvider() {
			ids = append(ids, it.ExternalID)
		}
	}
	return ids
}
