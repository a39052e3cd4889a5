// Package session provides the per-session state: feedback, liked movies,
// provider memo, emotion history and the current recommendation list.
package session

import (
	"context"
	"time"

	"github.com/rcliao/vibe-recommender/internal/model"
)

// FeedbackStats summarizes the feedback given in a session.
type FeedbackStats struct {
	Total    int `json:"total"`
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}

// Current is the most recent recommendation pass, kept for refresh.
type Current struct {
	Profile   model.EmotionProfile `json:"emotion_profile"`
	Items     []model.ScoredMovie  `json:"items"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Store defines the session storage interface.
type Store interface {
	// ID is the session identifier, stable for the life of the store.
	ID() string

	// SetFeedback records a like or dislike. The last write wins.
	SetFeedback(ctx context.Context, movieID string, kind model.Feedback) error
	Feedback(ctx context.Context, movieID string) (model.Feedback, bool, error)
	FeedbackStats(ctx context.Context) (FeedbackStats, error)

	// Like snapshots a movie into the liked list and sets its feedback.
	// It reports false if the movie was already liked.
	Like(ctx context.Context, m model.Movie) (bool, error)
	// Unlike removes a liked movie and clears its feedback.
	Unlike(ctx context.Context, movieID string) (bool, error)
	// Liked returns liked movies in the order they were liked.
	Liked(ctx context.Context) ([]model.LikedMovie, error)

	// MemoGet and MemoPut back the append-only provider memo.
	// The first value stored for a key is kept.
	MemoGet(ctx context.Context, ns, key string) ([]byte, bool, error)
	MemoPut(ctx context.Context, ns, key string, value []byte) error

	AppendHistory(ctx context.Context, situation string, p model.EmotionProfile) (*model.HistoryEntry, error)
	// History returns the most recent entries, oldest first. limit <= 0 returns all.
	History(ctx context.Context, limit int) ([]model.HistoryEntry, error)

	SetCurrent(ctx context.Context, p model.EmotionProfile, items []model.ScoredMovie) error
	Current(ctx context.Context) (*Current, bool, error)

	// Remember records movies shown to the user so later commands can
	// refer to them by id.
	Remember(ctx context.Context, movies ...model.Movie) error
	Shown(ctx context.Context, movieID string) (model.Movie, bool, error)

	Close() error
}
