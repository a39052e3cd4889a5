// Package provider defines the external movie catalog capability and its
// TMDB implementation. Provider calls never return errors: failures degrade
// to empty results carrying StatusFailed so callers can fall back.
package provider

import (
	"context"

	"github.com/rcliao/vibe-recommender/internal/model"
)

// UnknownDirector is used when a movie's director cannot be resolved.
const UnknownDirector = "알 수 없음"

// Status classifies a provider result.
type Status int

const (
	StatusOK Status = iota
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Batch is a list result. Movies is empty unless Status is StatusOK.
type Batch struct {
	Movies []model.Movie
	Status Status
	Err    error
}

// Lookup is a single-value result. Value is the zero value unless Found.
type Lookup[T any] struct {
	Value  T
	Status Status
	Err    error
}

// Found reports whether the lookup produced a value.
func (l Lookup[T]) Found() bool { return l.Status == StatusOK }

// DiscoverQuery describes one discover call.
type DiscoverQuery struct {
	Genres   []int
	SortBy   string
	MinVotes int
	Page     int
	Limit    int
	// Tags become the mood tags of every discovered movie.
	Tags []string
}

// Provider is the external catalog capability.
type Provider interface {
	Discover(ctx context.Context, q DiscoverQuery) Batch
	LookupDirector(ctx context.Context, movieID int) Lookup[string]
	DirectorID(ctx context.Context, movieID int) Lookup[int]
	SimilarItems(ctx context.Context, movieID, limit int) Batch
	ItemsByDirector(ctx context.Context, directorID, excludeID, limit int) Batch
	PosterURL(ctx context.Context, title string) Lookup[string]
}

// Credit is a movie's director as listed in its credits.
type Credit struct {
	Name string `json:"name"`
	ID   int    `json:"id"`
}

// CreditsProvider is implemented by providers that resolve a director's name
// and id in one request.
type CreditsProvider interface {
	Credits(ctx context.Context, movieID int) Lookup[Credit]
}

// directorName and directorID project a credits lookup onto the two
// director lookups of Provider.
func directorName(c Lookup[Credit]) Lookup[string] {
	switch {
	case c.Status == StatusFailed:
		return failed[string](c.Err)
	case c.Found() && c.Value.Name != "":
		return found(c.Value.Name)
	}
	return absent[string]()
}

func directorID(c Lookup[Credit]) Lookup[int] {
	switch {
	case c.Status == StatusFailed:
		return failed[int](c.Err)
	case c.Found() && c.Value.ID != 0:
		return found(c.Value.ID)
	}
	return absent[int]()
}

// OK wraps movies in a batch, StatusEmpty when there are none.
func OK(movies []model.Movie) Batch {
	if len(movies) == 0 {
		return Batch{Status: StatusEmpty}
	}
	return Batch{Movies: movies, Status: StatusOK}
}

// Failed returns a failed batch carrying err.
func Failed(err error) Batch {
	return Batch{Status: StatusFailed, Err: err}
}

func found[T any](v T) Lookup[T] {
	return Lookup[T]{Value: v, Status: StatusOK}
}

func absent[T any]() Lookup[T] {
	return Lookup[T]{Status: StatusEmpty}
}

func failed[T any](err error) Lookup[T] {
	return Lookup[T]{Status: StatusFailed, Err: err}
}
