package provider

import (
	"context"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/rcliao/vibe-recommender/internal/logging"
	"github.com/rcliao/vibe-recommender/internal/model"
)

// MemoStore is the append-only key/value memo kept by a session.
type MemoStore interface {
	MemoGet(ctx context.Context, ns, key string) ([]byte, bool, error)
	MemoPut(ctx context.Context, ns, key string, value []byte) error
}

// Memo namespaces.
const (
	memoCredits    = "credits"
	memoPoster     = "poster"
	memoSimilar    = "similar"
	memoByDirector = "by_director"
)

// memoFetchSize is how many items a memoized list call asks for, so a later
// call with a larger limit is still served from the memo.
const memoFetchSize = 20

// Memo wraps a Provider with the session memo. Lookups and lists are stored
// on first fetch, including absent results; failures are never stored so the
// next call retries. Discover always goes to the inner provider.
type Memo struct {
	inner Provider
	store MemoStore
}

var (
	_ Provider        = (*Memo)(nil)
	_ CreditsProvider = (*Memo)(nil)
)

func NewMemo(inner Provider, store MemoStore) *Memo {
	return &Memo{inner: inner, store: store}
}

type memoEntry[T any] struct {
	Value T    `json:"value"`
	Found bool `json:"found"`
}

func (m *Memo) load(ctx context.Context, ns, key string, out interface{}) bool {
	raw, ok, err := m.store.MemoGet(ctx, ns, key)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("ns", ns).Msg("memo read failed")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("ns", ns).Msg("memo decode failed")
		return false
	}
	return true
}

func (m *Memo) save(ctx context.Context, ns, key string, v interface{}) {
	b, err := json.Marshal(v)
	if err == nil {
		err = m.store.MemoPut(ctx, ns, key, b)
	}
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("ns", ns).Msg("memo write failed")
	}
}

func memoLookup[T any](ctx context.Context, m *Memo, ns, key string, fetch func() Lookup[T]) Lookup[T] {
	var e memoEntry[T]
	if m.load(ctx, ns, key, &e) {
		if e.Found {
			return found(e.Value)
		}
		return absent[T]()
	}
	res := fetch()
	if res.Status != StatusFailed {
		m.save(ctx, ns, key, memoEntry[T]{Value: res.Value, Found: res.Found()})
	}
	return res
}

func (m *Memo) memoBatch(ctx context.Context, ns, key string, fetch func() Batch) Batch {
	var movies []model.Movie
	if m.load(ctx, ns, key, &movies) {
		return OK(movies)
	}
	b := fetch()
	if b.Status != StatusFailed {
		if b.Movies == nil {
			b.Movies = []model.Movie{}
		}
		m.save(ctx, ns, key, b.Movies)
	}
	return b
}

func (m *Memo) Discover(ctx context.Context, q DiscoverQuery) Batch {
	b := m.inner.Discover(ctx, q)
	m.resolveDirectors(ctx, b.Movies)
	return b
}

// Credits memoizes a movie's director name and id under one key, so
// LookupDirector and DirectorID share a single upstream request.
func (m *Memo) Credits(ctx context.Context, movieID int) Lookup[Credit] {
	return memoLookup(ctx, m, memoCredits, strconv.Itoa(movieID), func() Lookup[Credit] {
		if cp, ok := m.inner.(CreditsProvider); ok {
			return cp.Credits(ctx, movieID)
		}
		return joinCredits(m.inner.LookupDirector(ctx, movieID), m.inner.DirectorID(ctx, movieID))
	})
}

func (m *Memo) LookupDirector(ctx context.Context, movieID int) Lookup[string] {
	return directorName(m.Credits(ctx, movieID))
}

func (m *Memo) DirectorID(ctx context.Context, movieID int) Lookup[int] {
	return directorID(m.Credits(ctx, movieID))
}

func (m *Memo) PosterURL(ctx context.Context, title string) Lookup[string] {
	return memoLookup(ctx, m, memoPoster, title, func() Lookup[string] {
		return m.inner.PosterURL(ctx, title)
	})
}

func (m *Memo) SimilarItems(ctx context.Context, movieID, limit int) Batch {
	b := m.memoBatch(ctx, memoSimilar, strconv.Itoa(movieID), func() Batch {
		b := m.inner.SimilarItems(ctx, movieID, max(limit, memoFetchSize))
		m.resolveDirectors(ctx, b.Movies)
		return b
	})
	return capBatch(b, limit)
}

func (m *Memo) ItemsByDirector(ctx context.Context, directorID, excludeID, limit int) Batch {
	b := m.memoBatch(ctx, memoByDirector, strconv.Itoa(directorID), func() Batch {
		return m.inner.ItemsByDirector(ctx, directorID, 0, max(limit+1, memoFetchSize))
	})
	if b.Status != StatusOK || excludeID == 0 {
		return capBatch(b, limit)
	}
	kept := make([]model.Movie, 0, len(b.Movies))
	for _, mv := range b.Movies {
		if mv.ExternalID != excludeID {
			kept = append(kept, mv)
		}
	}
	return capBatch(OK(kept), limit)
}

// resolveDirectors fills in unknown directors in place.
func (m *Memo) resolveDirectors(ctx context.Context, movies []model.Movie) {
	for i, mv := range movies {
		if !mv.FromProvider() || (mv.Director != "" && mv.Director != UnknownDirector) {
			continue
		}
		if l := m.LookupDirector(ctx, mv.ExternalID); l.Found() {
			movies[i].Director = l.Value
		}
	}
}

// joinCredits combines separate director lookups. Either failing fails the
// pair so it is not memoized.
func joinCredits(name Lookup[string], id Lookup[int]) Lookup[Credit] {
	switch {
	case name.Status == StatusFailed:
		return failed[Credit](name.Err)
	case id.Status == StatusFailed:
		return failed[Credit](id.Err)
	case !name.Found() && !id.Found():
		return absent[Credit]()
	}
	return found(Credit{Name: name.Value, ID: id.Value})
}

func capBatch(b Batch, limit int) Batch {
	if limit > 0 && len(b.Movies) > limit {
		b.Movies = b.Movies[:limit]
	}
	return b
}
