package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/rcliao/vibe-recommender/internal/config"
	"github.com/rcliao/vibe-recommender/internal/logging"
	"github.com/rcliao/vibe-recommender/internal/model"
)

var errNoAPIKey = errors.New("tmdb: no api key configured")

// TMDB is a Provider backed by the TMDB v3 API.
//
// Discover and similar results carry UnknownDirector; wrap the client in a
// Memo to resolve directors through the memoized lookup.
type TMDB struct {
	apiKey          string
	baseURL         string
	imageBase       string
	language        string
	discoverTimeout time.Duration
	lookupTimeout   time.Duration

	client  *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]byte]
}

var (
	_ Provider        = (*TMDB)(nil)
	_ CreditsProvider = (*TMDB)(nil)
)

// NewTMDB creates a client from configuration. With an empty API key every
// call returns an empty result without touching the network.
func NewTMDB(cfg config.TMDBConfig) *TMDB {
	t := &TMDB{
		apiKey:          cfg.APIKey,
		baseURL:         strings.TrimSuffix(cfg.BaseURL, "/"),
		imageBase:       cfg.ImageBaseURL,
		language:        cfg.Language,
		discoverTimeout: cfg.DiscoverTimeout,
		lookupTimeout:   cfg.LookupTimeout,
		client:          &http.Client{},
		limiter:         rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
	}

	failures := cfg.BreakerFailures
	breakerLog := logging.WithComponent("tmdb")
	t.cb = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "tmdb",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			breakerLog.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
	return t
}

// Enabled reports whether an API key is configured.
func (t *TMDB) Enabled() bool { return t.apiKey != "" }

// get performs one GET against the API and decodes the JSON body into out.
func (t *TMDB) get(ctx context.Context, path string, params url.Values, timeout time.Duration, out interface{}) error {
	if t.apiKey == "" {
		return errNoAPIKey
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", t.apiKey)
	params.Set("language", t.language)
	u := t.baseURL + path + "?" + params.Encode()

	body, err := t.cb.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		resp, err := t.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("tmdb request failed: %w", err)
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("tmdb error %d: %s", resp.StatusCode, truncate(string(b), 200))
		}
		return b, nil
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// fail logs a degraded call. A missing API key is not a failure.
func (t *TMDB) fail(ctx context.Context, path string, err error) Status {
	if errors.Is(err, errNoAPIKey) {
		return StatusEmpty
	}
	logging.Ctx(ctx).Warn().Err(err).Str("endpoint", path).Msg("tmdb call failed")
	return StatusFailed
}

type resultsResponse struct {
	Results []tmdbMovie `json:"results"`
}

type creditsResponse struct {
	Crew []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Job  string `json:"job"`
	} `json:"crew"`
}

type personCreditsResponse struct {
	Crew []tmdbMovie `json:"crew"`
}

type personResponse struct {
	Name string `json:"name"`
}

func (t *TMDB) Discover(ctx context.Context, q DiscoverQuery) Batch {
	params := url.Values{}
	params.Set("sort_by", q.SortBy)
	params.Set("with_genres", joinInts(q.Genres))
	params.Set("vote_count.gte", strconv.Itoa(q.MinVotes))
	params.Set("page", strconv.Itoa(max(q.Page, 1)))

	var resp resultsResponse
	if err := t.get(ctx, "/discover/movie", params, t.discoverTimeout, &resp); err != nil {
		if t.fail(ctx, "/discover/movie", err) == StatusEmpty {
			return Batch{Status: StatusEmpty}
		}
		return Failed(err)
	}

	var movies []model.Movie
	for _, m := range resp.Results {
		if q.Limit > 0 && len(movies) >= q.Limit {
			break
		}
		movies = append(movies, t.fromDiscover(m, q.Tags))
	}
	return OK(movies)
}

// Credits returns the first crew member whose job is Director.
func (t *TMDB) Credits(ctx context.Context, movieID int) Lookup[Credit] {
	path := fmt.Sprintf("/movie/%d/credits", movieID)
	var resp creditsResponse
	if err := t.get(ctx, path, nil, t.lookupTimeout, &resp); err != nil {
		if t.fail(ctx, path, err) == StatusFailed {
			return failed[Credit](err)
		}
		return absent[Credit]()
	}
	for _, c := range resp.Crew {
		if c.Job == "Director" {
			return found(Credit{Name: c.Name, ID: c.ID})
		}
	}
	return absent[Credit]()
}

func (t *TMDB) LookupDirector(ctx context.Context, movieID int) Lookup[string] {
	return directorName(t.Credits(ctx, movieID))
}

func (t *TMDB) DirectorID(ctx context.Context, movieID int) Lookup[int] {
	return directorID(t.Credits(ctx, movieID))
}

func (t *TMDB) SimilarItems(ctx context.Context, movieID, limit int) Batch {
	path := fmt.Sprintf("/movie/%d/similar", movieID)
	params := url.Values{}
	params.Set("page", "1")

	var resp resultsResponse
	if err := t.get(ctx, path, params, t.lookupTimeout, &resp); err != nil {
		if t.fail(ctx, path, err) == StatusEmpty {
			return Batch{Status: StatusEmpty}
		}
		return Failed(err)
	}

	var movies []model.Movie
	for _, m := range resp.Results {
		if limit > 0 && len(movies) >= limit {
			break
		}
		movies = append(movies, t.fromLookup(m, ""))
	}
	return OK(movies)
}

func (t *TMDB) ItemsByDirector(ctx context.Context, directorID, excludeID, limit int) Batch {
	path := fmt.Sprintf("/person/%d/movie_credits", directorID)
	var resp personCreditsResponse
	if err := t.get(ctx, path, nil, t.lookupTimeout, &resp); err != nil {
		if t.fail(ctx, path, err) == StatusEmpty {
			return Batch{Status: StatusEmpty}
		}
		return Failed(err)
	}

	var directed []tmdbMovie
	for _, m := range resp.Crew {
		if m.Job == "Director" {
			directed = append(directed, m)
		}
	}
	if len(directed) == 0 {
		return Batch{Status: StatusEmpty}
	}

	director := UnknownDirector
	personPath := fmt.Sprintf("/person/%d", directorID)
	var person personResponse
	if err := t.get(ctx, personPath, nil, t.lookupTimeout, &person); err != nil {
		t.fail(ctx, personPath, err)
	} else if person.Name != "" {
		director = person.Name
	}

	var movies []model.Movie
	for _, m := range directed {
		if limit > 0 && len(movies) >= limit {
			break
		}
		if excludeID != 0 && m.ID == excludeID {
			continue
		}
		movies = append(movies, t.fromLookup(m, director))
	}
	return OK(movies)
}

func (t *TMDB) PosterURL(ctx context.Context, title string) Lookup[string] {
	params := url.Values{}
	params.Set("query", title)
	params.Set("page", "1")

	var resp resultsResponse
	if err := t.get(ctx, "/search/movie", params, t.lookupTimeout, &resp); err != nil {
		if t.fail(ctx, "/search/movie", err) == StatusEmpty {
			return absent[string]()
		}
		return failed[string](err)
	}
	if len(resp.Results) == 0 || resp.Results[0].PosterPath == "" {
		return absent[string]()
	}
	return found(t.imageURL(resp.Results[0].PosterPath))
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
