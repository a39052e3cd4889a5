package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rcliao/vibe-recommender/internal/analyzer"
	"github.com/rcliao/vibe-recommender/internal/catalog"
	"github.com/rcliao/vibe-recommender/internal/logging"
	"github.com/rcliao/vibe-recommender/internal/model"
	"github.com/rcliao/vibe-recommender/internal/preference"
	"github.com/rcliao/vibe-recommender/internal/recommend"
	"github.com/rcliao/vibe-recommender/internal/session"
)

const (
	msgNoContent = "추천할 콘텐츠가 없습니다"
	msgNoNew     = "새로운 추천을 가져올 수 없습니다. 잠시 후 다시 시도해주세요."
	msgNoProfile = "감정 프로필이 없습니다. 먼저 감정을 입력해주세요."
	msgNoLiked   = "아직 좋아한 영화가 없습니다."
	msgNoForYou  = "추천할 영화를 찾지 못했습니다. 더 많은 영화를 좋아요 표시해보세요!"
	msgLiked     = "👍 마음에 들어요로 표시되었습니다!"
	msgDisliked  = "👎 별로예요로 표시되었습니다."

	historyLimit = 10
	maxLineSize  = 1 << 20
)

var errNoProfile = errors.New(msgNoProfile)

func init() {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Run an interactive JSON-lines session on stdin/stdout",
		Long: `Reads one JSON request per line and writes one JSON response per line.

Ops: analyze, recommend, refresh, like, unlike, dislike, liked, for_you,
related, stats, history.

  {"op":"analyze","emoji":"😴","happiness":4,"energy":3,"situation":"퇴근길 지하철"}
  {"op":"recommend","n":5}
  {"op":"like","movie_id":"movie_004"}`,
		Run: runSession,
	}

	RootCmd.AddCommand(cmd)
}

func runSession(cmd *cobra.Command, args []string) {
	a, err := openApp()
	if err != nil {
		exitErr("open", err)
	}
	defer a.store.Close()

	if err := a.serve(cmd.Context(), os.Stdin, os.Stdout); err != nil {
		exitErr("session", err)
	}
}

// request is one line of session input. Fields not used by an op are ignored.
type request struct {
	Op        string `json:"op"`
	Text      string `json:"text"`
	Emoji     string `json:"emoji"`
	Happiness *int   `json:"happiness"`
	Energy    *int   `json:"energy"`
	Situation string `json:"situation"`
	N         int    `json:"n"`
	MovieID   string `json:"movie_id"`
	Limit     int    `json:"limit"`
}

func (r request) hasMood() bool {
	return r.Text != "" || r.Emoji != "" || r.Situation != "" || r.Happiness != nil || r.Energy != nil
}

func (r request) input() analyzer.Input {
	in := analyzer.Input{
		Text:      r.Text,
		Emoji:     r.Emoji,
		Happiness: model.DefaultLevel,
		Energy:    model.DefaultLevel,
		Situation: r.Situation,
	}
	if r.Happiness != nil {
		in.Happiness = *r.Happiness
	}
	if r.Energy != nil {
		in.Energy = *r.Energy
	}
	return in
}

type response struct {
	OK      bool                    `json:"ok"`
	Error   string                  `json:"error,omitempty"`
	Message string                  `json:"message,omitempty"`
	Profile *model.EmotionProfile   `json:"emotion_profile,omitempty"`
	Items   interface{}             `json:"items,omitempty"`
	Source  string                  `json:"source,omitempty"`
	Kind    preference.Kind         `json:"kind,omitempty"`
	Movie   *model.Movie            `json:"movie,omitempty"`
	Changed *bool                   `json:"changed,omitempty"`
	Related *recommend.Related      `json:"related,omitempty"`
	Stats   *session.FeedbackStats  `json:"stats,omitempty"`
	Genres  []preference.GenreCount `json:"genres,omitempty"`
}

// serve answers requests until in is exhausted. A bad line gets an error
// response; only I/O failures end the session.
func (a *app) serve(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx = logging.ContextWithSessionID(ctx, a.store.ID())
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	enc := json.NewEncoder(out)

	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var req request
		var resp response
		if err := json.Unmarshal(line, &req); err != nil {
			resp = response{Error: fmt.Sprintf("decode request: %v", err)}
		} else {
			resp = a.handle(logging.ContextWithNewCorrelationID(ctx), req)
		}
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
	return sc.Err()
}

func (a *app) handle(ctx context.Context, req request) response {
	var (
		resp response
		err  error
	)
	switch req.Op {
	case "analyze":
		resp, err = a.analyze(ctx, req)
	case "recommend":
		resp, err = a.recommend(ctx, req)
	case "refresh":
		resp, err = a.refresh(ctx, req)
	case "like":
		resp, err = a.like(ctx, req)
	case "unlike":
		resp, err = a.unlike(ctx, req)
	case "dislike":
		resp, err = a.dislike(ctx, req)
	case "liked":
		resp, err = a.liked(ctx)
	case "for_you":
		resp, err = a.forYou(ctx, req)
	case "related":
		resp, err = a.related(ctx, req)
	case "stats":
		resp, err = a.stats(ctx)
	case "history":
		resp, err = a.history(ctx)
	default:
		err = fmt.Errorf("unknown op %q", req.Op)
	}
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("op", req.Op).Msg("session op failed")
		return response{Error: err.Error()}
	}
	resp.OK = true
	return resp
}

func (a *app) count(n int) int {
	if n > 0 {
		return n
	}
	return a.cfg.Recommend.Count
}

// analyzeInto runs the analyzer, records the profile in history and makes
// it the current one.
func (a *app) analyzeInto(ctx context.Context, req request) (model.EmotionProfile, error) {
	in := req.input()
	if err := in.Validate(); err != nil {
		return model.EmotionProfile{}, err
	}
	noteUnknown(ctx, in)
	profile := analyzer.Analyze(in)
	if _, err := a.store.AppendHistory(ctx, in.Situation, profile); err != nil {
		return model.EmotionProfile{}, err
	}
	if err := a.store.SetCurrent(ctx, profile, nil); err != nil {
		return model.EmotionProfile{}, err
	}
	return profile, nil
}

func (a *app) analyze(ctx context.Context, req request) (response, error) {
	profile, err := a.analyzeInto(ctx, req)
	if err != nil {
		return response{}, err
	}
	return response{Profile: &profile}, nil
}

// recommend analyzes the mood in the request when there is one, otherwise
// it recommends for the current profile.
func (a *app) recommend(ctx context.Context, req request) (response, error) {
	var profile model.EmotionProfile
	if req.hasMood() {
		p, err := a.analyzeInto(ctx, req)
		if err != nil {
			return response{}, err
		}
		profile = p
	} else {
		cur, ok, err := a.store.Current(ctx)
		if err != nil {
			return response{}, err
		}
		if !ok {
			return response{}, errNoProfile
		}
		profile = cur.Profile
	}

	res := a.recommender.Recommend(ctx, profile, a.count(req.N), nil)
	if err := a.show(ctx, profile, res.Items); err != nil {
		return response{}, err
	}
	resp := scoredResponse(res.Items, msgNoContent)
	resp.Profile = &profile
	resp.Source = res.Source
	return resp, nil
}

func (a *app) refresh(ctx context.Context, req request) (response, error) {
	cur, ok, err := a.store.Current(ctx)
	if err != nil {
		return response{}, err
	}
	if !ok {
		return response{}, errNoProfile
	}

	res, changed := a.recommender.Refresh(ctx, cur.Profile, cur.Items, a.count(req.N))
	if !changed {
		resp := scoredResponse(cur.Items, msgNoContent)
		resp.Message = msgNoNew
		resp.Profile = &cur.Profile
		resp.Changed = &changed
		return resp, nil
	}
	if err := a.show(ctx, cur.Profile, res.Items); err != nil {
		return response{}, err
	}
	resp := scoredResponse(res.Items, msgNoContent)
	resp.Profile = &cur.Profile
	resp.Source = res.Source
	resp.Changed = &changed
	return resp, nil
}

// show makes items the current list and remembers them for later ops.
func (a *app) show(ctx context.Context, profile model.EmotionProfile, items []model.ScoredMovie) error {
	if err := a.store.SetCurrent(ctx, profile, items); err != nil {
		return err
	}
	return a.store.Remember(ctx, movies(items)...)
}

// movie resolves an id from the movies shown in this session, then the
// built-in catalog.
func (a *app) movie(ctx context.Context, id string) (model.Movie, error) {
	if id == "" {
		return model.Movie{}, errors.New("movie_id is required")
	}
	m, ok, err := a.store.Shown(ctx, id)
	if err != nil {
		return model.Movie{}, err
	}
	if ok {
		return m, nil
	}
	if m, ok := catalog.ByID(id); ok {
		return m, nil
	}
	return model.Movie{}, fmt.Errorf("unknown movie %q", id)
}

func (a *app) like(ctx context.Context, req request) (response, error) {
	m, err := a.movie(ctx, req.MovieID)
	if err != nil {
		return response{}, err
	}
	added, err := a.store.Like(ctx, m)
	if err != nil {
		return response{}, err
	}
	return response{Movie: &m, Changed: &added, Message: msgLiked}, nil
}

func (a *app) unlike(ctx context.Context, req request) (response, error) {
	if req.MovieID == "" {
		return response{}, errors.New("movie_id is required")
	}
	removed, err := a.store.Unlike(ctx, req.MovieID)
	if err != nil {
		return response{}, err
	}
	return response{Changed: &removed}, nil
}

func (a *app) dislike(ctx context.Context, req request) (response, error) {
	m, err := a.movie(ctx, req.MovieID)
	if err != nil {
		return response{}, err
	}
	if err := a.store.SetFeedback(ctx, m.ID, model.FeedbackDislike); err != nil {
		return response{}, err
	}
	return response{Movie: &m, Message: msgDisliked}, nil
}

// liked lists liked movies, filling in posters that were missing when the
// movie was liked.
func (a *app) liked(ctx context.Context) (response, error) {
	liked, err := a.store.Liked(ctx)
	if err != nil {
		return response{}, err
	}
	for i, m := range liked {
		if m.ImageURL != model.PlaceholderImage || !m.FromProvider() {
			continue
		}
		if poster := a.provider.PosterURL(ctx, m.Title); poster.Found() {
			liked[i].ImageURL = poster.Value
		}
	}
	if len(liked) == 0 {
		return response{Items: []model.LikedMovie{}, Message: msgNoLiked}, nil
	}
	return response{Items: liked}, nil
}

func (a *app) forYou(ctx context.Context, req request) (response, error) {
	liked, err := a.store.Liked(ctx)
	if err != nil {
		return response{}, err
	}
	out := a.aggregator.FromLiked(ctx, liked, a.count(req.Limit))
	if err := a.store.Remember(ctx, movies(out.Items)...); err != nil {
		return response{}, err
	}
	resp := scoredResponse(out.Items, msgNoForYou)
	resp.Kind = out.Kind
	resp.Profile = out.Profile
	return resp, nil
}

func (a *app) related(ctx context.Context, req request) (response, error) {
	m, err := a.movie(ctx, req.MovieID)
	if err != nil {
		return response{}, err
	}
	rel := a.recommender.Related(ctx, m, req.Limit)
	if rel.SameDirector == nil {
		rel.SameDirector = []model.Movie{}
	}
	if rel.Similar == nil {
		rel.Similar = []model.Movie{}
	}
	if err := a.store.Remember(ctx, append(rel.SameDirector, rel.Similar...)...); err != nil {
		return response{}, err
	}
	return response{Movie: &m, Related: &rel}, nil
}

func (a *app) stats(ctx context.Context) (response, error) {
	st, err := a.store.FeedbackStats(ctx)
	if err != nil {
		return response{}, err
	}
	liked, err := a.store.Liked(ctx)
	if err != nil {
		return response{}, err
	}
	return response{Stats: &st, Genres: preference.GenreTally(liked)}, nil
}

func (a *app) history(ctx context.Context) (response, error) {
	h, err := a.store.History(ctx, historyLimit)
	if err != nil {
		return response{}, err
	}
	if h == nil {
		h = []model.HistoryEntry{}
	}
	return response{Items: h}, nil
}

func scoredResponse(items []model.ScoredMovie, empty string) response {
	if len(items) == 0 {
		return response{Items: []model.ScoredMovie{}, Message: empty}
	}
	return response{Items: items}
}

func movies(items []model.ScoredMovie) []model.Movie {
	out := make([]model.Movie, len(items))
	for i, it := range items {
		out[i] = it.Movie
	}
	return out
}
