package scoring

import (
	"math"
	"strings"
	"testing"

	"github.com/rcliao/vibe-recommender/internal/model"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScorePerfectMatch(t *testing.T) {
	item := model.Movie{MoodTags: []string{"위로", "감성"}, Energy: 3, Valence: 4}
	got := Score(item, Target{Happiness: 4, Energy: 3, Tags: []string{"위로", "감성"}})
	if !approx(got, 1.0) {
		t.Errorf("expected 1.0, got %v", got)
	}
}

func TestScoreComponents(t *testing.T) {
	item := model.Movie{MoodTags: []string{"위로", "에너지"}, Energy: 8, Valence: 2}
	target := Target{Happiness: 7, Energy: 3, Tags: []string{"위로", "감성", "잔잔함", "휴식"}}
	// tag 1/4, energy 1-5/10, valence 1-5/10
	want := 0.4*0.25 + 0.3*0.5 + 0.3*0.5
	if got := Score(item, target); !approx(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTagScoreAsymmetric(t *testing.T) {
	// Denominator counts target tags only.
	if got := TagScore([]string{"a", "b", "c", "d"}, []string{"a"}); !approx(got, 1) {
		t.Errorf("expected 1, got %v", got)
	}
	if got := TagScore([]string{"a"}, []string{"a", "b", "c", "d"}); !approx(got, 0.25) {
		t.Errorf("expected 0.25, got %v", got)
	}
}

func TestTagScoreEmpty(t *testing.T) {
	if got := TagScore(nil, []string{"a"}); got != 0 {
		t.Errorf("expected 0 for missing item tags, got %v", got)
	}
	if got := TagScore([]string{"a"}, nil); got != 0 {
		t.Errorf("expected 0 for empty target, got %v", got)
	}
}

func TestValenceMatchesHappiness(t *testing.T) {
	item := model.Movie{Energy: 5, Valence: 9}
	happy := Score(item, Target{Happiness: 9, Energy: 5})
	sad := Score(item, Target{Happiness: 1, Energy: 5})
	if happy <= sad {
		t.Errorf("expected valence to track happiness: happy=%v sad=%v", happy, sad)
	}
}

func TestScoreBounded(t *testing.T) {
	tagSets := [][]string{nil, {"위로"}, {"위로", "감성", "밝음"}, {"x", "y"}}
	for ie := 0; ie <= 10; ie++ {
		for iv := 0; iv <= 10; iv++ {
			for te := 0; te <= 10; te++ {
				for th := 0; th <= 10; th += 5 {
					for _, it := range tagSets {
						for _, tt := range tagSets {
							s := Score(model.Movie{MoodTags: it, Energy: ie, Valence: iv}, Target{Happiness: th, Energy: te, Tags: tt})
							if s < 0 || s > 1 {
								t.Fatalf("score %v out of range", s)
							}
						}
					}
				}
			}
		}
	}
}

func TestMoreOverlapNeverScoresLower(t *testing.T) {
	target := Target{Happiness: 5, Energy: 5, Tags: []string{"위로", "감성", "잔잔함"}}
	less := model.Movie{MoodTags: []string{"위로", "밝음"}, Energy: 6, Valence: 4}
	more := model.Movie{MoodTags: []string{"위로", "감성"}, Energy: 6, Valence: 4}
	if Score(more, target) < Score(less, target) {
		t.Errorf("more overlap scored lower")
	}
}

func TestRankKeepsOrder(t *testing.T) {
	items := []model.Movie{{ID: "a", Energy: 1}, {ID: "b", Energy: 9}}
	got := Rank(items, model.EmotionProfile{Energy: 9})
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("expected input order, got %+v", got)
	}
	if got[1].Score <= got[0].Score {
		t.Errorf("expected b to outscore a")
	}
	if got[0].Reason == "" {
		t.Error("expected a reason")
	}
}

func TestReason(t *testing.T) {
	item := model.Movie{Genre: "드라마", MoodTags: []string{"위로", "감성"}, Energy: 2, Valence: 3}
	p := model.EmotionProfile{Happiness: 2, Energy: 2, Tags: []string{"위로"}}
	r := Reason(item, p)
	if !strings.HasPrefix(r, "이 영화를 추천한 이유: ") {
		t.Errorf("unexpected prefix: %q", r)
	}
	if !strings.Contains(r, "감정 태그(위로)") {
		t.Errorf("expected tag reason, got %q", r)
	}
	if !strings.Contains(r, "잔잔한 분위기") {
		t.Errorf("expected energy reason, got %q", r)
	}
	if strings.Contains(r, "장르") {
		t.Errorf("expected at most two reasons, got %q", r)
	}
}

func TestReasonDefault(t *testing.T) {
	r := Reason(model.Movie{Energy: 10, Valence: 5}, model.EmotionProfile{Energy: 0, Happiness: 0})
	if !strings.Contains(r, "현재 감정 상태와 잘 맞는") {
		t.Errorf("expected default reason, got %q", r)
	}
}
