// Package scoring computes how well a movie matches an emotion profile.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/rcliao/vibe-recommender/internal/model"
)

// Component weights of the composite score.
const (
	TagWeight     = 0.4
	EnergyWeight  = 0.3
	ValenceWeight = 0.3
)

// Target is the part of a profile a movie is scored against.
type Target struct {
	Happiness int
	Energy    int
	Tags      []string
}

// TargetFrom extracts the scoring target from a profile.
func TargetFrom(p model.EmotionProfile) Target {
	return Target{Happiness: p.Happiness, Energy: p.Energy, Tags: p.Tags}
}

// Score returns 0.4*tag + 0.3*energy + 0.3*valence, each component in [0,1].
// Valence is matched against the target happiness; there is no separate valence target.
func Score(item model.Movie, t Target) float64 {
	return TagWeight*TagScore(item.MoodTags, t.Tags) +
		EnergyWeight*LevelMatch(item.Energy, t.Energy) +
		ValenceWeight*LevelMatch(item.Valence, t.Happiness)
}

// TagScore is |item ∩ target| / max(|target|, 1). The denominator only counts
// target tags, so the measure is not symmetric.
func TagScore(itemTags, targetTags []string) float64 {
	if len(itemTags) == 0 || len(targetTags) == 0 {
		return 0
	}
	target := toSet(targetTags)
	common := 0
	for t := range toSet(itemTags) {
		if target[t] {
			common++
		}
	}
	return float64(common) / float64(max(len(target), 1))
}

// LevelMatch is 1 - |a-b|/10, floored at 0.
func LevelMatch(a, b int) float64 {
	diff := math.Abs(float64(a - b))
	return math.Max(0, 1-diff/10)
}

// Rank scores every movie and returns them in the input order.
func Rank(items []model.Movie, p model.EmotionProfile) []model.ScoredMovie {
	t := TargetFrom(p)
	out := make([]model.ScoredMovie, 0, len(items))
	for _, m := range items {
		out = append(out, model.ScoredMovie{
			Movie:  m,
			Score:  Score(m, t),
			Reason: Reason(m, p),
		})
	}
	return out
}

// Reason explains in one sentence why a movie fits the profile.
// At most two reasons are used.
func Reason(item model.Movie, p model.EmotionProfile) string {
	var reasons []string

	if common := commonTags(item.MoodTags, p.Tags); len(common) > 0 {
		if len(common) > 3 {
			common = common[:3]
		}
		reasons = append(reasons, fmt.Sprintf("당신의 감정 태그(%s)와 잘 맞습니다", strings.Join(common, ", ")))
	}

	if abs(item.Energy-p.Energy) <= 2 {
		switch {
		case item.Energy >= 7:
			reasons = append(reasons, "높은 에너지로 활력을 불어넣어줍니다")
		case item.Energy <= 3:
			reasons = append(reasons, "잔잔한 분위기로 마음을 진정시켜줍니다")
		default:
			reasons = append(reasons, "적당한 에너지로 기분을 조절해줍니다")
		}
	}

	if abs(item.Valence-p.Happiness) <= 2 {
		switch {
		case item.Valence >= 7:
			reasons = append(reasons, "밝고 긍정적인 분위기로 기분을 좋게 만들어줍니다")
		case item.Valence <= 3:
			reasons = append(reasons, "감성적이고 위로가 되는 분위기입니다")
		}
	}

	if item.Genre != "" {
		reasons = append(reasons, fmt.Sprintf("%s 장르의 특색이 당신의 현재 기분과 잘 어울립니다", item.Genre))
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "당신의 현재 감정 상태와 잘 맞는 콘텐츠입니다")
	}
	if len(reasons) > 2 {
		reasons = reasons[:2]
	}
	return fmt.Sprintf("이 영화를 추천한 이유: %s.", strings.Join(reasons, " "))
}

// commonTags returns item tags also present in target, in item order.
func commonTags(itemTags, targetTags []string) []string {
	target := toSet(targetTags)
	seen := map[string]bool{}
	var out []string
	for _, t := range itemTags {
		if target[t] && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func toSet(tags []string) map[string]bool {
	s := make(map[string]bool, len(tags))
	for _, t := range tags {
		s[t] = true
	}
	return s
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
