// Package analyzer turns the raw mood inputs (free text, emoji, two sliders and a
// situation) into a normalized emotion profile.
package analyzer

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rcliao/vibe-recommender/internal/lexicon"
	"github.com/rcliao/vibe-recommender/internal/model"
)

const (
	MinLevel = 0
	MaxLevel = 10

	// summaryTagLimit caps the hashtags appended to a summary.
	summaryTagLimit = 5
)

// Tier labels derived from final happiness.
const (
	TierHappy     = "행복"
	TierCalm      = "평온"
	TierTired     = "지침"
	TierDepressed = "우울"
)

// Energy modifiers appended to the tier label.
const (
	ModifierHighEnergy = " + 높은 에너지"
	ModifierLowEnergy  = " + 낮은 에너지"
)

// Input holds the five raw signals of one analysis.
type Input struct {
	Text      string `json:"text" validate:"max=500"`
	Emoji     string `json:"emoji"`
	Happiness int    `json:"happiness" validate:"min=0,max=10"`
	Energy    int    `json:"energy" validate:"min=0,max=10"`
	Situation string `json:"situation"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks slider ranges and text length. Analyze does not require it;
// it is the check callers run at their input boundary.
func (in Input) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	return nil
}

// Analyze combines the inputs into one profile. It is a pure function of its
// input and the lexicon tables; unknown emoji or situation values fall back to
// neutral defaults. A non-neutral emoji label is also added as a tag, so it
// takes part in genre mapping (😂's "행복" selects romance).
func Analyze(in Input) model.EmotionProfile {
	emo := lexicon.Emoji(in.Emoji)
	sit := lexicon.Situation(in.Situation)

	happiness := Clamp(in.Happiness + emo.HappinessBias + sit.HappinessBias)
	energy := Clamp(in.Energy + emo.EnergyBias + sit.EnergyBias)

	var emoTags []string
	emoTags = append(emoTags, emo.Tags...)
	if emo.Label != lexicon.NeutralLabel {
		emoTags = append(emoTags, emo.Label)
	}
	tags := union(emoTags, sit.Tags, lexicon.KeywordTags(in.Text))

	return model.EmotionProfile{
		Label:     Label(emo.Label, happiness, energy),
		Happiness: happiness,
		Energy:    energy,
		Tags:      tags,
		Summary:   Summary(in.Situation, happiness, energy, tags),
	}
}

// Clamp bounds v to [MinLevel, MaxLevel].
func Clamp(v int) int {
	return max(MinLevel, min(MaxLevel, v))
}

// Label builds the composite label, e.g. "피곤 (지침 + 낮은 에너지)".
func Label(emojiLabel string, happiness, energy int) string {
	var tier string
	switch {
	case happiness >= 7:
		tier = TierHappy
	case happiness >= 4:
		tier = TierCalm
	case happiness >= 2:
		tier = TierTired
	default:
		tier = TierDepressed
	}

	var modifier string
	switch {
	case energy >= 7:
		modifier = ModifierHighEnergy
	case energy <= 3:
		modifier = ModifierLowEnergy
	}

	if emojiLabel == "" || emojiLabel == lexicon.NeutralLabel {
		return tier + modifier
	}
	return fmt.Sprintf("%s (%s%s)", emojiLabel, tier, modifier)
}

// Summary renders the natural-language description of a profile.
func Summary(situation string, happiness, energy int, tags []string) string {
	var mood string
	switch {
	case happiness >= 7 && energy >= 7:
		mood = "매우 밝고 활기찬 기분"
	case happiness >= 7:
		mood = "밝고 평온한 기분"
	case happiness <= 3 && energy <= 3:
		mood = "지치고 우울한 기분"
	case energy >= 7:
		mood = "에너지가 넘치는 기분"
	default:
		mood = "차분하고 잔잔한 기분"
	}

	shown := tags
	if len(shown) > summaryTagLimit {
		shown = shown[:summaryTagLimit]
	}
	hashtags := make([]string, len(shown))
	for i, t := range shown {
		hashtags[i] = "#" + t
	}

	return strings.TrimSpace(fmt.Sprintf("%s에 있는 당신은 %s입니다. %s", situation, mood, strings.Join(hashtags, " ")))
}

// union merges tag lists, dropping duplicates and keeping first-seen order.
func union(lists ...[]string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, list := range lists {
		for _, t := range list {
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
