// Package lexicon holds the static emotion tables: emoji and situation biases and
// the keyword table used to scan free text.
package lexicon

import "strings"

// NeutralLabel is the emoji label used when the emoji is not recognized.
const NeutralLabel = "중립"

// EmojiBias is the emotion attached to one emoji choice.
type EmojiBias struct {
	Emoji         string   `json:"emoji"`
	Label         string   `json:"label"`
	HappinessBias int      `json:"happiness_bias"`
	EnergyBias    int      `json:"energy_bias"`
	Tags          []string `json:"tags"`
}

// SituationBias is the adjustment attached to one situational context.
type SituationBias struct {
	Situation     string   `json:"situation"`
	HappinessBias int      `json:"happiness_bias"`
	EnergyBias    int      `json:"energy_bias"`
	Tags          []string `json:"tags"`
}

type keyword struct {
	substr string
	tags   []string
}

var emojis = []EmojiBias{
	{"😂", "행복", 2, 1, []string{"즐거움", "웃음", "밝음"}},
	{"😢", "슬픔", -3, -2, []string{"위로", "감성", "잔잔함"}},
	{"😡", "분노", -2, 2, []string{"강렬함", "에너지", "해소"}},
	{"😴", "피곤", -1, -3, []string{"편안함", "잔잔함", "휴식"}},
	{"😱", "불안", -2, 1, []string{"긴장", "집중", "안정"}},
	{"😌", "평온", 1, 0, []string{"평온", "편안함", "잔잔함"}},
	{"😍", "사랑", 3, 1, []string{"로맨틱", "따뜻함", "감성"}},
	{"🤔", "고민", -1, -1, []string{"사색", "잔잔함", "위로"}},
	{"😎", "자신감", 2, 2, []string{"에너지", "자신감", "밝음"}},
	{"🥺", "애잔함", -1, -1, []string{"감성", "위로", "잔잔함"}},
}

var situations = []SituationBias{
	{"퇴근길 지하철", -1, -2, []string{"위로", "편안함", "하루의 마무리"}},
	{"잠들기 전", 0, -3, []string{"편안함", "잔잔함", "휴식"}},
	{"비 오는 날", -1, -1, []string{"감성", "사색", "잔잔함"}},
	{"주말 아침 카페", 2, 1, []string{"편안함", "밝음", "여유"}},
	{"업무 중 집중 모드", 0, 1, []string{"집중", "에너지", "동기부여"}},
	{"운동 중", 1, 3, []string{"에너지", "강렬함", "동기부여"}},
	{"데이트", 3, 1, []string{"로맨틱", "따뜻함", "행복"}},
	{"여행 중", 3, 2, []string{"밝음", "에너지", "즐거움"}},
}

// Scanned in this order; every hit contributes its tags.
var keywords = []keyword{
	{"슬프", []string{"슬픔", "위로", "감성"}},
	{"행복", []string{"행복", "밝음", "즐거움"}},
	{"피곤", []string{"피곤", "편안함", "휴식"}},
	{"화나", []string{"분노", "에너지", "해소"}},
	{"불안", []string{"불안", "긴장", "안정"}},
	{"평온", []string{"평온", "편안함", "잔잔함"}},
	{"사랑", []string{"로맨틱", "따뜻함", "행복"}},
	{"고민", []string{"사색", "위로", "잔잔함"}},
	{"자신감", []string{"자신감", "에너지", "밝음"}},
	{"위로", []string{"위로", "감성", "잔잔함"}},
	{"에너지", []string{"에너지", "강렬함", "동기부여"}},
	{"집중", []string{"집중", "에너지", "동기부여"}},
	{"밤", []string{"밤감성", "사색", "잔잔함"}},
	{"비", []string{"감성", "사색", "잔잔함"}},
}

var (
	emojiIndex     = map[string]int{}
	situationIndex = map[string]int{}
)

func init() {
	for i, e := range emojis {
		emojiIndex[e.Emoji] = i
	}
	for i, s := range situations {
		situationIndex[s.Situation] = i
	}
}

// Emoji returns the bias for an emoji. Unknown emojis get the neutral entry.
func Emoji(e string) EmojiBias {
	i, ok := emojiIndex[e]
	if !ok {
		return EmojiBias{Emoji: e, Label: NeutralLabel}
	}
	return clone(emojis[i])
}

// Situation returns the bias for a situation. Unknown situations get zero biases.
func Situation(s string) SituationBias {
	i, ok := situationIndex[s]
	if !ok {
		return SituationBias{Situation: s}
	}
	sb := situations[i]
	sb.Tags = append([]string(nil), sb.Tags...)
	return sb
}

// IsEmoji reports whether e is one of the enumerated emojis.
func IsEmoji(e string) bool {
	_, ok := emojiIndex[e]
	return ok
}

// IsSituation reports whether s is one of the enumerated situations.
func IsSituation(s string) bool {
	_, ok := situationIndex[s]
	return ok
}

// Emojis lists the enumerated emojis in display order.
func Emojis() []EmojiBias {
	out := make([]EmojiBias, len(emojis))
	for i, e := range emojis {
		out[i] = clone(e)
	}
	return out
}

// Situations lists the enumerated situations in display order.
func Situations() []SituationBias {
	out := make([]SituationBias, len(situations))
	for i, s := range situations {
		s.Tags = append([]string(nil), s.Tags...)
		out[i] = s
	}
	return out
}

// KeywordTags scans text for keyword substrings and returns the tags of every hit,
// duplicates included. Matching is case-insensitive containment, not tokenized.
func KeywordTags(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	var tags []string
	for _, k := range keywords {
		if strings.Contains(lower, k.substr) {
			tags = append(tags, k.tags...)
		}
	}
	return tags
}

func clone(e EmojiBias) EmojiBias {
	e.Tags = append([]string(nil), e.Tags...)
	return e
}
