package model

import "time"

// EmotionProfile is the normalized result of one emotion analysis.
type EmotionProfile struct {
	Label     string   `json:"label"`
	Happiness int      `json:"happiness"`
	Energy    int      `json:"energy"`
	Tags      []string `json:"tags"`
	Summary   string   `json:"summary,omitempty"`
}

// HasAnyTag reports whether the profile carries at least one of the given tags.
func (p EmotionProfile) HasAnyTag(tags ...string) bool {
	for _, have := range p.Tags {
		for _, want := range tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// HistoryEntry records one analysis within a session.
type HistoryEntry struct {
	ID        string         `json:"id"`
	Situation string         `json:"situation,omitempty"`
	Profile   EmotionProfile `json:"emotion_profile"`
	CreatedAt time.Time      `json:"created_at"`
}
