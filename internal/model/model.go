// Package model defines the domain types used across the application.
package model

import "time"

// Market is one listing from the upstream feed. It is never mutated locally.
type Market struct {
	ID            string
	Question      string
	Group         string
	Tags          []string
	Slug          string
	Link          string
	Description   string
	Volume        float64
	Liquidity     float64
	OutcomePrices []float64
	CreatedAt     *time.Time
	EndDate       *time.Time
}

// DisplayText returns the text shown to subscribers for the market.
func (m Market) DisplayText() string {
	if m.Question != "" {
		return m.Question
	}
	if m.Group != "" {
		return m.Group
	}
	return "Unknown Market"
}

// Topic is one label of the fixed alert taxonomy.
type Topic int

// Supported topics. Other is the catch-all fallback.
const (
	TopicPolitics Topic = iota
	TopicCrypto
	TopicSports
	TopicBusiness
	TopicScience
	TopicPopCulture
	TopicNews
	TopicOther

	NumTopics = int(TopicOther) + 1
)

var topicInfo = [NumTopics]struct {
	label string
	key   string
	icon  string
}{
	TopicPolitics:   {"Politics", "politics", "🏛️"},
	TopicCrypto:     {"Crypto", "crypto", "₿"},
	TopicSports:     {"Sports", "sports", "⚽"},
	TopicBusiness:   {"Business", "business", "💹"},
	TopicScience:    {"Science", "science", "🔬"},
	TopicPopCulture: {"Pop Culture", "pop_culture", "🎬"},
	TopicNews:       {"News", "news", "📰"},
	TopicOther:      {"Other", "other", "📊"},
}

// AllTopics lists every topic in display order.
func AllTopics() []Topic {
	out := make([]Topic, NumTopics)
	for i := range out {
		out[i] = Topic(i)
	}
	return out
}

// Valid reports whether t belongs to the enumeration.
func (t Topic) Valid() bool {
	return t >= 0 && int(t) < NumTopics
}

// String returns the human-readable label.
func (t Topic) String() string {
	if !t.Valid() {
		return "Unknown"
	}
	return topicInfo[t].label
}

// Key returns the stable machine identifier used in callbacks and storage.
func (t Topic) Key() string {
	if !t.Valid() {
		return ""
	}
	return topicInfo[t].key
}

// Icon returns the emoji shown next to alerts of this topic.
func (t Topic) Icon() string {
	if !t.Valid() {
		return topicInfo[TopicOther].icon
	}
	return topicInfo[t].icon
}

// ParseTopic resolves a topic from its Key.
func ParseTopic(key string) (Topic, bool) {
	for i, info := range topicInfo {
		if info.key == key {
			return Topic(i), true
		}
	}
	return 0, false
}

// Preferences holds a subscriber's per-topic opt-in flags.
type Preferences struct {
	ChatID  int64
	Enabled [NumTopics]bool
}

// DefaultPreferences returns a record with every topic enabled.
func DefaultPreferences(chatID int64) Preferences {
	p := Preferences{ChatID: chatID}
	for i := range p.Enabled {
		p.Enabled[i] = true
	}
	return p
}

// IsEnabled reports whether alerts of topic t should be delivered.
func (p Preferences) IsEnabled(t Topic) bool {
	if !t.Valid() {
		return false
	}
	return p.Enabled[t]
}
