// Package classify maps markets onto the fixed topic taxonomy.
package classify

import (
	"strings"

	"github.com/boomerok2001-cpu/boomerbot/internal/model"
)

// Rule associates a topic with the keywords that select it.
type Rule struct {
	Topic    model.Topic
	Keywords []string
}

// Rules are evaluated in order and the first rule with a keyword hit wins.
// Keyword sets overlap, so the order is significant.
var Rules = []Rule{
	{
		Topic: model.TopicCrypto,
		Keywords: []string{
			"bitcoin", "btc", "ethereum", "eth", "crypto", "solana", "blockchain",
			"dogecoin", "xrp", "stablecoin", "memecoin", "nft", "coinbase", "binance",
		},
	},
	{
		Topic: model.TopicPolitics,
		Keywords: []string{
			"election", "president", "congress", "senate", "trump", "biden", "vote",
			"political", "governor", "parliament", "prime minister", "democrat",
			"republican", "primary", "impeach", "cabinet", "mayor",
		},
	},
	{
		Topic: model.TopicSports,
		Keywords: []string{
			"nfl", "nba", "mlb", "nhl", "world cup", "super bowl", "finals",
			"championship", "premier league", "champions league", "ufc", "olympic",
			"grand slam", "tennis", "match",
		},
	},
	{
		Topic: model.TopicBusiness,
		Keywords: []string{
			"fed", "interest rate", "rate", "price", "stock", "gdp", "inflation",
			"earnings", "ipo", "recession", "tariff", "market cap", "s&p", "nasdaq",
			"dow jones", "oil", "revenue", "ceo", "acquisition", "merger",
		},
	},
	{
		Topic: model.TopicScience,
		Keywords: []string{
			"nasa", "spacex", "openai", "artificial intelligence", "gpt", "climate",
			"vaccine", "mars", "moon", "rocket", "launch", "asteroid", "temperature",
			"quantum", "nobel",
		},
	},
	{
		Topic: model.TopicPopCulture,
		Keywords: []string{
			"movie", "film", "oscar", "emmy", "grammy", "box office", "netflix",
			"album", "song", "spotify", "billboard", "taylor swift", "celebrity",
			"tiktok", "youtube", "kardashian", "award", "eurovision",
		},
	},
	{
		Topic: model.TopicNews,
		Keywords: []string{
			"war", "ceasefire", "ukraine", "russia", "israel", "gaza", "china", "iran",
			"strike", "hurricane", "earthquake", "pandemic", "attack", "invasion",
			"sanction", "protest",
		},
	},
}

// Classify returns the topic of the first matching rule, or TopicOther.
func Classify(m model.Market) model.Topic {
	topic, _ := Explain(m)
	return topic
}

// Explain is Classify that also reports the keyword that decided the topic.
// The keyword is empty when the market fell through to TopicOther.
func Explain(m model.Market) (model.Topic, string) {
	text := Text(m)
	for _, r := range Rules {
		if kw, ok := Match(text, r); ok {
			return r.Topic, kw
		}
	}
	return model.TopicOther, ""
}

// Match reports the first keyword of r contained in the lowercased text.
// Matching is plain substring search with no word boundaries.
func Match(text string, r Rule) (string, bool) {
	for _, kw := range r.Keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			return kw, true
		}
	}
	return "", false
}

// Text joins the classification inputs of m into one lowercase string.
func Text(m model.Market) string {
	parts := make([]string, 0, 2+len(m.Tags))
	parts = append(parts, m.Question, m.Group)
	parts = append(parts, m.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}
