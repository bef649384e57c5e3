package fetcher

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/boomerok2001-cpu/boomerbot/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Gamma reads active markets from the Polymarket Gamma API.
type Gamma struct {
	client  HTTPClient
	baseURL string
	timeout time.Duration
}

// NewGamma creates a Gamma source rooted at baseURL
// (e.g. https://gamma-api.polymarket.com).
func NewGamma(client HTTPClient, baseURL string) *Gamma {
	return &Gamma{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: defaultTimeout,
	}
}

// SetTimeout overrides the per-request timeout.
func (g *Gamma) SetTimeout(d time.Duration) {
	g.timeout = d
}

// FetchRecent returns up to limit active markets ordered by creation time, newest first.
func (g *Gamma) FetchRecent(ctx context.Context, limit int) ([]model.Market, error) {
	body, err := get(ctx, g.client, g.listURL(limit), g.timeout)
	if err != nil {
		return nil, err
	}

	var raw []jsoniter.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode markets: %w", err)
	}

	// A listing that cannot be decoded is dropped on its own; the rest of
	// the batch is still delivered.
	markets := make([]model.Market, 0, len(raw))
	for _, item := range raw {
		var r gammaMarket
		if err := json.Unmarshal(item, &r); err != nil {
			continue
		}
		markets = append(markets, r.toModel())
	}
	return markets, nil
}

func (g *Gamma) listURL(limit int) string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("active", "true")
	q.Set("order", "createdAt")
	q.Set("ascending", "false")
	return g.baseURL + "/markets?" + q.Encode()
}

type gammaEvent struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

type gammaMarket struct {
	ID             flexString   `json:"id"`
	Question       string       `json:"question"`
	Title          string       `json:"title"`
	GroupItemTitle string       `json:"groupItemTitle"`
	Category       string       `json:"category"`
	Slug           string       `json:"slug"`
	Description    string       `json:"description"`
	Volume         flexFloat    `json:"volume"`
	Liquidity      flexFloat    `json:"liquidity"`
	OutcomePrices  flexFloats   `json:"outcomePrices"`
	CreatedAt      string       `json:"createdAt"`
	EndDate        string       `json:"endDate"`
	Tags           flexTags     `json:"tags"`
	Events         []gammaEvent `json:"events"`
}

func (r gammaMarket) toModel() model.Market {
	m := model.Market{
		ID:            string(r.ID),
		Question:      r.Question,
		Group:         r.GroupItemTitle,
		Tags:          []string(r.Tags),
		Slug:          r.Slug,
		Description:   r.Description,
		Volume:        float64(r.Volume),
		Liquidity:     float64(r.Liquidity),
		OutcomePrices: []float64(r.OutcomePrices),
		CreatedAt:     parseTime(r.CreatedAt),
		EndDate:       parseTime(r.EndDate),
	}
	if m.Question == "" {
		m.Question = r.Title
	}
	if r.Category != "" {
		m.Tags = append(m.Tags, r.Category)
	}
	// Event pages are the canonical place to trade a market.
	if len(r.Events) > 0 && r.Events[0].Slug != "" {
		m.Slug = r.Events[0].Slug
	}
	return m
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// flexString accepts a JSON string or number.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	*s = flexString(b)
	return nil
}

// flexFloat accepts a JSON number or a numeric string. Blank or unparseable
// values decode as zero.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	if err != nil {
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// flexFloats accepts an array of numbers or numeric strings, optionally
// wrapped in a JSON-encoded string as the Gamma API does for outcomePrices.
// The whole list decodes as nil if any element is not a number.
type flexFloats []float64

func (f *flexFloats) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var inner string
		if err := json.Unmarshal(b, &inner); err != nil {
			return nil
		}
		if strings.TrimSpace(inner) == "" {
			return nil
		}
		b = []byte(inner)
	}
	var vals []flexString
	if err := json.Unmarshal(b, &vals); err != nil {
		return nil
	}
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		n, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		if err != nil {
			return nil
		}
		out = append(out, n)
	}
	*f = out
	return nil
}

// flexTags accepts an array of strings or of {"label": ...} objects.
type flexTags []string

func (t *flexTags) UnmarshalJSON(b []byte) error {
	var raw []any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var out []string
	for _, v := range raw {
		switch tag := v.(type) {
		case string:
			if tag != "" {
				out = append(out, tag)
			}
		case map[string]any:
			if label, ok := tag["label"].(string); ok && label != "" {
				out = append(out, label)
			}
		}
	}
	*t = out
	return nil
}
