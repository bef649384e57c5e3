package fetcher

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/boomerok2001-cpu/boomerbot/internal/model"
)

// RSS reads listings from an RSS, Atom or JSON feed.
type RSS struct {
	client  HTTPClient
	url     string
	timeout time.Duration
}

// NewRSS creates a feed-backed source for the given URL.
func NewRSS(client HTTPClient, url string) *RSS {
	return &RSS{
		client:  client,
		url:     url,
		timeout: defaultTimeout,
	}
}

// SetTimeout overrides the per-request timeout.
func (r *RSS) SetTimeout(d time.Duration) {
	r.timeout = d
}

// FetchRecent returns the first limit feed items as markets.
func (r *RSS) FetchRecent(ctx context.Context, limit int) ([]model.Market, error) {
	body, err := get(ctx, r.client, r.url, r.timeout)
	if err != nil {
		return nil, err
	}

	parser := gofeed.NewParser()
	feed, err := parser.ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := feed.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	markets := make([]model.Market, 0, len(items))
	for _, item := range items {
		markets = append(markets, itemToMarket(item))
	}
	return markets, nil
}

// ItemGUID returns the GUID for a feed item.
// If the item has no GUID, a SHA-256 hash of title+link is used.
func ItemGUID(item *gofeed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}
	h := sha256.Sum256([]byte(item.Title + "|" + item.Link))
	return fmt.Sprintf("sha256:%x", h[:16])
}

func itemToMarket(item *gofeed.Item) model.Market {
	m := model.Market{
		ID:          ItemGUID(item),
		Question:    strings.TrimSpace(item.Title),
		Tags:        item.Categories,
		Link:        item.Link,
		Description: strings.TrimSpace(item.Description),
	}
	if item.PublishedParsed != nil {
		t := item.PublishedParsed.UTC()
		m.CreatedAt = &t
	}
	return m
}
