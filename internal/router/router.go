// Package router classifies new listings and fans alerts out to subscribers.
package router

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/boomerok2001-cpu/boomerbot/internal/classify"
	"github.com/boomerok2001-cpu/boomerbot/internal/journal"
	"github.com/boomerok2001-cpu/boomerbot/internal/model"
	"github.com/boomerok2001-cpu/boomerbot/internal/storage"
)

const (
	defaultConcurrency = 4
	defaultBaseURL     = "https://polymarket.com"
)

// Sender delivers one formatted alert to one subscriber.
type Sender interface {
	SendAlert(ctx context.Context, chatID int64, text string) error
}

// Result summarizes a single Route call.
type Result struct {
	Topic      model.Topic
	Text       string
	Recipients int
	Delivered  int
	Failed     int
}

// Router delivers alerts for newly discovered markets.
type Router struct {
	store       storage.Storage
	sender      Sender
	journal     *journal.Journal
	log         *slog.Logger
	concurrency int
	baseURL     string
	now         func() time.Time
}

// New creates a Router reading subscribers from store and delivering through sender.
func New(store storage.Storage, sender Sender, log *slog.Logger) *Router {
	return &Router{
		store:       store,
		sender:      sender,
		log:         log,
		concurrency: defaultConcurrency,
		baseURL:     defaultBaseURL,
		now:         time.Now,
	}
}

// SetConcurrency bounds the number of simultaneous deliveries per market.
func (r *Router) SetConcurrency(n int) {
	if n > 0 {
		r.concurrency = n
	}
}

// SetMarketBaseURL sets the site used to build market links.
func (r *Router) SetMarketBaseURL(u string) {
	if u != "" {
		r.baseURL = u
	}
}

// SetJournal records every routed market in j.
func (r *Router) SetJournal(j *journal.Journal) {
	r.journal = j
}

// Route classifies m and delivers its alert to every subscriber with the topic
// enabled. Delivery failures are logged per subscriber and never abort the
// remaining deliveries. Route returns once every attempt has finished.
func (r *Router) Route(ctx context.Context, m model.Market) Result {
	topic, keyword := classify.Explain(m)
	now := r.now()
	res := Result{
		Topic: topic,
		Text:  FormatAlert(m, topic, r.baseURL, now),
	}

	r.log.Debug("classified market", "market_id", m.ID, "topic", topic.Key(), "keyword", keyword)

	subs, err := r.store.List(ctx)
	if err != nil {
		r.log.Error("list subscribers", "market_id", m.ID, "error", err)
		return res
	}

	recipients := lo.FilterMap(subs, func(p model.Preferences, _ int) (int64, bool) {
		return p.ChatID, p.IsEnabled(topic)
	})
	res.Recipients = len(recipients)

	var delivered, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for _, chatID := range recipients {
		g.Go(func() error {
			if err := r.sender.SendAlert(ctx, chatID, res.Text); err != nil {
				failed.Add(1)
				r.log.Warn("deliver alert", "chat_id", chatID, "market_id", m.ID, "error", err)
				return nil
			}
			delivered.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	res.Delivered = int(delivered.Load())
	res.Failed = int(failed.Load())

	if r.journal != nil {
		r.journal.Add(journal.Entry{Market: m, Topic: topic, Recipients: res.Recipients, At: now})
	}

	r.log.Info("routed market",
		"market_id", m.ID,
		"topic", topic.Key(),
		"recipients", res.Recipients,
		"delivered", res.Delivered,
		"failed", res.Failed,
	)
	return res
}
