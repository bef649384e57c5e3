// Package scheduler drives the poll, diff and route cycle.
package scheduler

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/boomerok2001-cpu/boomerbot/internal/fetcher"
	"github.com/boomerok2001-cpu/boomerbot/internal/model"
	"github.com/boomerok2001-cpu/boomerbot/internal/router"
	"github.com/boomerok2001-cpu/boomerbot/internal/seen"
)

const (
	defaultTick    = 30 * time.Second
	defaultLimit   = 20
	defaultTimeout = 10 * time.Second
)

// Router delivers alerts for a single market.
type Router interface {
	Route(ctx context.Context, m model.Market) router.Result
}

// Scheduler periodically polls the upstream feed and routes new listings.
type Scheduler struct {
	source  fetcher.Source
	tracker *seen.Tracker
	router  Router
	log     *slog.Logger
	tick    time.Duration
	limit   int
	timeout time.Duration
	gate    Gate
	now     func() time.Time
	running atomic.Bool
}

// New creates a Scheduler with default interval, batch size and timeout.
func New(source fetcher.Source, tracker *seen.Tracker, r Router, log *slog.Logger) *Scheduler {
	return &Scheduler{
		source:  source,
		tracker: tracker,
		router:  r,
		log:     log,
		tick:    defaultTick,
		limit:   defaultLimit,
		timeout: defaultTimeout,
		now:     time.Now,
	}
}

// SetTickInterval overrides the default 30-second poll interval.
func (s *Scheduler) SetTickInterval(d time.Duration) {
	s.tick = d
}

// SetFetchLimit overrides how many recent markets are requested per poll.
func (s *Scheduler) SetFetchLimit(n int) {
	s.limit = n
}

// SetFetchTimeout bounds each upstream fetch.
func (s *Scheduler) SetFetchTimeout(d time.Duration) {
	s.timeout = d
}

// SetQualityGate filters new listings before routing.
func (s *Scheduler) SetQualityGate(g Gate) {
	s.gate = g
}

// Run starts the scheduler loop, blocking until ctx is cancelled.
// The first cycle runs immediately.
func (s *Scheduler) Run(ctx context.Context) {
	s.RunCycle(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunCycle(ctx)
		}
	}
}

// RunCycle polls once and routes every new listing in discovery order.
// It returns false without doing anything if another cycle is still running.
func (s *Scheduler) RunCycle(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warn("previous cycle still running, skipping tick")
		return false
	}
	defer s.running.Store(false)

	for _, m := range s.poll(ctx) {
		if ctx.Err() != nil {
			return true
		}
		s.router.Route(ctx, m)
	}
	return true
}

// poll fetches recent markets and returns those not seen before.
// A failed fetch is logged and yields nothing, leaving the seen-set untouched.
// Callers must hold the in-flight flag taken by RunCycle.
func (s *Scheduler) poll(ctx context.Context) []model.Market {
	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	baseline := !s.tracker.Initialized()

	markets, err := s.source.FetchRecent(fetchCtx, s.limit)
	if err != nil {
		s.log.Error("fetch markets", "error", err)
		return nil
	}

	fresh := s.tracker.Diff(markets)
	if baseline {
		s.log.Info("baseline recorded", "markets", len(markets), "tracked", s.tracker.Len())
		return nil
	}

	now := s.now()
	out := make([]model.Market, 0, len(fresh))
	for _, m := range fresh {
		if reason, ok := s.gate.Allow(m, now); !ok {
			s.log.Debug("listing filtered", "market_id", m.ID, "reason", reason)
			continue
		}
		out = append(out, m)
	}

	if len(fresh) > 0 {
		s.log.Info("new markets", "count", len(fresh), "routed", len(out), "tracked", s.tracker.Len())
	}
	return out
}
