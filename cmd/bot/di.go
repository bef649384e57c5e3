package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/samber/do/v2"
	"github.com/samber/oops"

	"github.com/boomerok2001-cpu/boomerbot/internal/bot"
	"github.com/boomerok2001-cpu/boomerbot/internal/config"
	"github.com/boomerok2001-cpu/boomerbot/internal/fetcher"
	"github.com/boomerok2001-cpu/boomerbot/internal/journal"
	"github.com/boomerok2001-cpu/boomerbot/internal/router"
	"github.com/boomerok2001-cpu/boomerbot/internal/scheduler"
	"github.com/boomerok2001-cpu/boomerbot/internal/seen"
	"github.com/boomerok2001-cpu/boomerbot/internal/server"
	"github.com/boomerok2001-cpu/boomerbot/internal/storage"
)

// newInjector registers every component lazily; nothing is built until invoked.
func newInjector(cfg *config.Config, log *slog.Logger) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, log)
	do.ProvideValue(injector, seen.New())
	do.ProvideValue(injector, journal.New(cfg.RecentLimit))

	do.Provide(injector, func(i do.Injector) (storage.Storage, error) {
		return newStorage(do.MustInvoke[*config.Config](i))
	})

	do.Provide(injector, func(i do.Injector) (fetcher.Source, error) {
		return newSource(do.MustInvoke[*config.Config](i), http.DefaultClient), nil
	})

	do.Provide(injector, func(i do.Injector) (*bot.Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)
		b, err := bot.New(cfg.TelegramBotToken,
			do.MustInvoke[storage.Storage](i),
			do.MustInvoke[*seen.Tracker](i),
			do.MustInvoke[*slog.Logger](i),
		)
		if err != nil {
			return nil, oops.In("di").With("context", "failed to create telegram bot").Wrap(err)
		}
		b.SetPollInterval(cfg.PollInterval)
		b.SetRecentAlerts(do.MustInvoke[*journal.Journal](i))
		return b, nil
	})

	do.Provide(injector, func(i do.Injector) (*router.Router, error) {
		cfg := do.MustInvoke[*config.Config](i)
		r := router.New(
			do.MustInvoke[storage.Storage](i),
			do.MustInvoke[*bot.Bot](i),
			do.MustInvoke[*slog.Logger](i),
		)
		r.SetConcurrency(cfg.SendConcurrency)
		r.SetMarketBaseURL(cfg.MarketBaseURL)
		r.SetJournal(do.MustInvoke[*journal.Journal](i))
		return r, nil
	})

	do.Provide(injector, func(i do.Injector) (*scheduler.Scheduler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		s := scheduler.New(
			do.MustInvoke[fetcher.Source](i),
			do.MustInvoke[*seen.Tracker](i),
			do.MustInvoke[*router.Router](i),
			do.MustInvoke[*slog.Logger](i),
		)
		s.SetTickInterval(cfg.PollInterval)
		s.SetFetchLimit(cfg.FetchLimit)
		s.SetFetchTimeout(cfg.FetchTimeout)
		s.SetQualityGate(scheduler.Gate{
			MinVolume:    cfg.MinVolume,
			MinLiquidity: cfg.MinLiquidity,
			MaxAge:       cfg.MaxAge,
		})
		return s, nil
	})

	do.Provide(injector, func(i do.Injector) (*server.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return server.New(cfg.HTTPAddr,
			do.MustInvoke[*journal.Journal](i),
			cfg.MarketBaseURL,
			do.MustInvoke[*slog.Logger](i),
		), nil
	})

	return injector
}

// newStorage opens the SQLite store when a database path is configured and
// falls back to process memory otherwise.
func newStorage(cfg *config.Config) (storage.Storage, error) {
	if cfg.DatabasePath == "" {
		return storage.NewMemory(), nil
	}
	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, oops.In("di").With("path", dir).Wrapf(err, "create data directory")
		}
	}
	s, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		return nil, oops.In("di").With("path", cfg.DatabasePath).Wrapf(err, "open database")
	}
	return s, nil
}

func newSource(cfg *config.Config, client fetcher.HTTPClient) fetcher.Source {
	if cfg.FeedKind == config.FeedRSS {
		src := fetcher.NewRSS(client, cfg.FeedURL)
		src.SetTimeout(cfg.FetchTimeout)
		return src
	}
	src := fetcher.NewGamma(client, cfg.FeedURL)
	src.SetTimeout(cfg.FetchTimeout)
	return src
}
