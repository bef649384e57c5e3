package main

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/samber/do/v2"

	"github.com/boomerok2001-cpu/boomerbot/internal/config"
	"github.com/boomerok2001-cpu/boomerbot/internal/fetcher"
	"github.com/boomerok2001-cpu/boomerbot/internal/journal"
	"github.com/boomerok2001-cpu/boomerbot/internal/server"
	"github.com/boomerok2001-cpu/boomerbot/internal/storage"
)

func TestClassifyCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "crypto",
			args: []string{"classify", "Will", "Bitcoin", "hit", "$100k?"},
			want: "₿ Crypto (matched \"bitcoin\")\n",
		},
		{
			name: "business",
			args: []string{"classify", "Will the Fed cut rates?"},
			want: "💹 Business (matched \"fed\")\n",
		},
		{
			name: "fallback",
			args: []string{"classify", "Will it snow in Lisbon?"},
			want: "📊 Other (no keyword matched)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cmd := rootCmd()
			cmd.SetOut(&out)
			cmd.SetArgs(tt.args)

			if err := cmd.Execute(); err != nil {
				t.Fatalf("execute: %v", err)
			}
			if diff := cmp.Diff(tt.want, out.String()); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassifyCommandRequiresArgs(t *testing.T) {
	cmd := rootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"classify"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error without arguments")
	}
}

func TestNewSource(t *testing.T) {
	gamma := newSource(&config.Config{FeedKind: config.FeedGamma, FeedURL: "https://g.example.com", FetchTimeout: time.Second}, nil)
	if _, ok := gamma.(*fetcher.Gamma); !ok {
		t.Errorf("gamma kind built %T", gamma)
	}

	rss := newSource(&config.Config{FeedKind: config.FeedRSS, FeedURL: "https://r.example.com", FetchTimeout: time.Second}, nil)
	if _, ok := rss.(*fetcher.RSS); !ok {
		t.Errorf("rss kind built %T", rss)
	}
}

func TestNewStorage(t *testing.T) {
	mem, err := newStorage(&config.Config{})
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := mem.(*storage.Memory); !ok {
		t.Errorf("empty path built %T", mem)
	}

	path := filepath.Join(t.TempDir(), "nested", "prefs.db")
	db, err := newStorage(&config.Config{DatabasePath: path})
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, ok := db.(*storage.SQLite); !ok {
		t.Errorf("database path built %T", db)
	}
}

func TestInjectorWiresOfflineComponents(t *testing.T) {
	cfg := &config.Config{
		FeedKind:      config.FeedGamma,
		FeedURL:       "https://g.example.com",
		MarketBaseURL: "https://polymarket.com",
		RecentLimit:   5,
		HTTPAddr:      ":0",
	}
	injector := newInjector(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if _, err := do.Invoke[storage.Storage](injector); err != nil {
		t.Errorf("storage: %v", err)
	}
	if _, err := do.Invoke[fetcher.Source](injector); err != nil {
		t.Errorf("source: %v", err)
	}
	if _, err := do.Invoke[*server.Server](injector); err != nil {
		t.Errorf("server: %v", err)
	}
	j := do.MustInvoke[*journal.Journal](injector)
	if diff := cmp.Diff(0, j.Len()); diff != "" {
		t.Errorf("journal should start empty (-want +got):\n%s", diff)
	}
}
