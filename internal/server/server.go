// Package server exposes the liveness endpoint and a feed of recent alerts.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/feeds"
	sloghttp "github.com/samber/slog-http"

	"github.com/boomerok2001-cpu/boomerbot/internal/journal"
	"github.com/boomerok2001-cpu/boomerbot/internal/router"
)

const shutdownTimeout = 5 * time.Second

// Server answers uptime pings and serves recently routed listings as RSS.
type Server struct {
	addr          string
	journal       *journal.Journal
	marketBaseURL string
	logger        *slog.Logger
}

// New creates a server listening on addr.
func New(addr string, j *journal.Journal, marketBaseURL string, logger *slog.Logger) *Server {
	return &Server{
		addr:          addr,
		journal:       j,
		marketBaseURL: marketBaseURL,
		logger:        logger,
	}
}

// Handler returns the routed handler wrapped with request logging and panic recovery.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /feed.rss", s.handleFeed)
	mux.HandleFunc("GET /{$}", s.handleRoot)

	handler := sloghttp.Recovery(mux)
	handler = sloghttp.New(s.logger)(handler)
	return handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting", "addr", s.addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("BoomerBot is running"))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleFeed(w http.ResponseWriter, _ *http.Request) {
	rss, err := s.buildFeed().ToRss()
	if err != nil {
		s.logger.Error("render feed", "error", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(rss))
}

func (s *Server) buildFeed() *feeds.Feed {
	feed := &feeds.Feed{
		Title:       "BoomerBot new markets",
		Link:        &feeds.Link{Href: s.marketBaseURL},
		Description: "Prediction markets announced by BoomerBot, newest first",
		Created:     time.Now().UTC(),
	}
	if s.journal == nil {
		return feed
	}

	for _, e := range s.journal.List() {
		feed.Items = append(feed.Items, &feeds.Item{
			Title:       fmt.Sprintf("[%s] %s", e.Topic, e.Market.DisplayText()),
			Link:        &feeds.Link{Href: router.Link(e.Market, s.marketBaseURL)},
			Description: e.Market.Description,
			Id:          e.Market.ID,
			Created:     e.At,
		})
	}
	if len(feed.Items) > 0 {
		feed.Updated = feed.Items[0].Created
	}
	return feed
}
