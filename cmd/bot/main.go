package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/boomerok2001-cpu/boomerbot/internal/bot"
	"github.com/boomerok2001-cpu/boomerbot/internal/classify"
	"github.com/boomerok2001-cpu/boomerbot/internal/config"
	"github.com/boomerok2001-cpu/boomerbot/internal/logging"
	"github.com/boomerok2001-cpu/boomerbot/internal/model"
	"github.com/boomerok2001-cpu/boomerbot/internal/scheduler"
	"github.com/boomerok2001-cpu/boomerbot/internal/server"
	"github.com/boomerok2001-cpu/boomerbot/internal/storage"
)

var cfgFile string

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "boomerbot",
		Short:         "Announce newly listed prediction markets on Telegram",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBot(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (optional, environment overrides it)")

	root.AddCommand(runCmd())
	root.AddCommand(classifyCmd())
	return root
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Poll the market feed and deliver alerts (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBot(cmd.Context())
		},
	}
}

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <question...>",
		Short: "Print the topic a market question would be routed to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := model.Market{Question: strings.Join(args, " ")}
			topic, keyword := classify.Explain(m)
			out := cmd.OutOrStdout()
			if keyword == "" {
				_, err := fmt.Fprintf(out, "%s %s (no keyword matched)\n", topic.Icon(), topic)
				return err
			}
			_, err := fmt.Fprintf(out, "%s %s (matched %q)\n", topic.Icon(), topic, keyword)
			return err
		},
	}
}

func runBot(ctx context.Context) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, logCloser := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer func() { _ = logCloser.Close() }()
	slog.SetDefault(log)

	injector := newInjector(cfg, log)

	store, err := do.Invoke[storage.Storage](injector)
	if err != nil {
		log.Error("open preference store", "path", cfg.DatabasePath, "error", err)
		return err
	}
	defer func() { _ = store.Close() }()

	b, err := do.Invoke[*bot.Bot](injector)
	if err != nil {
		log.Error("create bot", "error", err)
		return err
	}
	sched := do.MustInvoke[*scheduler.Scheduler](injector)

	log.Info("starting bot",
		"feed_kind", cfg.FeedKind,
		"feed_url", cfg.FeedURL,
		"poll_interval", cfg.PollInterval,
		"persistent_preferences", cfg.DatabasePath != "",
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sched.Run(gctx)
		return nil
	})
	g.Go(func() error {
		b.Run(gctx)
		return nil
	})
	if cfg.HTTPEnabled() {
		srv := do.MustInvoke[*server.Server](injector)
		g.Go(func() error {
			return srv.Start(gctx)
		})
	}

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("bot stopped", "error", err)
		return err
	}
	log.Info("bot stopped")
	return nil
}
