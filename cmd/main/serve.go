package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/emcasacomcecilia/vitrine/internal/bot"
	"github.com/emcasacomcecilia/vitrine/internal/config"
	"github.com/emcasacomcecilia/vitrine/internal/extractor"
	"github.com/emcasacomcecilia/vitrine/internal/loader"
	"github.com/emcasacomcecilia/vitrine/internal/render"
	"github.com/emcasacomcecilia/vitrine/internal/repository/sqlite"
	"github.com/emcasacomcecilia/vitrine/internal/server"
	"github.com/emcasacomcecilia/vitrine/internal/services/checker"
	"github.com/emcasacomcecilia/vitrine/internal/state"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server, the feed poller and the optional Telegram bot",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	repo, err := sqlite.NewRepository(ctx, logger, cfg.StoragePath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer repo.Close()

	renderer, err := render.New()
	if err != nil {
		return err
	}

	store := state.NewStore()
	feedLoader := loader.New(logger, cfg.Sources.Products, cfg.Sources.Promotions)

	reloadProducts := func(ctx context.Context) {
		products, err := feedLoader.LoadProducts(ctx)
		if err != nil {
			logger.WarnContext(ctx, "Products were not reloaded", "error", err)

			return
		}

		store.SetProducts(products, time.Now())
		logger.InfoContext(ctx, "Products loaded", "count", len(products))
	}

	reloadProducts(ctx)

	var (
		notifier checker.Notifier
		tgBot    *bot.Bot
	)

	if cfg.Tg.Token != "" {
		tgBot, err = bot.NewBot(logger, cfg.Tg.Token, cfg.Tg.Timeout, bot.Deps{
			Subscriptions: repo,
			Snapshots:     store,
			Offers:        extractor.New(logger, nil),
			Affiliate:     extractor.Affiliate{AmazonTag: cfg.Affiliate.AmazonTag, MagaluID: cfg.Affiliate.MagaluID},
			BaseURL:       cfg.HTTP.BaseURL,
			Window:        cfg.Feed.Window,
		})
		if err != nil {
			return fmt.Errorf("failed to init bot: %w", err)
		}

		notifier = tgBot
	} else {
		logger.WarnContext(ctx, "VT_TELEGRAM_TOKEN is empty, Telegram bot disabled")
	}

	srv := server.New(logger, server.Config{
		Addr:      cfg.HTTP.Addr,
		Window:    cfg.Feed.Window,
		PageSize:  cfg.Feed.PageSize,
		BaseURL:   cfg.HTTP.BaseURL,
		PublicDir: cfg.HTTP.PublicDir,
	}, store, repo, renderer)

	poller := checker.NewChecker(logger, feedLoader, repo, repo, store, notifier).WithWindow(cfg.Feed.Window)

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error { return srv.Run(gctx) })
	group.Go(func() error { return poller.Run(gctx, cfg.Sources.RefreshInterval) })
	group.Go(func() error {
		return loader.Watch(gctx, logger, cfg.Sources.Products, loader.DefaultDebounce, reloadProducts)
	})

	if tgBot != nil {
		group.Go(func() error {
			tgBot.Start()

			return nil
		})
		group.Go(func() error {
			<-gctx.Done()
			tgBot.Stop()

			return nil
		})
	}

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	err = group.Wait()

	// Log graceful shutdown completion.
	logger.InfoContext(ctx, "Application stopped gracefully.")

	return err
}
