package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NullMeDev/mediabias/internal/analyzer"
	"github.com/NullMeDev/mediabias/internal/config"
	"github.com/NullMeDev/mediabias/internal/coverage"
	"github.com/NullMeDev/mediabias/internal/discord"
	"github.com/NullMeDev/mediabias/internal/emotion"
	"github.com/NullMeDev/mediabias/internal/extractor"
	"github.com/NullMeDev/mediabias/internal/fetcher"
	"github.com/NullMeDev/mediabias/internal/history"
	"github.com/NullMeDev/mediabias/internal/logger"
	"github.com/NullMeDev/mediabias/internal/ratings"
	"github.com/NullMeDev/mediabias/internal/scorer"
	"github.com/NullMeDev/mediabias/internal/server"
	"github.com/NullMeDev/mediabias/internal/social"
	"github.com/NullMeDev/mediabias/internal/speech"
)

const version = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("mediabias: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	lg, err := logger.New(cfg.LogPath, logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		return err
	}
	defer lg.Close()
	lg.Info("mediabias v%s starting up...", version)

	registry, err := loadRegistry(cfg.RatingsFile)
	if err != nil {
		return err
	}

	fetch, closer, err := fetcher.FromConfig(cfg, lg)
	if err != nil {
		return err
	}
	defer closeQuietly(lg, "fetcher", closer)
	lg.Info("Fetch strategies: %v", fetch.Strategies())

	store, err := openStore(ctx, cfg, lg)
	if err != nil {
		return err
	}
	hist := history.New(store, time.Hour, lg)
	defer closeQuietly(lg, "history", hist)
	if err := hist.Start(cfg.RollupCron); err != nil {
		return err
	}

	sc := scorer.New(registry)
	emotions := emotion.FromConfig(cfg, lg)
	if emotions.Enabled() {
		lg.Info("External emotion classification enabled")
	}

	a := analyzer.New(analyzer.Options{
		Fetcher:   fetch,
		Extractor: extractor.New(cfg.MinBodyLength),
		Scorer:    sc,
		Ratings:   registry,
		Coverage:  coverage.FromConfig(cfg, registry, sc, lg),
		Social:    social.NewGenerator(),
		Emotion:   emotions,
		History:   hist,
	}, lg)

	if cfg.DiscordEnabled() {
		bot, err := discord.New(cfg.DiscordToken, cfg.DiscordAppID, cfg.DiscordGuildID, a, registry, lg)
		if err != nil {
			return err
		}
		if err := bot.Open(); err != nil {
			return err
		}
		defer closeQuietly(lg, "discord", bot)
		lg.Info("Discord bot connected")
	}

	srv := server.New(server.Deps{
		Analyzer:  a,
		Registry:  registry,
		Speech:    speech.FromConfig(cfg, lg),
		Dashboard: hist,
	}, server.Options{
		RatePerMinute:  cfg.APIRatePerMinute,
		AnalyzeTimeout: 2*cfg.FetchTimeout + 2*cfg.SearchTimeout,
	}, lg)

	return srv.ListenAndServe(ctx, cfg.HTTPAddr)
}

func loadRegistry(path string) (*ratings.Registry, error) {
	if path == "" {
		return ratings.Default(), nil
	}
	r, err := ratings.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings from %s: %w", path, err)
	}
	return r, nil
}

func openStore(ctx context.Context, cfg *config.Config, lg *logger.Logger) (history.Store, error) {
	if cfg.DatabaseURL == "" {
		lg.Info("History kept in memory (capacity %d)", cfg.HistoryCapacity)
		return history.NewMemoryStore(cfg.HistoryCapacity), nil
	}
	store, err := history.OpenSQLStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	lg.Info("History stored in Postgres")
	return store, nil
}

func closeQuietly(lg *logger.Logger, name string, c io.Closer) {
	if err := c.Close(); err != nil {
		lg.Warning("Failed to close %s: %v", name, err)
	}
}
