package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/trescomas/findata/internal/aggregate"
	"github.com/trescomas/findata/internal/api"
	"github.com/trescomas/findata/internal/cache"
	"github.com/trescomas/findata/internal/config"
	"github.com/trescomas/findata/internal/filings"
	"github.com/trescomas/findata/internal/marketdata"
	"github.com/trescomas/findata/internal/metrics"
	"github.com/trescomas/findata/internal/ratelimit"
	"github.com/trescomas/findata/internal/refresh"
	"github.com/trescomas/findata/internal/store"
	"github.com/trescomas/findata/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/aggregator.local.yaml", "path to config file")
	ticker := flag.String("ticker", "", "aggregate one ticker, print the record, and exit")
	watch := flag.Bool("watch", false, "run the watchlist refresher until interrupted")
	flag.Parse()

	_ = godotenv.Load()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting aggregator",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"market_data_url", cfg.MarketData.BaseURL,
		"filings_data_url", cfg.Filings.DataURL,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Cache: a failed Redis ping degrades to a disabled cache, never a
	// startup failure.
	var c *cache.Cache
	if cfg.Cache.Redis.Addr != "" {
		c = cache.NewRedis(ctx, cfg.Cache.Redis, cfg.Cache.TTLs(), logger)
	} else {
		logger.Info("no redis configured, running uncached")
		c = cache.New(nil, cfg.Cache.TTLs(), logger)
	}

	// Document store (optional)
	var db *store.Store
	if cfg.Database.Postgres.Host != "" {
		logger.Info("connecting to database",
			"host", cfg.Database.Postgres.Host,
			"port", cfg.Database.Postgres.Port,
			"database", cfg.Database.Postgres.Name,
		)
		db, err = store.Connect(ctx, cfg.Database.Postgres, logger)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.EnsureSchema(ctx); err != nil {
			logger.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}
		logger.Info("database connected")
	} else {
		logger.Info("no database configured, persistence disabled")
	}

	// Source clients
	market := marketdata.New(
		api.NewClient(cfg.MarketData.BaseURL,
			api.WithTimeout(cfg.MarketData.Timeout),
			api.WithLogger(logger),
		),
		c,
		ratelimit.NewWindowedBackoff(ratelimit.WindowedConfig{
			Window:     cfg.Limits.MarketWindow,
			MinSpacing: cfg.Limits.MarketMinSpacing,
			Threshold:  cfg.Limits.MarketThreshold,
			MaxDelay:   cfg.Limits.MarketMaxDelay,
		}, "marketdata", logger),
		logger,
	)

	filingsLimiter := ratelimit.NewFixedInterval(cfg.Limits.FilingsRPS, "filings")
	sec := filings.New(
		api.NewClient(cfg.Filings.DirectoryURL,
			api.WithTimeout(cfg.Filings.Timeout),
			api.WithHeader("User-Agent", cfg.Filings.UserAgent),
			api.WithLogger(logger),
		),
		api.NewClient(cfg.Filings.DataURL,
			api.WithTimeout(cfg.Filings.Timeout),
			api.WithHeader("User-Agent", cfg.Filings.UserAgent),
			api.WithLogger(logger),
		),
		c,
		filingsLimiter,
		logger,
	)

	var recorder aggregate.Recorder
	if db != nil {
		recorder = db
	}
	agg := aggregate.New(market, sec, recorder, logger)

	// One-shot mode
	if *ticker != "" {
		rec, err := agg.Composite(ctx, *ticker)
		if err != nil {
			logger.Error("aggregation failed", "ticker", *ticker, "error", err)
			os.Exit(1)
		}
		out, _ := json.MarshalIndent(rec, "", "  ")
		fmt.Println(string(out))
		return
	}

	if !*watch {
		logger.Error("nothing to do: pass -ticker SYMBOL or -watch")
		os.Exit(1)
	}

	if len(cfg.Refresh.Watchlist) == 0 {
		logger.Error("watch mode requires a non-empty refresh.watchlist")
		os.Exit(1)
	}

	// Metrics server
	go metrics.Serve(ctx, cfg.Metrics.Port, cfg.Metrics.Path, logger)

	// Watchlist refresher
	refresher := refresh.New(refresh.Config{
		Interval:  cfg.Refresh.Interval,
		Watchlist: normalizeWatchlist(cfg.Refresh.Watchlist),
	}, agg, logger)

	if err := refresher.Start(ctx); err != nil {
		logger.Error("failed to start refresher", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := refresher.Stop(stopCtx); err != nil {
		logger.Warn("refresher shutdown timed out", "error", err)
	}

	logger.Info("aggregator stopped")
}

func normalizeWatchlist(tickers []string) []string {
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
