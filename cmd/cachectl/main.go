// Command cachectl clears cached provider responses, either wholesale or
// by key substring (e.g. a ticker).
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/trescomas/findata/internal/cache"
	"github.com/trescomas/findata/internal/config"
)

func main() {
	configPath := flag.String("config", "configs/aggregator.local.yaml", "path to config file")
	pattern := flag.String("pattern", "", "clear only keys containing this substring (default: all)")
	flag.Parse()

	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Cache.Redis.Addr == "" {
		logger.Error("no redis configured, nothing to clear")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := cache.NewRedis(ctx, cfg.Cache.Redis, cfg.Cache.TTLs(), logger)
	if c.Disabled() {
		logger.Error("cache unavailable", "addr", cfg.Cache.Redis.Addr)
		os.Exit(1)
	}

	n := c.Clear(ctx, *pattern)
	logger.Info("cache cleared", "pattern", *pattern, "removed", n)
}
