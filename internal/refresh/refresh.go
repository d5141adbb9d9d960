// Package refresh runs periodic aggregation over a configured watchlist.
//
// Tickers are processed sequentially within a cycle so the shared rate
// limiters pace the whole watchlist, not each ticker independently.
package refresh

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/trescomas/findata/internal/model"
)

// Compositor builds one composite record per ticker.
type Compositor interface {
	Composite(ctx context.Context, ticker string) (*model.CompositeRecord, error)
}

// Config holds refresher configuration.
type Config struct {
	Interval  time.Duration // cycle interval (default: 1h)
	Watchlist []string      // tickers to refresh each cycle
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval: time.Hour,
	}
}

// Refresher periodically re-aggregates every ticker on the watchlist.
type Refresher struct {
	cfg    Config
	agg    Compositor
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Refresher.
func New(cfg Config, agg Compositor, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	return &Refresher{
		cfg:    cfg,
		agg:    agg,
		logger: logger,
	}
}

// Start begins the refresh loop. The first cycle runs immediately.
func (r *Refresher) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.run()

	r.logger.Info("watchlist refresher started",
		"interval", r.cfg.Interval,
		"tickers", len(r.cfg.Watchlist),
	)
	return nil
}

// Stop gracefully shuts down the refresher.
func (r *Refresher) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("watchlist refresher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main refresh loop.
func (r *Refresher) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	r.cycle()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.cycle()
		}
	}
}

// cycle aggregates every watchlist ticker once.
func (r *Refresher) cycle() {
	if len(r.cfg.Watchlist) == 0 {
		r.logger.Debug("watchlist empty, nothing to refresh")
		return
	}

	start := time.Now()
	var done, failed int
	for _, t := range r.cfg.Watchlist {
		if r.ctx.Err() != nil {
			return
		}
		if _, err := r.agg.Composite(r.ctx, t); err != nil {
			r.logger.Warn("refresh skipped ticker", "ticker", t, "error", err)
			failed++
			continue
		}
		done++
	}

	r.logger.Info("refresh cycle complete",
		"refreshed", done,
		"failed", failed,
		"duration", time.Since(start),
	)
}
