package ratelimit

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/trescomas/findata/internal/metrics"
)

// WindowedConfig tunes the windowed-counter policy. The zero value takes
// the defaults below; the constants are observable policy, not a provider
// contract, so they stay configurable.
type WindowedConfig struct {
	Window     time.Duration // counting window (default 1h)
	MinSpacing time.Duration // floor between consecutive calls (default 1s)
	Threshold  int           // requests in a window before backoff starts (default 5)
	MaxDelay   time.Duration // backoff cap (default 30s)
}

func (c *WindowedConfig) applyDefaults() {
	if c.Window == 0 {
		c.Window = time.Hour
	}
	if c.MinSpacing == 0 {
		c.MinSpacing = time.Second
	}
	if c.Threshold == 0 {
		c.Threshold = 5
	}
	if c.MaxDelay == 0 {
		c.MaxDelay = 30 * time.Second
	}
}

// WindowedBackoff counts requests in a rolling window and slows callers
// down exponentially once the count passes the threshold. The count
// increments on every Acquire whether or not the upstream call later
// succeeds, and resets only at window rollover, never mid-window.
type WindowedBackoff struct {
	mu          sync.Mutex
	cfg         WindowedConfig
	count       int
	windowReset time.Time
	lastRequest time.Time

	source string
	logger *slog.Logger

	now   func() time.Time
	sleep func(context.Context, time.Duration)
}

// NewWindowedBackoff creates a limiter with the given policy.
func NewWindowedBackoff(cfg WindowedConfig, source string, logger *slog.Logger) *WindowedBackoff {
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &WindowedBackoff{
		cfg:    cfg,
		source: source,
		logger: logger,
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

// Acquire blocks until the call is permitted.
func (l *WindowedBackoff) Acquire(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if l.windowReset.IsZero() {
		l.windowReset = now.Add(l.cfg.Window)
	} else if !now.Before(l.windowReset) {
		l.count = 0
		l.windowReset = now.Add(l.cfg.Window)
	}

	var wait time.Duration
	if !l.lastRequest.IsZero() {
		if elapsed := now.Sub(l.lastRequest); elapsed < l.cfg.MinSpacing {
			wait = l.cfg.MinSpacing - elapsed
		}
	}

	if l.count > l.cfg.Threshold {
		wait += l.backoffDelay()
	}

	if wait > 0 {
		if wait > l.cfg.MinSpacing {
			l.logger.Info("rate limiting upstream calls",
				"source", l.source,
				"wait", wait,
				"requests_in_window", l.count,
			)
		}
		l.sleep(ctx, wait)
		metrics.LimiterWaitSeconds.WithLabelValues(l.source).Add(wait.Seconds())
	}

	l.count++
	l.lastRequest = l.now()
}

// backoffDelay doubles every Threshold requests and never exceeds MaxDelay.
func (l *WindowedBackoff) backoffDelay() time.Duration {
	exp := l.count / l.cfg.Threshold
	delay := time.Duration(math.Pow(2, float64(exp))) * time.Second
	if delay > l.cfg.MaxDelay || delay <= 0 {
		delay = l.cfg.MaxDelay
	}
	return delay
}
