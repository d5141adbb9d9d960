package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/trescomas/findata/internal/metrics"
)

// Limiter blocks until the next upstream call is permitted. Acquire has no
// failure mode; cancellation of ctx only cuts a sleep short.
type Limiter interface {
	Acquire(ctx context.Context)
}

// DefaultSafetyMargin is added to every fixed-interval wait so that clock
// skew against the provider never produces calls under the ceiling.
const DefaultSafetyMargin = 100 * time.Millisecond

// FixedInterval enforces a minimum spacing of 1/rps (plus a safety margin)
// between consecutive calls.
type FixedInterval struct {
	mu          sync.Mutex
	minInterval time.Duration
	margin      time.Duration
	lastRequest time.Time

	source string

	now   func() time.Time
	sleep func(context.Context, time.Duration)
}

// NewFixedInterval creates a limiter permitting at most rps requests per
// second. source labels the limiter in logs and metrics.
func NewFixedInterval(rps float64, source string) *FixedInterval {
	if rps <= 0 {
		rps = 1
	}
	return &FixedInterval{
		minInterval: time.Duration(float64(time.Second) / rps),
		margin:      DefaultSafetyMargin,
		source:      source,
		now:         time.Now,
		sleep:       sleepCtx,
	}
}

// Acquire blocks until minInterval+margin has elapsed since the previous
// call, then stamps the request time. The mutex is held across the sleep
// so concurrent acquirers space out pairwise, not just against the stamp
// they happened to read.
func (l *FixedInterval) Acquire(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	wait := l.margin
	if !l.lastRequest.IsZero() {
		if elapsed := l.now().Sub(l.lastRequest); elapsed < l.minInterval {
			wait += l.minInterval - elapsed
		}
	}

	l.sleep(ctx, wait)
	metrics.LimiterWaitSeconds.WithLabelValues(l.source).Add(wait.Seconds())
	l.lastRequest = l.now()
}

// sleepCtx sleeps for d, returning early if ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
