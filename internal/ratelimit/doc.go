// Package ratelimit implements the per-source request throttling policies.
//
// Two policies share one contract (Acquire blocks until the call is
// permitted, never fails):
//   - FixedInterval: hard per-request spacing for providers with a strict
//     requests-per-second ceiling.
//   - WindowedBackoff: rolling request counter over an hour window with
//     minimum inter-request spacing and exponential backoff under
//     sustained load.
//
// Each limiter owns its counters as private state behind a mutex; callers
// interact only through Acquire. Concurrent acquirers against one limiter
// serialize and still observe correct spacing.
package ratelimit
