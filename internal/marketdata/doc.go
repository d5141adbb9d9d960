// Package marketdata implements the market-data source client.
//
// Every query follows the same template: validate inputs, check the cache
// (a hit returns without touching the rate limiter), acquire the limiter,
// call upstream, validate the payload, cache the normalized result. An
// upstream failure is logged and degrades to a nil result; only invalid
// input is surfaced as an error.
package marketdata
