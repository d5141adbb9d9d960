// Package model defines the normalized domain types shared across the
// aggregation pipeline.
//
// Conventions:
//   - Ticker symbols: uppercase, validated before construction
//   - Timestamps: time.Time in UTC; every value object carries its own
//     LastUpdated, distinct from any cache entry's timestamp
//   - Values are immutable once constructed; a re-fetch produces a new
//     instance that replaces the old one by natural key
package model
