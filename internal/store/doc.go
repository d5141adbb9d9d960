// Package store persists aggregation output to PostgreSQL as JSONB
// documents keyed by their natural identifiers: composite records by
// ticker, filings by accession number, options snapshots by ticker.
// Re-aggregating a ticker replaces its documents in place.
//
// Persistence is best-effort. Save methods report success as a boolean
// and never fail an aggregation run.
package store
