// Package aggregate composes market data and regulatory filings into one
// composite record per ticker.
//
// Aggregation is best-effort: every section of the record is filled
// independently, a failed section is logged and left nil, and a run only
// errors on invalid input. A record with every section nil is still a
// valid result.
package aggregate
