// Package filings implements the regulatory-filings source client.
//
// Every call depends on CIK resolution: the provider keys submissions and
// company facts by CIK, not ticker, so the ticker directory lookup runs
// first (cached, rate limited like any other call) and a failed resolution
// short-circuits the dependent call to an empty result without retrying.
package filings
