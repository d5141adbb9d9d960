// Package api provides the HTTP plumbing shared by the upstream provider
// clients.
//
// It deliberately has no retry logic: a failed call degrades to an empty
// result at the source-client layer, and the per-source rate limiters make
// re-attempting within a request undesirable anyway.
package api
