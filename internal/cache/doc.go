// Package cache implements the expiring key/value layer that sits in front
// of every upstream call.
//
// Expiry is category-keyed, not global: each category maps to its own TTL
// and the check happens lazily at read time against the entry's stored-at
// timestamp. Entries are never proactively evicted; stale data may sit in
// the backing store until queried.
//
// The cache is a performance optimization, never a correctness dependency.
// When the backing store is unreachable at construction the cache runs
// disabled: Get always misses, Set reports failure, and the pipeline keeps
// working.
package cache
