// Package cache provides the in-memory, multi-layer cache manager used by
// the tool service adapters.
//
// A Manager partitions entries into named layers, each with its own default
// TTL and entry/memory budgets. Reads lazily expire entries, writes evict
// back under budget by recency with access frequency as the tie-break, and
// a janitor goroutine purges expired entries until the manager is stopped.
// Per-layer and aggregate metrics plus a health classification are exposed
// for the administrative surface.
package cache
