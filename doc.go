// Package sidecache implements a process-local, lazy refresh-ahead cache for
// secrets and parameters fetched through a local sidecar. Each named value is
// owned by an Entry that tracks freshness and guarantees at most one in-flight
// fetch per entry (single-flight); a Registry collects entries for cold-start
// priming and diagnostics.
//
// Components:
//   - Source: fetches one payload per attempt (sidecar HTTP transport by
//     default, direct AWS SDK calls via the awsfetch package).
//   - Entry: one cached value plus its freshness state machine. Stale entries
//     are refreshed lazily on access; concurrent callers share one fetch.
//   - Registry: insertion-ordered directory of entries. PrimeAll pays the
//     first-fetch latency up front, outside any request's critical path.
//
// Access paths:
//
//	st, _ := entry.EnsureFresh(ctx) // refresh if stale, join if in flight
//	v, ok, _ := entry.Value(ctx)    // ensure fresh, then decode
//	v, err := entry.Peek()          // no I/O; ErrNotPrimed before first success
//
// A failed refresh never discards a previously fetched value: readers keep
// getting the stale value until a later refresh succeeds (stale-but-available).
// Refresh failure is reported as StatusFailed, not as an error.
//
// All state is process-local and lost on teardown. This is not a distributed
// cache: there is no write-through, no invalidation fan-out and no coherence
// across instances.
package sidecache
