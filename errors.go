package sidecache

import "errors"

// ErrNotPrimed is returned by Entry.Peek when the entry has never completed a
// successful refresh. Unlike a failed refresh — which is a status, not an
// error — this is a programming error: the caller must have awaited Read,
// Value or Refresh at least once before using the synchronous accessor.
var ErrNotPrimed = errors.New("sidecache: entry not primed")
