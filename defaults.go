package sidecache

import "time"

const (
	// defaultTTL is the refresh-after window applied to entries that do not
	// set their own via WithTTL.
	defaultTTL = 5 * time.Minute

	// refreshAttempts is the fixed per-refresh attempt cap. Attempts run in
	// sequence with no backoff between them.
	refreshAttempts = 3
)

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
