package sidecache

import "time"

// Hooks lightweight callbacks for high-signal cache events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks interface {
	// One fetch attempt failed (nil payload or source error).
	// attempt is 1-based; the cap is 3.
	FetchAttemptFailed(name string, kind Kind, attempt int, err error)

	// A refresh completed successfully after elapsed wall time.
	RefreshSucceeded(name string, kind Kind, elapsed time.Duration)

	// A refresh exhausted all attempts; the entry keeps its prior value.
	RefreshFailed(name string, kind Kind)

	// A read returned a previously fetched value while the entry is Failed.
	ServedStale(name string, kind Kind)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) FetchAttemptFailed(string, Kind, int, error)  {}
func (NopHooks) RefreshSucceeded(string, Kind, time.Duration) {}
func (NopHooks) RefreshFailed(string, Kind)                   {}
func (NopHooks) ServedStale(string, Kind)                     {}
