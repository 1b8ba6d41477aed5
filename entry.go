package sidecache

import (
	"context"
	"sync"
	"time"
)

// Status is the freshness state of an Entry.
type Status uint8

const (
	// StatusUnprimed means no refresh has ever been attempted or completed.
	StatusUnprimed Status = iota
	// StatusFresh means the last refresh succeeded within the TTL window.
	StatusFresh
	// StatusRefreshing means a fetch is in flight. At most one per entry.
	StatusRefreshing
	// StatusFailed means the last refresh exhausted its attempts. A prior
	// value, if any, is still served until a later refresh succeeds.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusUnprimed:
		return "unprimed"
	case StatusFresh:
		return "fresh"
	case StatusRefreshing:
		return "refreshing"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// refreshOp is the shared handle for one in-flight refresh. status is
// written before done is closed; waiters read it only after <-done.
type refreshOp struct {
	done   chan struct{}
	status Status
}

// Entry holds one cached secret or parameter, decides when it is stale and
// guarantees that staleness triggers at most one concurrent refresh.
//
// Entries are created through a Registry and self-register at construction.
// They are never destroyed; a long-lived worker reuses them across requests.
type Entry struct {
	name         string
	kind         Kind
	refreshAfter time.Duration
	src          Source
	log          Logger
	hooks        Hooks
	now          func() time.Time

	mu          sync.Mutex
	value       *Payload // last successful fetch; nil until primed
	lastRefresh time.Time
	status      Status
	inflight    *refreshOp // non-nil iff status == StatusRefreshing
}

// Name returns the entry's immutable identity within its registry.
func (e *Entry) Name() string { return e.name }

// Kind returns the entry's wire shape.
func (e *Entry) Kind() Kind { return e.kind }

// RefreshAfter returns the TTL window after which a fresh value goes stale.
func (e *Entry) RefreshAfter() time.Duration { return e.refreshAfter }

// Status returns the current freshness state.
func (e *Entry) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// LastRefresh returns the time of the last successful refresh, zero if none.
func (e *Entry) LastRefresh() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastRefresh
}

// Stale reports whether the next access should refresh. A Failed entry is
// always stale regardless of elapsed time, so the next access retries
// immediately instead of waiting out the TTL.
func (e *Entry) Stale() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.staleLocked()
}

func (e *Entry) staleLocked() bool {
	if e.status == StatusRefreshing {
		return false
	}
	if e.lastRefresh.IsZero() || e.status == StatusFailed {
		return true
	}
	return e.now().Sub(e.lastRefresh) > e.refreshAfter
}

// Valid reports whether the entry holds a payload of the shape its kind
// expects. An entry can be Fresh and still invalid when the source returned
// a well-formed payload of the wrong shape.
func (e *Entry) Valid() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.kind.valid(e.value)
}

// EnsureFresh starts a refresh if the entry is stale, joins one already in
// flight, or returns StatusFresh immediately. Safe to call redundantly;
// concurrent callers share one outcome. The returned error is only the
// caller's context expiring while waiting — it never aborts the refresh.
func (e *Entry) EnsureFresh(ctx context.Context) (Status, error) {
	e.mu.Lock()
	if op := e.inflight; op != nil {
		e.mu.Unlock()
		return e.wait(ctx, op)
	}
	if !e.staleLocked() {
		e.mu.Unlock()
		return StatusFresh, nil
	}
	op := e.startLocked()
	e.mu.Unlock()
	return e.wait(ctx, op)
}

// Refresh fetches unconditionally, except that a refresh already in flight
// is joined rather than restarted. The outcome is a status: exhausting all
// attempts resolves with StatusFailed instead of an error, and the prior
// value stays in place.
func (e *Entry) Refresh(ctx context.Context) (Status, error) {
	e.mu.Lock()
	op := e.inflight
	if op == nil {
		op = e.startLocked()
	}
	e.mu.Unlock()
	return e.wait(ctx, op)
}

// startLocked publishes the shared in-flight handle and flips the status
// before any I/O begins, so every caller arriving from here on observes the
// same operation instead of racing a second fetch. e.mu must be held.
func (e *Entry) startLocked() *refreshOp {
	op := &refreshOp{done: make(chan struct{})}
	e.inflight = op
	e.status = StatusRefreshing
	go e.run(op)
	return op
}

func (e *Entry) wait(ctx context.Context, op *refreshOp) (Status, error) {
	select {
	case <-op.done:
		return op.status, nil
	case <-ctx.Done():
		return e.Status(), ctx.Err()
	}
}

// run performs up to refreshAttempts sequential fetches. There is no
// cancellation and no backoff: once started it runs to completion, and any
// timeout is enforced inside the source, which surfaces it as a failed
// attempt like every other failure mode.
func (e *Entry) run(op *refreshOp) {
	start := e.now()

	var payload *Payload
	for attempt := 1; attempt <= refreshAttempts; attempt++ {
		p, err := e.src.Fetch(context.Background(), e.kind, e.name)
		if err == nil && p != nil {
			payload = p
			break
		}
		e.hooks.FetchAttemptFailed(e.name, e.kind, attempt, err)
		if attempt > 1 {
			e.log.Warn("sidecache: fetch attempt failed", Fields{
				"name":    e.name,
				"kind":    e.kind.String(),
				"attempt": attempt,
				"err":     err,
			})
		}
	}

	e.mu.Lock()
	if payload != nil {
		e.value = payload
		e.lastRefresh = e.now()
		e.status = StatusFresh
	} else {
		// Keep the prior value (stale-but-available); only flip the status
		// so the next access retries.
		e.status = StatusFailed
	}
	st := e.status
	e.inflight = nil
	e.mu.Unlock()

	if st == StatusFresh {
		e.hooks.RefreshSucceeded(e.name, e.kind, e.now().Sub(start))
	} else {
		e.hooks.RefreshFailed(e.name, e.kind)
		e.log.Error("sidecache: refresh failed, attempts exhausted", Fields{
			"name":     e.name,
			"kind":     e.kind.String(),
			"attempts": refreshAttempts,
		})
	}

	op.status = st
	close(op.done)
}

// Read ensures freshness and returns the current payload. After a failed
// refresh this is still the prior payload, or nil if the entry was never
// primed.
func (e *Entry) Read(ctx context.Context) (*Payload, error) {
	st, err := e.EnsureFresh(ctx)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	p := e.value
	e.mu.Unlock()
	if st == StatusFailed && p != nil {
		e.hooks.ServedStale(e.name, e.kind)
	}
	return p, nil
}

// Value ensures freshness and returns the decoded scalar for the entry's
// kind. ok is false when the entry was never primed or holds a payload of
// the wrong shape.
func (e *Entry) Value(ctx context.Context) (string, bool, error) {
	p, err := e.Read(ctx)
	if err != nil {
		return "", false, err
	}
	v, ok := e.kind.decode(p)
	return v, ok, nil
}

// Peek returns the decoded scalar from the current value with no waiting and
// no I/O, so it can be called from contexts that cannot block. It returns
// ErrNotPrimed until one refresh has succeeded; after that it never fails,
// even while a later refresh is failing.
func (e *Entry) Peek() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.value == nil {
		return "", ErrNotPrimed
	}
	v, _ := e.kind.decode(e.value)
	return v, nil
}

// String implements fmt.Stringer and deliberately emits the decoded value so
// entries can be interpolated into connection strings. The output is
// sensitive: never feed an Entry to a logger. Diagnostics that are safe to
// log come from Registry.Diagnostics instead. An unprimed entry renders as
// the empty string.
func (e *Entry) String() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, _ := e.kind.decode(e.value)
	return v
}

// Info returns log-safe metadata about the entry. The decoded value is
// deliberately excluded.
func (e *Entry) Info() EntryInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return EntryInfo{
		Name:         e.name,
		Kind:         e.kind.String(),
		Status:       e.status.String(),
		Primed:       e.value != nil,
		Valid:        e.kind.valid(e.value),
		LastRefresh:  e.lastRefresh,
		RefreshAfter: e.refreshAfter,
	}
}
