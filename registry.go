package sidecache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Registry is a process-wide directory of entries. It is an explicit value
// meant to be constructed once at process start and passed where needed;
// tests get a fresh one per test instead of sharing hidden global state.
//
// Names are not deduplicated: registering two entries under one name is
// allowed and Lookup resolves to the first. Contrast with conn.Registry,
// which rejects duplicates.
type Registry struct {
	src        Source
	log        Logger
	hooks      Hooks
	defaultTTL time.Duration

	mu      sync.RWMutex
	entries []*Entry
}

// EntryInfo is log-safe per-entry metadata. It never carries the decoded
// value.
type EntryInfo struct {
	Name         string        `json:"name"`
	Kind         string        `json:"kind"`
	Status       string        `json:"status"`
	Primed       bool          `json:"primed"`
	Valid        bool          `json:"valid"`
	LastRefresh  time.Time     `json:"last_refresh"`
	RefreshAfter time.Duration `json:"refresh_after"`
}

// EntryOption tunes one entry at construction.
type EntryOption func(*entryConfig)

type entryConfig struct {
	ttl time.Duration
	src Source
}

// WithTTL overrides the registry's default refresh-after window. A zero TTL
// makes the entry stale as soon as any time has elapsed since its refresh.
func WithTTL(d time.Duration) EntryOption {
	return func(c *entryConfig) { c.ttl = d }
}

// WithSource overrides the registry's source for this entry only.
func WithSource(s Source) EntryOption {
	return func(c *entryConfig) { c.src = s }
}

// Parameter constructs and registers an SSM parameter entry.
func (r *Registry) Parameter(name string, opts ...EntryOption) (*Entry, error) {
	return r.newEntry(Parameter, name, opts)
}

// Secret constructs and registers a Secrets Manager entry.
func (r *Registry) Secret(name string, opts ...EntryOption) (*Entry, error) {
	return r.newEntry(Secret, name, opts)
}

func (r *Registry) newEntry(kind Kind, name string, opts []EntryOption) (*Entry, error) {
	if name == "" {
		return nil, fmt.Errorf("sidecache: entry name is required")
	}
	cfg := entryConfig{ttl: r.defaultTTL, src: r.src}
	for _, opt := range opts {
		opt(&cfg)
	}
	e := &Entry{
		name:         name,
		kind:         kind,
		refreshAfter: cfg.ttl,
		src:          cfg.src,
		log:          r.log,
		hooks:        r.hooks,
		now:          time.Now,
	}
	r.Register(e)
	return e, nil
}

// Register appends the entry. Duplicate names are accepted (first wins on
// Lookup) but noted, since a shadowed entry is usually a wiring mistake.
func (r *Registry) Register(e *Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, prev := range r.entries {
		if prev.name == e.name {
			r.log.Debug("sidecache: duplicate entry name; lookups resolve to the first", Fields{
				"name": e.name,
				"kind": e.kind.String(),
			})
			break
		}
	}
	r.entries = append(r.entries, e)
}

// Lookup returns the first registered entry with the given name.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.name == name {
			return e, true
		}
	}
	return nil, false
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// PrimeAll fans out EnsureFresh to every entry and waits for all of them.
// Intended to run once during cold start, before the first request needs a
// value. Individual fetch failures do not fail the call — they are visible
// per entry as StatusFailed — so the only error here is the context expiring
// mid-prime.
func (r *Registry) PrimeAll(ctx context.Context) error {
	entries := r.snapshot()
	r.log.Debug("sidecache: priming entries", Fields{"count": len(entries)})

	g, ctx := errgroup.WithContext(ctx)
	for _, e := range entries {
		e := e
		g.Go(func() error {
			_, err := e.EnsureFresh(ctx)
			return err
		})
	}
	return g.Wait()
}

// Names returns registered entry names in insertion order.
func (r *Registry) Names() []string {
	entries := r.snapshot()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.name
	}
	return out
}

// NameTags returns names annotated with kind, formatted "<name> [<kind>]".
func (r *Registry) NameTags() []string {
	entries := r.snapshot()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = fmt.Sprintf("%s [%s]", e.name, e.kind)
	}
	return out
}

// Diagnostics returns log-safe metadata for every entry, in insertion order.
func (r *Registry) Diagnostics() []EntryInfo {
	entries := r.snapshot()
	out := make([]EntryInfo, len(entries))
	for i, e := range entries {
		out[i] = e.Info()
	}
	return out
}

func (r *Registry) snapshot() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
