package sidecache

import (
	"context"
	"fmt"
	"time"
)

// Source fetches one payload per call. A fetch that fails for any reason
// (connection error, timeout, non-200, parse failure) returns a nil payload
// and an error describing why; the refresh loop treats every failure mode
// uniformly as one failed attempt, so implementations must not retry
// internally.
type Source interface {
	Fetch(ctx context.Context, kind Kind, name string) (*Payload, error)
}

// Options tune a Registry and the defaults its entries inherit.
// Only Source is required.
type Options struct {
	// Required
	Source Source

	Logger     Logger        // if nil, NopLogger is used
	Hooks      Hooks         // if nil, NopHooks is used
	DefaultTTL time.Duration // per-entry refresh-after; 0 => 5m
}

// New creates an empty Registry. Entries are added through
// (*Registry).Parameter and (*Registry).Secret and live for the lifetime of
// the process; there is no teardown path.
func New(opts Options) (*Registry, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("sidecache: source is required")
	}
	r := &Registry{
		src:        opts.Source,
		defaultTTL: coalesce(opts.DefaultTTL, defaultTTL),
		log:        NopLogger{},
		hooks:      NopHooks{},
	}
	if opts.Logger != nil {
		r.log = opts.Logger
	}
	if opts.Hooks != nil {
		r.hooks = opts.Hooks
	}
	return r, nil
}
