// Package sloghooks provides a slog-backed sidecache.Hooks implementation
// with optional sampling for the chatty events.
package sloghooks

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/sidecache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	AttemptFailedEvery uint64
	ServedStaleEvery   uint64
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	attemptCtr atomic.Uint64
	staleCtr   atomic.Uint64
}

var _ sidecache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) FetchAttemptFailed(name string, kind sidecache.Kind, attempt int, err error) {
	if h.l == nil || !sample(h.opts.AttemptFailedEvery, &h.attemptCtr) {
		return
	}
	h.l.Warn("sidecache.fetch_attempt_failed",
		"name", name,
		"kind", kind.String(),
		"attempt", attempt,
		"err", err)
}

func (h *Hooks) RefreshSucceeded(name string, kind sidecache.Kind, elapsed time.Duration) {
	if h.l == nil {
		return
	}
	h.l.Debug("sidecache.refresh_succeeded",
		"name", name,
		"kind", kind.String(),
		"elapsed", elapsed)
}

func (h *Hooks) RefreshFailed(name string, kind sidecache.Kind) {
	if h.l == nil {
		return
	}
	h.l.Error("sidecache.refresh_failed",
		"name", name,
		"kind", kind.String())
}

func (h *Hooks) ServedStale(name string, kind sidecache.Kind) {
	if h.l == nil || !sample(h.opts.ServedStaleEvery, &h.staleCtr) {
		return
	}
	h.l.Info("sidecache.served_stale",
		"name", name,
		"kind", kind.String())
}
