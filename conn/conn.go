// Package conn holds connection settings whose credentials come from cached
// entries. Unlike the cache registry, the connection registry rejects
// duplicate names: two connections under one name is always a configuration
// error, whereas two cache entries for one value is merely wasteful.
package conn

import (
	"fmt"
	"sync"

	"github.com/unkn0wn-root/sidecache"
	"github.com/unkn0wn-root/sidecache/internal/sanitize"
)

// DuplicateError reports an Add under an already-registered name.
type DuplicateError struct {
	Name string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("conn: duplicate connection name %q", e.Name)
}

// Settings describes one named downstream connection. Password is a cached
// secret entry; it is decoded inline when the DSN is built and must be
// primed by then.
type Settings struct {
	Name     string
	Host     string
	Port     int
	User     string
	Database string
	Password *sidecache.Entry
}

// DSN builds a postgres connection string. The password is interpolated via
// the entry's Stringer, so the output is sensitive: hand it to a driver, not
// to a logger. An unprimed password renders as the empty string — call
// Registry.PrimeAll (or the entry's Read/Refresh) first.
func (s *Settings) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", s.User, s.Password, s.Host, s.Port, s.Database)
}

// Redacted renders the settings safe for logs, masking the password.
func (s *Settings) Redacted() string {
	pw := "<unprimed>"
	if s.Password != nil {
		if v, err := s.Password.Peek(); err == nil {
			pw = sanitize.Mask(v)
		}
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", s.User, pw, s.Host, s.Port, s.Database)
}

// Registry is a name-unique directory of connection settings.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Settings
	order  []string
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Settings)}
}

// Add registers the settings under their name. Duplicates are rejected.
func (r *Registry) Add(s *Settings) error {
	if s == nil || s.Name == "" {
		return fmt.Errorf("conn: settings with a name are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[s.Name]; ok {
		return &DuplicateError{Name: s.Name}
	}
	r.byName[s.Name] = s
	r.order = append(r.order, s.Name)
	return nil
}

// Get returns the settings registered under name.
func (r *Registry) Get(name string) (*Settings, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byName[name]
	return s, ok
}

// Names returns registered names in insertion order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
