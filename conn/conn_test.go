package conn

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/sidecache"
)

type staticSource struct {
	secret string
}

func (s staticSource) Fetch(context.Context, sidecache.Kind, string) (*sidecache.Payload, error) {
	return &sidecache.Payload{SecretString: &s.secret}, nil
}

func newPasswordEntry(t *testing.T, secret string) *sidecache.Entry {
	t.Helper()
	reg, err := sidecache.New(sidecache.Options{Source: staticSource{secret: secret}})
	require.NoError(t, err)
	e, err := reg.Secret("db-pass")
	require.NoError(t, err)
	return e
}

func TestDSN(t *testing.T) {
	pw := newPasswordEntry(t, "p@ss1")
	s := &Settings{
		Name:     "main",
		Host:     "db.internal",
		Port:     5432,
		User:     "app",
		Database: "orders",
		Password: pw,
	}

	// Unprimed password interpolates to empty; the DSN is unusable until
	// the entry has been refreshed once.
	require.Equal(t, "postgres://app:@db.internal:5432/orders", s.DSN())

	_, err := pw.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, "postgres://app:p@ss1@db.internal:5432/orders", s.DSN())
}

func TestRedacted(t *testing.T) {
	pw := newPasswordEntry(t, "p@ss1")
	s := &Settings{Name: "main", Host: "h", Port: 1, User: "u", Database: "d", Password: pw}

	require.Contains(t, s.Redacted(), "<unprimed>")

	_, err := pw.Refresh(context.Background())
	require.NoError(t, err)
	red := s.Redacted()
	require.NotContains(t, red, "p@ss1")
	require.Contains(t, red, "p***1")
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(&Settings{Name: "main"}))

	err := r.Add(&Settings{Name: "main"})
	require.Error(t, err)
	var dup *DuplicateError
	require.True(t, errors.As(err, &dup))
	require.Equal(t, "main", dup.Name)

	got, ok := r.Get("main")
	require.True(t, ok)
	require.Equal(t, "main", got.Name)
	require.Equal(t, []string{"main"}, r.Names())
}

func TestRegistryRequiresName(t *testing.T) {
	r := NewRegistry()
	require.Error(t, r.Add(nil))
	require.Error(t, r.Add(&Settings{}))
}
