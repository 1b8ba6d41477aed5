package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/sidecache"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(WithBaseURL(srv.URL), WithToken("test-token"))
	require.NoError(t, err)
	return c
}

func TestFetchSecret(t *testing.T) {
	var gotPath, gotToken string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		gotToken = r.Header.Get("X-Aws-Parameters-Secrets-Token")
		w.Write([]byte(`{"SecretString":"p@ss1","Name":"db-pass"}`))
	}))

	p, err := c.Fetch(context.Background(), sidecache.Secret, "db-pass")
	require.NoError(t, err)
	require.NotNil(t, p)
	require.NotNil(t, p.SecretString)
	require.Equal(t, "p@ss1", *p.SecretString)
	require.Equal(t, "/secretsmanager/get?secretId=db-pass&withDecryption=true", gotPath)
	require.Equal(t, "test-token", gotToken)
}

func TestFetchParameter(t *testing.T) {
	var gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		w.Write([]byte(`{"Parameter":{"Name":"/my/path/param","Value":"hello","Type":"SecureString"}}`))
	}))

	p, err := c.Fetch(context.Background(), sidecache.Parameter, "/my/path/param")
	require.NoError(t, err)
	require.NotNil(t, p.Parameter)
	require.NotNil(t, p.Parameter.Value)
	require.Equal(t, "hello", *p.Parameter.Value)
	require.Equal(t, "/systemsmanager/parameters/get/?name=%2Fmy%2Fpath%2Fparam&withDecryption=true", gotPath)
}

func TestFetchNon200(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))

	p, err := c.Fetch(context.Background(), sidecache.Secret, "db-pass")
	require.Error(t, err)
	require.Nil(t, p)
}

func TestFetchBadJSON(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"SecretString":`))
	}))

	p, err := c.Fetch(context.Background(), sidecache.Secret, "db-pass")
	require.Error(t, err)
	require.Nil(t, p)
}

func TestFetchConnectionError(t *testing.T) {
	// Port from the reserved TEST-NET range: nothing listens there.
	c, err := New(
		WithBaseURL("http://127.0.0.1:1"),
		WithToken("test-token"),
		WithHTTPClient(&http.Client{Timeout: 200 * time.Millisecond}),
	)
	require.NoError(t, err)

	p, err := c.Fetch(context.Background(), sidecache.Secret, "db-pass")
	require.Error(t, err)
	require.Nil(t, p)
}

func TestNewRequiresToken(t *testing.T) {
	t.Setenv(TokenEnv, "")
	_, err := New()
	require.Error(t, err)
}

func TestNewReadsEnv(t *testing.T) {
	t.Setenv(TokenEnv, "env-token")
	t.Setenv(PortEnv, "2774")
	c, err := New()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:2774", c.base)
	require.Equal(t, "env-token", c.token)
}

func TestOptionValidation(t *testing.T) {
	_, err := New(WithToken("x"), WithPort(-1))
	require.Error(t, err)
	_, err = New(WithToken("x"), WithTimeout(0))
	require.Error(t, err)
}
