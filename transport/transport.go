// Package transport is the sidecar HTTP source. It issues exactly one GET
// per Fetch to the local parameters-and-secrets endpoint, authenticating
// with the process-local session token. Every failure mode — connect error,
// timeout, non-200, JSON parse error — comes back as a nil payload with an
// error, so the cache's retry loop treats them all uniformly.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/unkn0wn-root/sidecache"
	"github.com/unkn0wn-root/sidecache/internal/sanitize"
)

const (
	// DefaultPort is where the sidecar listens unless PortEnv overrides it.
	DefaultPort = 2773

	// PortEnv and TokenEnv are the environment knobs the sidecar publishes.
	PortEnv  = "PARAMETERS_SECRETS_EXTENSION_HTTP_PORT"
	TokenEnv = "AWS_SESSION_TOKEN"

	tokenHeader    = "X-Aws-Parameters-Secrets-Token"
	defaultTimeout = 10 * time.Second
)

// Client fetches payloads from the local sidecar.
type Client struct {
	base   string
	token  string
	client *http.Client
	log    sidecache.Logger
}

var _ sidecache.Source = (*Client)(nil)

type config struct {
	baseURL    string
	port       int
	token      string
	timeout    time.Duration
	httpClient *http.Client
	log        sidecache.Logger
}

// Option is a function that sets a value in a config.
type Option func(*config) error

// WithPort overrides the sidecar port.
func WithPort(port int) Option {
	return func(c *config) error {
		if port <= 0 || port > 65535 {
			return fmt.Errorf("transport: invalid port %d", port)
		}
		c.port = port
		return nil
	}
}

// WithBaseURL points the client at an arbitrary endpoint instead of
// localhost. Useful for tests and non-standard sidecar placements.
func WithBaseURL(u string) Option {
	return func(c *config) error {
		c.baseURL = u
		return nil
	}
}

// WithToken overrides the session token read from TokenEnv.
func WithToken(token string) Option {
	return func(c *config) error {
		c.token = token
		return nil
	}
}

// WithTimeout bounds each request. The cache never cancels a fetch once
// started; this timeout is the only thing that keeps one from hanging.
func WithTimeout(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return fmt.Errorf("transport: timeout must be positive")
		}
		c.timeout = d
		return nil
	}
}

// WithHTTPClient replaces the underlying client. Redirects follow net/http
// defaults. WithTimeout is ignored when a client is supplied.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) error {
		if hc != nil {
			c.httpClient = hc
		}
		return nil
	}
}

// WithLogger attaches a logger for connection-level diagnostics.
func WithLogger(l sidecache.Logger) Option {
	return func(c *config) error {
		if l != nil {
			c.log = l
		}
		return nil
	}
}

// New builds a sidecar client from the environment plus options. The session
// token is required: it is the capability credential the sidecar checks on
// every request.
func New(opts ...Option) (*Client, error) {
	cfg := config{
		port:    portFromEnv(),
		token:   os.Getenv(TokenEnv),
		timeout: defaultTimeout,
		log:     sidecache.NopLogger{},
	}
	for i, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, fmt.Errorf("transport: option %d failed: %w", i, err)
		}
	}
	if cfg.token == "" {
		return nil, fmt.Errorf("transport: session token is required (set %s or WithToken)", TokenEnv)
	}

	base := cfg.baseURL
	if base == "" {
		base = fmt.Sprintf("http://localhost:%d", cfg.port)
	}
	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	c := &Client{
		base:   base,
		token:  cfg.token,
		client: hc,
		log:    cfg.log,
	}
	c.log.Debug("transport: sidecar client ready", sidecache.Fields{
		"base":  base,
		"token": sanitize.Token(cfg.token),
	})
	return c, nil
}

func portFromEnv() int {
	if v := os.Getenv(PortEnv); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 && p <= 65535 {
			return p
		}
	}
	return DefaultPort
}

// Fetch issues one GET for the named value. It never retries; the cache owns
// the retry policy.
func (c *Client) Fetch(ctx context.Context, kind sidecache.Kind, name string) (*sidecache.Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+kind.Path(name), nil)
	if err != nil {
		return nil, fmt.Errorf("transport: build request: %w", err)
	}
	req.Header.Set(tokenHeader, c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transport: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("transport: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transport: sidecar returned %d for %s %q", resp.StatusCode, kind, name)
	}

	var p sidecache.Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("transport: decode response: %w", err)
	}
	return &p, nil
}
