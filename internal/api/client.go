package api

import (
	"log/slog"
	"net/http"
	"time"

	"capitalperf/internal/auth"
)

const apiPrefix = "/api/v1"

// Client provides access to the Capital.com REST API.
type Client struct {
	baseURL    string
	creds      auth.Credentials
	httpClient *http.Client
	logger     *slog.Logger

	session    auth.Session
	sessionTTL time.Duration
	now        func() time.Time

	pacer *pacer

	maxRetries   int
	retryBackoff time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client for the given environment.
func NewClient(baseURL string, creds auth.Credentials, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		creds:   creds,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:       slog.Default(),
		sessionTTL:   auth.SessionTTL,
		now:          time.Now,
		pacer:        newPacer(defaultRequestDelay, defaultPingEvery),
		maxRetries:   3,
		retryBackoff: time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry configuration.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRequestDelay sets the minimum delay between consecutive requests.
func WithRequestDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.pacer.minInterval = d
	}
}

// WithPingEvery sets how many data calls pass between keep-alive pings.
func WithPingEvery(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.pacer.pingEvery = n
		}
	}
}

// WithSessionTTL overrides how long the client trusts a session before
// re-authenticating.
func WithSessionTTL(d time.Duration) ClientOption {
	return func(c *Client) {
		c.sessionTTL = d
	}
}

// Session returns a copy of the current session state.
func (c *Client) Session() auth.Session {
	return c.session
}
