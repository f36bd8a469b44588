package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"capitalperf/internal/auth"
)

// sessionRequest is the login payload for POST /session.
type sessionRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// CreateSession authenticates with the provider and stores the returned
// session tokens. The tokens arrive as response headers, not in the body.
// Any failure here is an AuthError; nothing else works without a session.
func (c *Client) CreateSession(ctx context.Context) error {
	if err := c.creds.Validate(); err != nil {
		return &AuthError{Err: err}
	}

	c.session = auth.Session{}

	payload, err := json.Marshal(sessionRequest{
		Identifier: c.creds.Identifier,
		Password:   c.creds.Password,
	})
	if err != nil {
		return &AuthError{Err: fmt.Errorf("encode session request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiPrefix+"/session", bytes.NewReader(payload))
	if err != nil {
		return &AuthError{Err: fmt.Errorf("create session request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(auth.HeaderAPIKey, c.creds.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &AuthError{Err: fmt.Errorf("session request: %w", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &AuthError{Err: fmt.Errorf("read session response: %w", err)}
	}
	if resp.StatusCode >= 400 {
		return &AuthError{Err: newAPIError(resp, data)}
	}

	session := auth.Session{
		CST:           resp.Header.Get(auth.HeaderCST),
		SecurityToken: resp.Header.Get(auth.HeaderSecurityToken),
		CreatedAt:     c.now(),
	}
	if !session.Valid() {
		return &AuthError{Err: fmt.Errorf("session response missing %s or %s header",
			auth.HeaderCST, auth.HeaderSecurityToken)}
	}

	c.session = session
	c.logger.Info("session created", "identifier", c.creds.Identifier)
	return nil
}

// ensureSession guarantees a usable session before an outbound call,
// re-authenticating when the stored one is absent or past its TTL.
func (c *Client) ensureSession(ctx context.Context) error {
	if !c.session.Expired(c.now(), c.sessionTTL) {
		return nil
	}
	if c.session.Valid() {
		c.logger.Info("session expired, re-authenticating",
			"age", c.now().Sub(c.session.CreatedAt))
	}
	return c.CreateSession(ctx)
}

// Ping issues the keep-alive call that resets the provider's idle timer.
// It does not count toward the pacer's call tally.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.ensureSession(ctx); err != nil {
		return err
	}
	if _, err := c.doRequest(ctx, http.MethodGet, "/ping", nil, nil); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// keepAlive pings quietly: failures are logged, never propagated, so a
// flaky ping cannot fail the data call that triggered it.
func (c *Client) keepAlive(ctx context.Context) {
	if err := c.Ping(ctx); err != nil {
		c.logger.Warn("keep-alive ping failed", "error", err)
		return
	}
	c.logger.Debug("keep-alive ping sent", "calls", c.pacer.calls)
}

// Logout destroys the current session on the provider side. Safe to call
// without a session.
func (c *Client) Logout(ctx context.Context) error {
	if !c.session.Valid() {
		return nil
	}
	_, err := c.doRequest(ctx, http.MethodDelete, "/session", nil, nil)
	c.session = auth.Session{}
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	c.logger.Info("session closed")
	return nil
}
