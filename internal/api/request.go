package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"capitalperf/internal/auth"
)

// ErrRateLimited marks a call abandoned because the provider kept
// throttling it through every retry.
var ErrRateLimited = errors.New("rate limit exceeded")

// AuthError is a fatal authentication failure: rejected credentials, or a
// session the provider refuses even after a fresh login. Callers should
// abort the run rather than retry.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// APIError represents an error response from the Capital.com API.
type APIError struct {
	StatusCode int
	Code       string        // provider errorCode, e.g. "error.too-many.requests"
	Body       []byte
	RetryAfter time.Duration // parsed Retry-After hint, 0 when absent
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("capital api error %d: %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("capital api error %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsRetryable returns true if the error should trigger a retry.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// IsRateLimit reports a provider throttle response.
func (e *APIError) IsRateLimit() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// newAPIError decodes the provider error payload and the retry hint.
func newAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Body:       body,
	}

	var payload struct {
		ErrorCode string `json:"errorCode"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Code = payload.ErrorCode
	}

	if hint := resp.Header.Get("Retry-After"); hint != "" {
		if secs, err := strconv.Atoi(hint); err == nil && secs > 0 {
			apiErr.RetryAfter = time.Duration(secs) * time.Second
		}
	}

	return apiErr
}

func asAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

// doRequest performs a single HTTP request with auth headers attached.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	fullURL := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, payload)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.creds.APIKey != "" {
		req.Header.Set(auth.HeaderAPIKey, c.creds.APIKey)
	}
	for k, v := range c.session.Headers() {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, newAPIError(resp, data)
	}

	return data, nil
}

// doWithRetry performs a request with exponential backoff retry. A throttle
// response with a Retry-After hint is honored for a single retry; without a
// hint the backoff schedule applies.
func (c *Client) doWithRetry(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	var lastErr error
	backoff := c.retryBackoff
	hinted := false

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Add jitter: backoff * (0.5 to 1.5)
			delay := backoff/2 + time.Duration(rand.Int63n(int64(backoff)))

			if apiErr := asAPIError(lastErr); apiErr != nil && apiErr.RetryAfter > 0 {
				if hinted {
					// The provider already told us once how long to wait
					// and throttled us again anyway. Give up on this call.
					break
				}
				hinted = true
				delay = apiErr.RetryAfter
			}

			c.logger.Debug("retrying request",
				"attempt", attempt,
				"backoff", delay,
				"path", path,
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}

			backoff *= 2
		}

		data, err := c.doRequest(ctx, method, path, query, body)
		if err == nil {
			return data, nil
		}

		lastErr = err

		apiErr := asAPIError(err)
		if apiErr == nil || !apiErr.IsRetryable() {
			return nil, err
		}
	}

	if apiErr := asAPIError(lastErr); apiErr != nil && apiErr.IsRateLimit() {
		return nil, fmt.Errorf("%w for %s: %v", ErrRateLimited, path, lastErr)
	}
	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// do runs the full outbound pipeline for a data call: ensure a live
// session, pace the request, retry transient failures, and recover once
// when the provider drops the session before our own clock does.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	if err := c.ensureSession(ctx); err != nil {
		return err
	}

	pingDue := c.pacer.wait()

	data, err := c.doWithRetry(ctx, method, path, query, body)
	if apiErr := asAPIError(err); apiErr != nil && apiErr.StatusCode == http.StatusUnauthorized {
		c.logger.Warn("session rejected by provider, re-authenticating", "path", path)
		c.session = auth.Session{}
		if err := c.ensureSession(ctx); err != nil {
			return err
		}
		// Replay without re-pacing; it is the same logical call.
		data, err = c.doWithRetry(ctx, method, path, query, body)
		if apiErr := asAPIError(err); apiErr != nil && apiErr.StatusCode == http.StatusUnauthorized {
			return &AuthError{Err: apiErr}
		}
	}

	if pingDue {
		c.keepAlive(ctx)
	}

	if err != nil {
		return err
	}
	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// get performs a GET data call.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, result)
}
