// Package auth provides Capital.com API credentials and session token state.
package auth

import (
	"fmt"
	"time"
)

// SessionTTL is how long the provider honors a session before it must be
// re-established.
const SessionTTL = 10 * time.Minute

// Header names used by the Capital.com API.
const (
	HeaderAPIKey        = "X-CAP-API-KEY"
	HeaderCST           = "CST"
	HeaderSecurityToken = "X-SECURITY-TOKEN"
)

// Credentials holds the API key and account login used to open sessions.
type Credentials struct {
	APIKey     string // API key from the Capital.com dashboard
	Identifier string // account login, usually an email address
	Password   string // account or API-key password
}

// Validate checks that every field required for a session is present.
func (c Credentials) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API key is required")
	}
	if c.Identifier == "" {
		return fmt.Errorf("identifier is required")
	}
	if c.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// Session is an authenticated provider session: the two opaque tokens
// issued at login plus the time they were issued. Tokens are replayed
// verbatim on every request; the provider invalidates them after
// SessionTTL of age.
type Session struct {
	CST           string // account token, from the CST response header
	SecurityToken string // session token, from the X-SECURITY-TOKEN response header
	CreatedAt     time.Time
}

// Valid reports whether both tokens are present.
func (s Session) Valid() bool {
	return s.CST != "" && s.SecurityToken != ""
}

// Expired reports whether the session has reached the given age limit at
// time now. A session without tokens is always expired.
func (s Session) Expired(now time.Time, ttl time.Duration) bool {
	return !s.Valid() || now.Sub(s.CreatedAt) >= ttl
}

// Headers returns the request headers that authenticate a session call,
// or nil when there is no usable session.
func (s Session) Headers() map[string]string {
	if !s.Valid() {
		return nil
	}
	return map[string]string{
		HeaderCST:           s.CST,
		HeaderSecurityToken: s.SecurityToken,
	}
}
