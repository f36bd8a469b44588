// Package api provides the Capital.com REST API client.
//
// REST endpoints (prefix /api/v1):
//   - Live: https://api-capital.backend-capital.com
//   - Demo: https://demo-api-capital.backend-capital.com
//
// Authentication is session based. POST /session returns two opaque tokens
// in the CST and X-SECURITY-TOKEN response headers; every later call sends
// them back as request headers. Sessions lapse after ten minutes, so the
// client tracks token age and re-authenticates transparently.
//
// The client also paces itself to the provider's throttling rules: a
// minimum delay between consecutive requests and a keep-alive ping every
// twenty data calls. Calls are meant to be issued from a single goroutine;
// the analyzer sweep is sequential and the client does no locking.
package api
