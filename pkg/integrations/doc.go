// Package integrations provides shared HTTP plumbing for the external
// services the operator talks to: the crates.io registry and the GitHub
// API.
//
// The base [Client] handles JSON requests, response caching, status-code
// classification, and retry wrapping. Service-specific clients embed it:
//
//   - crates: registry queries and crate publishing
//   - github: pull-request lookup for release detection
//
// # Error Classification
//
// HTTP status codes map to a small set of errors so callers can make
// retry decisions without inspecting responses:
//
//   - 404 -> ErrNotFound
//   - 401/403 -> ErrUnauthorized (never retried)
//   - 429 -> retryable RateLimitedError
//   - 5xx -> retryable ErrNetwork
//   - other non-2xx -> ErrNetwork
//
// Retryable errors are wrapped with httputil.RetryableError; everything
// else fails fast.
package integrations
