package shared

import (
	"fmt"
	"time"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrNotConfigured = fmt.Errorf("credentials not configured")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrAuthDenied       = fmt.Errorf("authorization denied")
	ErrStateMismatch    = fmt.Errorf("state parameter mismatch")
	ErrTokenExchange    = fmt.Errorf("token exchange failed")
	ErrTokenRefresh     = fmt.Errorf("token refresh failed")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrNoRefreshToken   = fmt.Errorf("no refresh token available")

	// Callback listener errors
	ErrBind            = fmt.Errorf("failed to bind callback listener")
	ErrCallbackTimeout = fmt.Errorf("callback timed out")
	ErrListenerStopped = fmt.Errorf("callback listener stopped")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// RateLimitError indicates the service returned 429. RetryAfter carries the
// server-suggested wait; no retry is performed automatically.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: retry after %s", e.RetryAfter)
}

// APIError indicates a non-2xx response outside the dedicated 401/429 cases.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: status %d", e.Status)
}
