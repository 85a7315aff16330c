// Package auth implements the OAuth2 authorization-code flow and token lifecycle.
//
// [TokenStore] owns the persisted token record: a JSON document holding the
// access token, optional refresh token, and an absolute expiry. Validity is
// computed with a five minute safety buffer so a token is treated as expired
// slightly before the resource server would reject it.
//
// [Authenticator] orchestrates authentication end to end: cached token check,
// refresh attempt, then the full interactive flow with a loopback callback
// listener. Refresh failures are swallowed and converted into a fresh
// authorization attempt; listener and CSRF errors always propagate.
package auth
