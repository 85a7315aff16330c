package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playback/internal/server"
	"github.com/desertthunder/playback/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"

	// DefaultFlowTimeout bounds the wait for the browser redirect.
	DefaultFlowTimeout = 5 * time.Minute
)

// Listener is the callback endpoint contract the Authenticator drives.
// Satisfied by [server.CallbackListener].
type Listener interface {
	Start() error
	Await(ctx context.Context, timeout time.Duration) (server.CallbackResult, error)
	Stop()
}

// Authenticator orchestrates the authorization-code flow:
// cached token check, refresh attempt, then the full interactive flow.
type Authenticator struct {
	config  *oauth2.Config
	tokens  *TokenStore
	logger  *log.Logger
	timeout time.Duration

	// newListener builds the single-use callback endpoint for one flow.
	newListener func() Listener

	// promptURL hands the authorization URL to the caller for display or
	// browser opening. Never nil after construction.
	promptURL func(url string)
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithTimeout overrides the redirect wait timeout.
func WithTimeout(d time.Duration) Option {
	return func(a *Authenticator) { a.timeout = d }
}

// WithListenerFactory overrides how the callback listener is constructed.
func WithListenerFactory(fn func() Listener) Option {
	return func(a *Authenticator) { a.newListener = fn }
}

// WithURLPrompt sets the hook that receives the authorization URL when the
// interactive flow starts.
func WithURLPrompt(fn func(url string)) Option {
	return func(a *Authenticator) { a.promptURL = fn }
}

// NewAuthenticator creates an Authenticator from Spotify credentials and a
// token store. Returns [shared.ErrNotConfigured] when the client id or secret
// is absent.
func NewAuthenticator(creds shared.SpotifyConfig, addr string, tokens *TokenStore, logger *log.Logger, opts ...Option) (*Authenticator, error) {
	if !creds.Configured() {
		return nil, fmt.Errorf("%w: client_id and client_secret are required", shared.ErrNotConfigured)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	config := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURI,
		Scopes:       creds.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	a := &Authenticator{
		config:      config,
		tokens:      tokens,
		logger:      logger,
		timeout:     DefaultFlowTimeout,
		newListener: func() Listener { return server.NewCallbackListener(addr, logger) },
		promptURL:   func(string) {},
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// AuthorizeURL builds the authorization URL for the given state token. The
// dialog-forcing flag is always set so the user sees the consent screen.
func (a *Authenticator) AuthorizeURL(state string) string {
	return a.config.AuthCodeURL(state, oauth2.SetAuthURLParam("show_dialog", "true"))
}

// Authenticate ensures a valid access token is available, running the cheapest
// path that works: cache, then refresh, then the full interactive flow.
func (a *Authenticator) Authenticate(ctx context.Context) error {
	if a.tokens.Valid() {
		a.logger.Debug("using cached access token")
		return nil
	}

	if a.tokens.HasRefreshToken() {
		err := a.refresh(ctx)
		if err == nil {
			return nil
		}
		// Refresh failure is recoverable: fall through to a new flow.
		a.logger.Warn("token refresh failed, starting new authorization flow", "error", err)
	}

	return a.interactiveFlow(ctx)
}

// AccessToken returns the current token only while it is valid per the token
// store. It never refreshes as a side effect.
func (a *Authenticator) AccessToken() (string, error) {
	if !a.tokens.Valid() {
		return "", shared.ErrNotAuthenticated
	}
	return a.tokens.AccessToken(), nil
}

// Tokens exposes the underlying store.
func (a *Authenticator) Tokens() *TokenStore {
	return a.tokens
}

// refresh exchanges the stored refresh token for a new access token and
// persists the result. The old refresh token is kept when the server does not
// rotate it.
func (a *Authenticator) refresh(ctx context.Context) error {
	old := &oauth2.Token{RefreshToken: a.tokens.RefreshToken()}

	token, err := a.config.TokenSource(ctx, old).Token()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTokenRefresh, err)
	}

	refreshToken := token.RefreshToken
	if refreshToken == "" {
		refreshToken = a.tokens.RefreshToken()
	}

	if err := a.tokens.Save(token.AccessToken, refreshToken, time.Until(token.Expiry)); err != nil {
		return fmt.Errorf("failed to persist refreshed tokens: %w", err)
	}

	a.logger.Info("access token refreshed")
	return nil
}

// interactiveFlow runs the browser-driven authorization-code flow.
//
// The listener is stopped on every exit path, including timeout, context
// cancellation, and errors raised before the wait.
func (a *Authenticator) interactiveFlow(ctx context.Context) error {
	state, err := shared.GenerateState()
	if err != nil {
		return err
	}

	listener := a.newListener()
	if err := listener.Start(); err != nil {
		return err
	}
	defer listener.Stop()

	a.promptURL(a.AuthorizeURL(state))

	result, err := listener.Await(ctx, a.timeout)
	if err != nil {
		return err
	}

	if result.Denied() {
		return fmt.Errorf("%w: %s", shared.ErrAuthDenied, result.Err)
	}

	if result.State != state {
		return fmt.Errorf("%w: possible CSRF attack", shared.ErrStateMismatch)
	}

	token, err := a.config.Exchange(ctx, result.Code)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTokenExchange, err)
	}

	if err := a.tokens.Save(token.AccessToken, token.RefreshToken, time.Until(token.Expiry)); err != nil {
		return fmt.Errorf("failed to persist tokens: %w", err)
	}

	a.logger.Info("authorization successful")
	return nil
}
