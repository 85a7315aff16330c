package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/playback/internal/server"
	"github.com/desertthunder/playback/internal/shared"
)

// stubListener satisfies Listener with canned results.
type stubListener struct {
	await   func() (server.CallbackResult, error)
	started bool
	stopped bool
}

func (l *stubListener) Start() error { l.started = true; return nil }
func (l *stubListener) Stop()        { l.stopped = true }
func (l *stubListener) Await(ctx context.Context, timeout time.Duration) (server.CallbackResult, error) {
	return l.await()
}

func testCreds() shared.SpotifyConfig {
	return shared.SpotifyConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "http://127.0.0.1:8000/callback",
		Scopes:       []string{"playlist-read-private"},
	}
}

// tokenEndpoint returns a fake token server and a counter of exchange hits.
func tokenEndpoint(t *testing.T, body string) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestAuthenticator(t *testing.T, listener Listener, opts ...Option) (*Authenticator, *TokenStore) {
	t.Helper()

	store, err := NewTokenStore(filepath.Join(t.TempDir(), "tokens.json"))
	if err != nil {
		t.Fatalf("failed to create token store: %v", err)
	}

	opts = append(opts, WithListenerFactory(func() Listener { return listener }))
	a, err := NewAuthenticator(testCreds(), "127.0.0.1:8000", store, nil, opts...)
	if err != nil {
		t.Fatalf("failed to create authenticator: %v", err)
	}
	return a, store
}

func TestNewAuthenticator(t *testing.T) {
	t.Run("RequiresCredentials", func(t *testing.T) {
		store := newTestStore(t)

		_, err := NewAuthenticator(shared.SpotifyConfig{}, "127.0.0.1:8000", store, nil)
		if !errors.Is(err, shared.ErrNotConfigured) {
			t.Errorf("expected ErrNotConfigured, got %v", err)
		}
	})
}

func TestAuthorizeURL(t *testing.T) {
	a, _ := newTestAuthenticator(t, &stubListener{})

	raw := a.AuthorizeURL("state-token")
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse authorize URL: %v", err)
	}

	q := parsed.Query()
	checks := map[string]string{
		"client_id":     "client-id",
		"redirect_uri":  "http://127.0.0.1:8000/callback",
		"response_type": "code",
		"state":         "state-token",
		"show_dialog":   "true",
		"scope":         "playlist-read-private",
	}
	for key, want := range checks {
		if got := q.Get(key); got != want {
			t.Errorf("query param %s = %q, want %q", key, got, want)
		}
	}
}

func TestAuthenticate(t *testing.T) {
	t.Run("CachedTokenShortCircuits", func(t *testing.T) {
		srv, hits := tokenEndpoint(t, `{"access_token":"new","token_type":"Bearer","expires_in":3600}`)

		listener := &stubListener{await: func() (server.CallbackResult, error) {
			t.Fatal("interactive flow should not run with a valid cached token")
			return server.CallbackResult{}, nil
		}}

		a, store := newTestAuthenticator(t, listener)
		a.config.Endpoint.TokenURL = srv.URL

		if err := store.Save("cached", "refresh", time.Hour); err != nil {
			t.Fatalf("failed to seed token store: %v", err)
		}

		if err := a.Authenticate(context.Background()); err != nil {
			t.Fatalf("authenticate failed: %v", err)
		}

		if hits.Load() != 0 {
			t.Errorf("token endpoint hit %d times, want 0", hits.Load())
		}
		if store.AccessToken() != "cached" {
			t.Errorf("access token = %q, want cached", store.AccessToken())
		}
	})

	t.Run("RefreshesWithStoredRefreshToken", func(t *testing.T) {
		srv, hits := tokenEndpoint(t, `{"access_token":"refreshed","token_type":"Bearer","expires_in":3600}`)

		listener := &stubListener{await: func() (server.CallbackResult, error) {
			t.Fatal("interactive flow should not run when refresh succeeds")
			return server.CallbackResult{}, nil
		}}

		a, store := newTestAuthenticator(t, listener)
		a.config.Endpoint.TokenURL = srv.URL

		// Expired access token, refresh token available.
		if err := store.Save("stale", "refresh-1", -time.Minute); err != nil {
			t.Fatalf("failed to seed token store: %v", err)
		}

		if err := a.Authenticate(context.Background()); err != nil {
			t.Fatalf("authenticate failed: %v", err)
		}

		if hits.Load() != 1 {
			t.Errorf("token endpoint hit %d times, want 1", hits.Load())
		}
		if store.AccessToken() != "refreshed" {
			t.Errorf("access token = %q, want refreshed", store.AccessToken())
		}
		if store.RefreshToken() != "refresh-1" {
			t.Errorf("refresh token = %q, want the original kept", store.RefreshToken())
		}
	})

	t.Run("RotatesRefreshTokenWhenServerSendsOne", func(t *testing.T) {
		srv, _ := tokenEndpoint(t, `{"access_token":"refreshed","token_type":"Bearer","expires_in":3600,"refresh_token":"refresh-2"}`)

		a, store := newTestAuthenticator(t, &stubListener{})
		a.config.Endpoint.TokenURL = srv.URL

		if err := store.Save("stale", "refresh-1", -time.Minute); err != nil {
			t.Fatalf("failed to seed token store: %v", err)
		}

		if err := a.Authenticate(context.Background()); err != nil {
			t.Fatalf("authenticate failed: %v", err)
		}

		if store.RefreshToken() != "refresh-2" {
			t.Errorf("refresh token = %q, want refresh-2", store.RefreshToken())
		}
	})

	t.Run("DeniedAuthorizationNeverExchanges", func(t *testing.T) {
		srv, hits := tokenEndpoint(t, `{"access_token":"x","token_type":"Bearer","expires_in":3600}`)

		listener := &stubListener{await: func() (server.CallbackResult, error) {
			return server.CallbackResult{Err: "access_denied"}, nil
		}}

		a, store := newTestAuthenticator(t, listener)
		a.config.Endpoint.TokenURL = srv.URL

		err := a.Authenticate(context.Background())
		if !errors.Is(err, shared.ErrAuthDenied) {
			t.Errorf("expected ErrAuthDenied, got %v", err)
		}
		if hits.Load() != 0 {
			t.Errorf("token endpoint hit %d times, want 0", hits.Load())
		}
		if store.AccessToken() != "" {
			t.Error("no tokens should be stored after a denied flow")
		}
		if !listener.stopped {
			t.Error("listener should be stopped after the flow")
		}
	})

	t.Run("StateMismatchNeverExchanges", func(t *testing.T) {
		srv, hits := tokenEndpoint(t, `{"access_token":"x","token_type":"Bearer","expires_in":3600}`)

		listener := &stubListener{await: func() (server.CallbackResult, error) {
			return server.CallbackResult{Code: "auth-code", State: "forged-state"}, nil
		}}

		a, _ := newTestAuthenticator(t, listener)
		a.config.Endpoint.TokenURL = srv.URL

		err := a.Authenticate(context.Background())
		if !errors.Is(err, shared.ErrStateMismatch) {
			t.Errorf("expected ErrStateMismatch, got %v", err)
		}
		if hits.Load() != 0 {
			t.Errorf("token endpoint hit %d times, want 0", hits.Load())
		}
	})

	t.Run("FullFlowExchangesAndPersists", func(t *testing.T) {
		srv, hits := tokenEndpoint(t, `{"access_token":"granted","token_type":"Bearer","expires_in":3600,"refresh_token":"refresh-new"}`)

		var issuedState string
		listener := &stubListener{}
		listener.await = func() (server.CallbackResult, error) {
			return server.CallbackResult{Code: "auth-code", State: issuedState}, nil
		}

		a, store := newTestAuthenticator(t, listener, WithURLPrompt(func(raw string) {
			parsed, err := url.Parse(raw)
			if err != nil {
				t.Errorf("invalid authorization URL: %v", err)
				return
			}
			issuedState = parsed.Query().Get("state")
		}))
		a.config.Endpoint.TokenURL = srv.URL

		if err := a.Authenticate(context.Background()); err != nil {
			t.Fatalf("authenticate failed: %v", err)
		}

		if hits.Load() != 1 {
			t.Errorf("token endpoint hit %d times, want 1", hits.Load())
		}
		if store.AccessToken() != "granted" {
			t.Errorf("access token = %q, want granted", store.AccessToken())
		}
		if store.RefreshToken() != "refresh-new" {
			t.Errorf("refresh token = %q, want refresh-new", store.RefreshToken())
		}
		if !listener.started || !listener.stopped {
			t.Error("listener should be started and stopped exactly once")
		}
	})

	t.Run("ListenerTimeoutSurfaces", func(t *testing.T) {
		listener := &stubListener{await: func() (server.CallbackResult, error) {
			return server.CallbackResult{}, shared.ErrCallbackTimeout
		}}

		a, _ := newTestAuthenticator(t, listener)

		err := a.Authenticate(context.Background())
		if !errors.Is(err, shared.ErrCallbackTimeout) {
			t.Errorf("expected ErrCallbackTimeout, got %v", err)
		}
	})
}

func TestAccessToken(t *testing.T) {
	t.Run("ValidToken", func(t *testing.T) {
		a, store := newTestAuthenticator(t, &stubListener{})
		if err := store.Save("access", "", time.Hour); err != nil {
			t.Fatalf("failed to seed token store: %v", err)
		}

		token, err := a.AccessToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "access" {
			t.Errorf("token = %q, want access", token)
		}
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		a, store := newTestAuthenticator(t, &stubListener{})
		if err := store.Save("access", "", -time.Minute); err != nil {
			t.Fatalf("failed to seed token store: %v", err)
		}

		if _, err := a.AccessToken(); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}
