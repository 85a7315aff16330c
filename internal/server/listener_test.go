package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/desertthunder/playback/internal/shared"
)

func TestCallbackHandler(t *testing.T) {
	t.Run("RecordsCodeAndState", func(t *testing.T) {
		h := NewCallbackHandler()

		req := httptest.NewRequest(http.MethodGet, "/callback?code=auth-code&state=state-1", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}

		select {
		case result := <-h.Result():
			if result.Code != "auth-code" || result.State != "state-1" {
				t.Errorf("result = %+v, want code auth-code and state state-1", result)
			}
			if result.Denied() {
				t.Error("result should not be denied")
			}
		default:
			t.Fatal("result channel should hold the redirect outcome")
		}
	})

	t.Run("RecordsError", func(t *testing.T) {
		h := NewCallbackHandler()

		req := httptest.NewRequest(http.MethodGet, "/callback?error=access_denied", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}

		result := <-h.Result()
		if !result.Denied() || result.Err != "access_denied" {
			t.Errorf("result = %+v, want denied with access_denied", result)
		}
	})

	t.Run("MissingParamsDoesNotResolve", func(t *testing.T) {
		h := NewCallbackHandler()

		req := httptest.NewRequest(http.MethodGet, "/callback", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}

		select {
		case <-h.Result():
			t.Error("a redirect without code or error should not resolve the slot")
		default:
		}

		// A later valid redirect still resolves.
		req = httptest.NewRequest(http.MethodGet, "/callback?code=late-code&state=s", nil)
		h.ServeHTTP(httptest.NewRecorder(), req)

		result := <-h.Result()
		if result.Code != "late-code" {
			t.Errorf("result code = %q, want late-code", result.Code)
		}
	})

	t.Run("FirstWriterWins", func(t *testing.T) {
		h := NewCallbackHandler()

		first := httptest.NewRequest(http.MethodGet, "/callback?code=first&state=s1", nil)
		h.ServeHTTP(httptest.NewRecorder(), first)

		second := httptest.NewRequest(http.MethodGet, "/callback?code=second&state=s2", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, second)

		// Late redirects are acknowledged, not errored, so a retrying
		// browser gets a friendly page.
		if rec.Code != http.StatusOK {
			t.Errorf("late redirect status = %d, want %d", rec.Code, http.StatusOK)
		}

		result := <-h.Result()
		if result.Code != "first" || result.State != "s1" {
			t.Errorf("result = %+v, want the first redirect's values", result)
		}
	})
}

// freePort grabs an ephemeral loopback port for listener tests.
func freePort(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find a free port: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

func TestCallbackListener(t *testing.T) {
	t.Run("ReceivesRedirect", func(t *testing.T) {
		addr := freePort(t)
		l := NewCallbackListener(addr, nil)
		if err := l.Start(); err != nil {
			t.Fatalf("failed to start listener: %v", err)
		}
		defer l.Stop()

		resp, err := http.Get(fmt.Sprintf("http://%s%s?code=auth-code&state=s", addr, CallbackPath))
		if err != nil {
			t.Fatalf("redirect request failed: %v", err)
		}
		resp.Body.Close()

		result, err := l.Await(context.Background(), time.Second)
		if err != nil {
			t.Fatalf("await failed: %v", err)
		}
		if result.Code != "auth-code" || result.State != "s" {
			t.Errorf("result = %+v, want code auth-code and state s", result)
		}
	})

	t.Run("Timeout", func(t *testing.T) {
		addr := freePort(t)
		l := NewCallbackListener(addr, nil)
		if err := l.Start(); err != nil {
			t.Fatalf("failed to start listener: %v", err)
		}
		defer l.Stop()

		_, err := l.Await(context.Background(), 50*time.Millisecond)
		if !errors.Is(err, shared.ErrCallbackTimeout) {
			t.Errorf("expected ErrCallbackTimeout, got %v", err)
		}
	})

	t.Run("ContextCancellation", func(t *testing.T) {
		addr := freePort(t)
		l := NewCallbackListener(addr, nil)
		if err := l.Start(); err != nil {
			t.Fatalf("failed to start listener: %v", err)
		}
		defer l.Stop()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := l.Await(ctx, time.Second)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("OccupiedPort", func(t *testing.T) {
		addr := freePort(t)
		first := NewCallbackListener(addr, nil)
		if err := first.Start(); err != nil {
			t.Fatalf("failed to start first listener: %v", err)
		}
		defer first.Stop()

		second := NewCallbackListener(addr, nil)
		if err := second.Start(); !errors.Is(err, shared.ErrBind) {
			t.Errorf("expected ErrBind for occupied port, got %v", err)
		}
	})

	t.Run("RestartOnSamePort", func(t *testing.T) {
		addr := freePort(t)

		first := NewCallbackListener(addr, nil)
		if err := first.Start(); err != nil {
			t.Fatalf("failed to start first listener: %v", err)
		}
		first.Stop()

		second := NewCallbackListener(addr, nil)
		if err := second.Start(); err != nil {
			t.Fatalf("port should be free after stop, got %v", err)
		}
		second.Stop()
	})

	t.Run("StopBeforeStart", func(t *testing.T) {
		l := NewCallbackListener(freePort(t), nil)
		l.Stop()
	})

	t.Run("StopIsIdempotent", func(t *testing.T) {
		l := NewCallbackListener(freePort(t), nil)
		if err := l.Start(); err != nil {
			t.Fatalf("failed to start listener: %v", err)
		}
		l.Stop()
		l.Stop()
	})
}
