package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playback/internal/shared"
)

// CallbackPath is the loopback path the authorization redirect lands on.
const CallbackPath = "/callback"

// CallbackResult holds the outcome of exactly one authorization redirect:
// either a code/state pair or the service's error string.
type CallbackResult struct {
	Code  string
	State string
	Err   string
}

// Denied reports whether the redirect carried an error parameter.
func (r CallbackResult) Denied() bool {
	return r.Err != ""
}

// CallbackHandler records the first authorization redirect.
//
// The result is a single-assignment slot: the first request bearing code/state
// or error resolves it, later requests are acknowledged with 200 so a retrying
// browser does not hang, but the recorded result never changes.
type CallbackHandler struct {
	resultChan chan CallbackResult
	once       sync.Once
	mu         sync.Mutex
	resolved   bool
}

// NewCallbackHandler creates a handler with an unresolved result slot.
func NewCallbackHandler() *CallbackHandler {
	return &CallbackHandler{
		resultChan: make(chan CallbackResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{CallbackPath}
}

// ServeHTTP handles the authorization redirect.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	h.mu.Lock()
	alreadyResolved := h.resolved
	if !alreadyResolved && (query.Has("code") || query.Has("error")) {
		h.resolved = true
	}
	h.mu.Unlock()

	if alreadyResolved {
		writePage(w, http.StatusOK, "Already processed", "This authorization was already handled. You can close this window.")
		return
	}

	if errParam := query.Get("error"); errParam != "" {
		h.send(CallbackResult{Err: errParam})
		writePage(w, http.StatusBadRequest, "Authorization failed", "There was an error during authorization. Please return to the terminal and try again.")
		return
	}

	if code := query.Get("code"); code != "" {
		h.send(CallbackResult{Code: code, State: query.Get("state")})
		writePage(w, http.StatusOK, "Authorization successful", "You can close this window and return to the terminal.")
		return
	}

	writePage(w, http.StatusBadRequest, "Missing authorization response", "The redirect did not include a code or error parameter.")
}

// send resolves the result slot (only once).
func (h *CallbackHandler) send(result CallbackResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the channel carrying the one recorded result.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.resultChan
}

func writePage(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>%s</title></head>
<body style="font-family: -apple-system, sans-serif; text-align: center; padding: 4rem;">
<h1 style="color: #1DB954;">%s</h1>
<p>%s</p>
</body>
</html>
`, title, title, message)
}

// CallbackListener is a single-use loopback HTTP endpoint for one
// authorization redirect.
//
// Lifecycle: NewCallbackListener → Start → Await → Stop. Stop is idempotent and
// safe to call on every exit path, including before Start.
type CallbackListener struct {
	addr     string
	handler  *CallbackHandler
	srv      *http.Server
	ln       net.Listener
	serveErr chan error
	stopOnce sync.Once
	logger   *log.Logger
}

// NewCallbackListener creates a listener for the given host:port address.
func NewCallbackListener(addr string, logger *log.Logger) *CallbackListener {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	handler := NewCallbackHandler()

	return &CallbackListener{
		addr:     addr,
		handler:  handler,
		srv:      &http.Server{Addr: addr, Handler: newCallbackMux(handler)},
		serveErr: make(chan error, 1),
		logger:   logger,
	}
}

// Start binds the loopback port and begins serving in a background goroutine.
//
// Binding happens synchronously so an occupied port surfaces immediately as
// [shared.ErrBind].
func (l *CallbackListener) Start() error {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrBind, err)
	}
	l.ln = ln

	go func() {
		l.logger.Debug("callback listener started", "addr", l.addr)
		if err := l.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			l.serveErr <- err
		}
	}()

	return nil
}

// Await blocks until the redirect is received, the timeout elapses, or ctx is
// cancelled.
func (l *CallbackListener) Await(ctx context.Context, timeout time.Duration) (CallbackResult, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result, ok := <-l.handler.Result():
		if !ok {
			return CallbackResult{}, shared.ErrListenerStopped
		}
		return result, nil
	case err := <-l.serveErr:
		return CallbackResult{}, fmt.Errorf("%w: %v", shared.ErrListenerStopped, err)
	case <-timer.C:
		return CallbackResult{}, shared.ErrCallbackTimeout
	case <-ctx.Done():
		return CallbackResult{}, ctx.Err()
	}
}

// Stop shuts the listener down and releases the port. Idempotent; safe before
// Start and after a failed Start.
func (l *CallbackListener) Stop() {
	l.stopOnce.Do(func() {
		if l.ln == nil {
			return
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := l.srv.Shutdown(shutdownCtx); err != nil {
			l.logger.Warn("error shutting down callback listener", "error", err)
		}
		l.logger.Debug("callback listener stopped", "addr", l.addr)
	})
}
