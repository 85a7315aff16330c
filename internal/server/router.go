package server

import "net/http"

// callbackMux routes requests for the callback listener.
//
// The authorization redirect is always a GET; anything else is rejected
// without touching the handler, and unknown paths 404 so a mistyped redirect
// URI fails loudly instead of resolving the callback.
type callbackMux struct {
	mux *http.ServeMux
}

func newCallbackMux(handlers ...Handler) *callbackMux {
	m := &callbackMux{mux: http.NewServeMux()}
	for _, h := range handlers {
		for _, route := range h.Routes() {
			m.mux.Handle(route, h)
		}
	}
	return m
}

func (m *callbackMux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	m.mux.ServeHTTP(w, r)
}
