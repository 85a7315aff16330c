// package server hosts the loopback endpoint for the authorization redirect
package server

import "net/http"

// Handler is an HTTP handler that knows which paths it serves.
type Handler interface {
	http.Handler
	Routes() []string
}
