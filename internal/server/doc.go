// Package server provides the loopback OAuth callback listener for the CLI auth flow.
//
// [CallbackListener] binds a single-use loopback HTTP listener that captures
// exactly one authorization redirect. The first request bearing code/state or
// error query parameters resolves the result; later requests are answered with
// 200 so a retrying browser does not hang, but never alter the recorded result.
//
// The listener does not exchange tokens. It hands a [CallbackResult] to the
// orchestrating authenticator, which validates the state parameter and performs
// the code exchange.
package server
