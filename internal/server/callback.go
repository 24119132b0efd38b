package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pulumi/events-mcp/internal/auth"
	"github.com/pulumi/events-mcp/internal/logging"
)

// CallbackPath is the route the Meetup OAuth redirect lands on.
const CallbackPath = "/auth/meetup/callback"

const callbackSuccessPage = `<!DOCTYPE html>
<html>
<head><title>Authentication complete</title></head>
<body>
<h1>Authentication complete</h1>
<p>You are now logged in to Meetup. You can close this window.</p>
</body>
</html>
`

const callbackErrorPage = `<!DOCTYPE html>
<html>
<head><title>Authentication failed</title></head>
<body>
<h1>Authentication failed</h1>
<p>%s</p>
</body>
</html>
`

// CallbackServer hosts the OAuth callback endpoint and the health probes.
// It always runs alongside the MCP server so that an interactive login
// started from any tool call has somewhere to land.
type CallbackServer struct {
	serverContext *ServerContext
	health        *HealthChecker
	httpServer    *http.Server
}

// NewCallbackServer creates the callback server for the given context.
func NewCallbackServer(sc *ServerContext, health *HealthChecker) *CallbackServer {
	return &CallbackServer{
		serverContext: sc,
		health:        health,
	}
}

// Handler returns the callback server's HTTP handler. Exposed separately
// so tests can exercise the routes without binding a port.
func (s *CallbackServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(CallbackPath, s.handleCallback)
	if s.health != nil {
		s.health.RegisterHealthEndpoints(mux)
	}
	return mux
}

// Start starts the callback server in a blocking manner.
func (s *CallbackServer) Start() error {
	addr := s.serverContext.Settings().CallbackAddr()

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	s.serverContext.Logger().Info("starting oauth callback server", "addr", addr, "path", CallbackPath)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the callback server.
func (s *CallbackServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// handleCallback completes the OAuth authorization code flow: it exchanges
// the code for tokens and persists them in the token store. The login poll
// inside the Meetup client observes the stored token and unblocks.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	logger := s.serverContext.Logger()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		logger.Warn("oauth callback returned error", logging.Platform("meetup"), "oauth_error", errParam)
		writeCallbackError(w, http.StatusBadRequest, fmt.Sprintf("Meetup reported an error: %s", errParam))
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeCallbackError(w, http.StatusBadRequest, "Missing authorization code.")
		return
	}

	resp, err := auth.ExchangeCode(r.Context(), code, s.serverContext.Settings(), s.serverContext.HTTPClient())
	if err != nil {
		logger.Error("authorization code exchange failed", logging.Platform("meetup"), logging.Err(err))
		writeCallbackError(w, http.StatusBadGateway, "Token exchange with Meetup failed.")
		return
	}

	if err := s.serverContext.TokenStore().StoreToken(resp); err != nil {
		logger.Error("failed to persist token", logging.Platform("meetup"), logging.Err(err))
		writeCallbackError(w, http.StatusInternalServerError, "Failed to store the token.")
		return
	}

	logger.Info("meetup authentication completed", logging.Platform("meetup"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, callbackSuccessPage)
}

func writeCallbackError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, callbackErrorPage, message)
}
