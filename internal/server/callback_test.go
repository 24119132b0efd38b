package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulumi/events-mcp/internal/config"
)

func testSettings(t *testing.T, tokenEndpoint string) *config.Settings {
	t.Helper()
	return &config.Settings{
		MeetupClientID:      "client-id",
		MeetupClientSecret:  "client-secret",
		MeetupAuthEndpoint:  "https://example.com/authorize",
		MeetupTokenEndpoint: tokenEndpoint,
		MeetupRedirectURI:   "http://127.0.0.1:8080" + CallbackPath,
		LumaAPIEndpoint:     "https://example.com/luma",
		TokenCacheDir:       t.TempDir(),
		ServerHost:          "127.0.0.1",
		ServerPort:          8080,
	}
}

func testServerContext(t *testing.T, tokenEndpoint string) *ServerContext {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sc, err := NewServerContext(context.Background(), testSettings(t, tokenEndpoint), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	return sc
}

func TestCallbackExchangesCodeAndStoresToken(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
		assert.Equal(t, "test-code", r.Form.Get("code"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "fresh-access",
			"refresh_token": "fresh-refresh",
			"expires_in":    3600,
			"token_type":    "bearer",
		})
	}))
	defer tokenServer.Close()

	sc := testServerContext(t, tokenServer.URL)
	cb := NewCallbackServer(sc, NewHealthChecker(sc))

	req := httptest.NewRequest(http.MethodGet, CallbackPath+"?code=test-code", nil)
	rec := httptest.NewRecorder()
	cb.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authentication complete")
	assert.True(t, sc.TokenStore().IsAuthenticated())
}

func TestCallbackReportsProviderError(t *testing.T) {
	sc := testServerContext(t, "http://127.0.0.1:0")
	cb := NewCallbackServer(sc, nil)

	req := httptest.NewRequest(http.MethodGet, CallbackPath+"?error=access_denied", nil)
	rec := httptest.NewRecorder()
	cb.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "access_denied")
	assert.False(t, sc.TokenStore().IsAuthenticated())
}

func TestCallbackRequiresCode(t *testing.T) {
	sc := testServerContext(t, "http://127.0.0.1:0")
	cb := NewCallbackServer(sc, nil)

	req := httptest.NewRequest(http.MethodGet, CallbackPath, nil)
	rec := httptest.NewRecorder()
	cb.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing authorization code")
}

func TestCallbackExchangeFailure(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer tokenServer.Close()

	sc := testServerContext(t, tokenServer.URL)
	cb := NewCallbackServer(sc, nil)

	req := httptest.NewRequest(http.MethodGet, CallbackPath+"?code=bad-code", nil)
	rec := httptest.NewRecorder()
	cb.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.False(t, sc.TokenStore().IsAuthenticated())
}

func TestCallbackServerServesHealthEndpoints(t *testing.T) {
	sc := testServerContext(t, "http://127.0.0.1:0")
	cb := NewCallbackServer(sc, NewHealthChecker(sc))
	handler := cb.Handler()

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.True(t, strings.Contains(rec.Body.String(), "ok"), path)
	}
}
