package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulumi/events-mcp/internal/config"
)

func testSettings(t *testing.T, tokenEndpoint string) *config.Settings {
	t.Helper()
	return &config.Settings{
		MeetupClientID:      "client-id",
		MeetupClientSecret:  "client-secret",
		MeetupTokenEndpoint: tokenEndpoint,
		TokenCacheDir:       t.TempDir(),
	}
}

func writeTokenFile(t *testing.T, dir string, tok Token) {
	t.Helper()
	data, err := json.Marshal(tok)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, tokenFileName), data, 0600))
}

func TestGetAccessTokenFresh(t *testing.T) {
	var refreshCalls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "new-token", ExpiresIn: 3600})
	}))
	defer srv.Close()

	settings := testSettings(t, srv.URL)
	writeTokenFile(t, settings.TokenCacheDir, Token{
		AccessToken:  "fresh-token",
		RefreshToken: "refresh",
		ExpiresIn:    3600,
		ObtainedAt:   float64(time.Now().Unix()),
	})

	store := NewTokenStore(settings, srv.Client(), nil)
	require.True(t, store.IsAuthenticated())

	tok, err := store.GetAccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", tok)
	assert.Equal(t, int64(0), refreshCalls.Load(), "fresh token must not trigger a refresh")
}

func TestGetAccessTokenNotAuthenticated(t *testing.T) {
	settings := testSettings(t, "http://unused.invalid")
	store := NewTokenStore(settings, http.DefaultClient, nil)

	assert.False(t, store.IsAuthenticated())
	_, err := store.GetAccessToken(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestGetAccessTokenRefreshesNearExpiry(t *testing.T) {
	var refreshCalls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "old-refresh", r.Form.Get("refresh_token"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(TokenResponse{
			AccessToken:  "rotated-token",
			RefreshToken: "rotated-refresh",
			ExpiresIn:    3600,
		})
	}))
	defer srv.Close()

	settings := testSettings(t, srv.URL)
	// Within the 300s margin: obtained an hour ago with an hour of validity.
	writeTokenFile(t, settings.TokenCacheDir, Token{
		AccessToken:  "stale-token",
		RefreshToken: "old-refresh",
		ExpiresIn:    3600,
		ObtainedAt:   float64(time.Now().Add(-time.Hour).Unix()),
	})

	store := NewTokenStore(settings, srv.Client(), nil)
	tok, err := store.GetAccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "rotated-token", tok)
	assert.Equal(t, int64(1), refreshCalls.Load())
}

func TestSingleFlightRefresh(t *testing.T) {
	var refreshCalls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		// Slow response widens the window for duplicate refreshes.
		time.Sleep(50 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(TokenResponse{
			AccessToken:  "refreshed-token",
			RefreshToken: "next-refresh",
			ExpiresIn:    3600,
		})
	}))
	defer srv.Close()

	settings := testSettings(t, srv.URL)
	writeTokenFile(t, settings.TokenCacheDir, Token{
		AccessToken:  "stale-token",
		RefreshToken: "old-refresh",
		ExpiresIn:    60,
		ObtainedAt:   float64(time.Now().Add(-time.Hour).Unix()),
	})

	store := NewTokenStore(settings, srv.Client(), nil)

	const callers = 10
	var wg sync.WaitGroup
	tokens := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = store.GetAccessToken(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "refreshed-token", tokens[i], "waiters must observe the refresh result")
	}
	assert.Equal(t, int64(1), refreshCalls.Load(), "exactly one refresh under concurrent callers")
}

func TestRefreshWithoutRefreshToken(t *testing.T) {
	settings := testSettings(t, "http://unused.invalid")
	writeTokenFile(t, settings.TokenCacheDir, Token{
		AccessToken: "stale-token",
		ExpiresIn:   60,
		ObtainedAt:  float64(time.Now().Add(-time.Hour).Unix()),
	})

	store := NewTokenStore(settings, http.DefaultClient, nil)
	_, err := store.GetAccessToken(context.Background())
	assert.ErrorIs(t, err, ErrNoRefreshToken)
}

func TestRefreshFailureCarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_grant", http.StatusBadRequest)
	}))
	defer srv.Close()

	settings := testSettings(t, srv.URL)
	writeTokenFile(t, settings.TokenCacheDir, Token{
		AccessToken:  "stale-token",
		RefreshToken: "revoked",
		ExpiresIn:    60,
		ObtainedAt:   float64(time.Now().Add(-time.Hour).Unix()),
	})

	store := NewTokenStore(settings, srv.Client(), nil)
	_, err := store.GetAccessToken(context.Background())
	require.Error(t, err)

	var refreshErr *RefreshError
	require.ErrorAs(t, err, &refreshErr)
	assert.Equal(t, http.StatusBadRequest, refreshErr.Status)
	assert.Contains(t, refreshErr.Body, "invalid_grant")
}

func TestStoreTokenRoundTrip(t *testing.T) {
	settings := testSettings(t, "http://unused.invalid")
	store := NewTokenStore(settings, http.DefaultClient, nil)

	before := float64(time.Now().Unix())
	require.NoError(t, store.StoreToken(&TokenResponse{
		AccessToken:  "round-trip",
		RefreshToken: "rt",
		ExpiresIn:    7200,
	}))

	// A fresh store must load the persisted record with a locally stamped
	// obtained_at.
	reloaded := NewTokenStore(settings, http.DefaultClient, nil)
	require.True(t, reloaded.IsAuthenticated())

	tok, err := reloaded.GetAccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "round-trip", tok)

	reloaded.mu.Lock()
	rec := reloaded.token
	reloaded.mu.Unlock()
	assert.Equal(t, "rt", rec.RefreshToken)
	assert.Equal(t, int64(7200), rec.ExpiresIn)
	assert.GreaterOrEqual(t, rec.ObtainedAt, before)
}

func TestTokenFilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file permission bits are not meaningful on Windows")
	}

	settings := testSettings(t, "http://unused.invalid")
	store := NewTokenStore(settings, http.DefaultClient, nil)
	require.NoError(t, store.StoreToken(&TokenResponse{AccessToken: "secret", ExpiresIn: 3600}))

	info, err := os.Stat(filepath.Join(settings.TokenCacheDir, tokenFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestMalformedCacheFileIsNotFatal(t *testing.T) {
	settings := testSettings(t, "http://unused.invalid")
	require.NoError(t, os.WriteFile(filepath.Join(settings.TokenCacheDir, tokenFileName), []byte("{not json"), 0600))

	store := NewTokenStore(settings, http.DefaultClient, nil)
	assert.False(t, store.IsAuthenticated())

	_, err := store.GetAccessToken(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestRefreshHookObservesAttempts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "rotated", RefreshToken: "r2", ExpiresIn: 3600})
	}))
	defer srv.Close()

	settings := testSettings(t, srv.URL)
	writeTokenFile(t, settings.TokenCacheDir, Token{
		AccessToken:  "stale",
		RefreshToken: "r1",
		ExpiresIn:    3600,
		ObtainedAt:   float64(time.Now().Add(-time.Hour).Unix()),
	})

	var attempts []bool
	store := NewTokenStore(settings, srv.Client(), nil)
	store.SetRefreshHook(func(success bool) { attempts = append(attempts, success) })

	_, err := store.GetAccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, attempts)
}

func TestRefreshHookObservesFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad refresh", http.StatusBadRequest)
	}))
	defer srv.Close()

	settings := testSettings(t, srv.URL)
	writeTokenFile(t, settings.TokenCacheDir, Token{
		AccessToken:  "stale",
		RefreshToken: "r1",
		ExpiresIn:    3600,
		ObtainedAt:   float64(time.Now().Add(-time.Hour).Unix()),
	})

	var attempts []bool
	store := NewTokenStore(settings, srv.Client(), nil)
	store.SetRefreshHook(func(success bool) { attempts = append(attempts, success) })

	_, err := store.GetAccessToken(context.Background())
	require.Error(t, err)
	assert.Equal(t, []bool{false}, attempts)
}
