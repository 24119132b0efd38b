package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pulumi/events-mcp/internal/config"
)

const (
	// tokenFileName is the single token cache file per installation.
	tokenFileName = "meetup_token.json"

	// refreshMargin is how long before actual expiry a token is
	// considered stale and refreshed.
	refreshMargin = 300 * time.Second
)

// ErrNotAuthenticated is returned when no token is cached at all.
var ErrNotAuthenticated = errors.New("not authenticated with Meetup — run meetup_login first")

// ErrNoRefreshToken is returned when a refresh is needed but the cached
// record has no refresh token.
var ErrNoRefreshToken = errors.New("no refresh token available — re-authenticate with meetup_login")

// RefreshError indicates the token endpoint rejected a refresh request.
type RefreshError struct {
	Status int
	Body   string
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("token refresh failed (%d): %s", e.Status, e.Body)
}

// PersistenceError indicates the token cache file could not be written.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist token cache to %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Token is the persisted token record. ObtainedAt is stamped locally at
// store time and never taken from a backend response.
type Token struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token,omitempty"`
	ExpiresIn    int64   `json:"expires_in"`
	ObtainedAt   float64 `json:"obtained_at"`
}

// TokenResponse is the JSON shape returned by the OAuth token endpoint for
// both the authorization-code and refresh-token grants.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in"`
}

// TokenStore is a file-backed OAuth2 token cache with automatic refresh.
// The zero token state (not authenticated) is valid; a store always
// constructs successfully even if the cache file is missing or corrupt.
type TokenStore struct {
	settings *config.Settings
	http     *http.Client
	logger   *slog.Logger
	path     string

	// mu linearizes all read-check-refresh-return sequences.
	mu    sync.Mutex
	token *Token

	// has mirrors token presence for lock-free IsAuthenticated checks,
	// so the login poll loop never blocks behind an in-flight refresh.
	has atomic.Bool

	// now is a clock hook for tests.
	now func() time.Time

	// onRefresh, when set, observes every refresh attempt.
	onRefresh func(success bool)
}

// NewTokenStore creates a store and attempts to load the cached token.
// A missing or unreadable cache file is logged and treated as "no token" —
// it never fails construction.
func NewTokenStore(settings *config.Settings, httpClient *http.Client, logger *slog.Logger) *TokenStore {
	if logger == nil {
		logger = slog.Default()
	}
	s := &TokenStore{
		settings: settings,
		http:     httpClient,
		logger:   logger,
		path:     filepath.Join(settings.TokenCacheDir, tokenFileName),
		now:      time.Now,
	}
	s.loadFromDisk()
	return s
}

// SetRefreshHook installs an observer called after every refresh attempt,
// used to feed refresh metrics. Must be set before the store is shared.
func (s *TokenStore) SetRefreshHook(hook func(success bool)) {
	s.onRefresh = hook
}

// IsAuthenticated reports whether a token record is held. The record may
// still be expired; expiry is handled by GetAccessToken.
func (s *TokenStore) IsAuthenticated() bool {
	return s.has.Load()
}

// GetAccessToken returns a valid access token, refreshing it first when it
// is within the safety margin of expiry. Returns ErrNotAuthenticated when
// no token is cached.
func (s *TokenStore) GetAccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == nil {
		return "", ErrNotAuthenticated
	}
	if s.expiredLocked() {
		if err := s.refreshLocked(ctx); err != nil {
			return "", err
		}
	}
	return s.token.AccessToken, nil
}

// StoreToken replaces the cached record with a fresh token response,
// stamping obtained_at, and persists it. The response is authoritative: a
// rotated refresh token replaces the old one, an omitted one drops it.
func (s *TokenStore) StoreToken(resp *TokenResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storeLocked(resp)
}

func (s *TokenStore) storeLocked(resp *TokenResponse) error {
	s.token = &Token{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		ObtainedAt:   float64(s.now().UnixNano()) / float64(time.Second),
	}
	s.has.Store(true)

	if err := s.saveToDisk(); err != nil {
		return err
	}
	s.logger.Info("Meetup token cached", slog.String("path", s.path))
	return nil
}

func (s *TokenStore) expiredLocked() bool {
	expiry := s.token.ObtainedAt + float64(s.token.ExpiresIn)
	now := float64(s.now().UnixNano()) / float64(time.Second)
	return now >= expiry-refreshMargin.Seconds()
}

// refreshLocked issues a refresh-token grant and stores the response.
// Callers must hold s.mu.
func (s *TokenStore) refreshLocked(ctx context.Context) error {
	err := s.doRefreshLocked(ctx)
	if s.onRefresh != nil {
		s.onRefresh(err == nil)
	}
	return err
}

func (s *TokenStore) doRefreshLocked(ctx context.Context) error {
	if s.token.RefreshToken == "" {
		return ErrNoRefreshToken
	}

	form := url.Values{
		"client_id":     {s.settings.MeetupClientID},
		"client_secret": {s.settings.MeetupClientSecret},
		"grant_type":    {"refresh_token"},
		"refresh_token": {s.token.RefreshToken},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.settings.MeetupTokenEndpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RefreshError{Status: resp.StatusCode, Body: string(body)}
	}

	var tr TokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if err := s.storeLocked(&tr); err != nil {
		return err
	}
	s.logger.Info("Meetup token refreshed")
	return nil
}

func (s *TokenStore) loadFromDisk() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("could not read token cache", slog.String("path", s.path), slog.Any("error", err))
		}
		return
	}

	var tok Token
	if err := json.Unmarshal(data, &tok); err != nil {
		s.logger.Warn("could not parse token cache", slog.String("path", s.path), slog.Any("error", err))
		return
	}
	s.token = &tok
	s.has.Store(true)
}

func (s *TokenStore) saveToDisk() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}

	data, err := json.MarshalIndent(s.token, "", "  ")
	if err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}

	// Full-file replace, then tighten permissions — the file holds secrets.
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}
	if err := os.Chmod(s.path, 0600); err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}
	return nil
}
