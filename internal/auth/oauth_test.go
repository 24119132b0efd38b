package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulumi/events-mcp/internal/config"
)

func TestAuthCodeURL(t *testing.T) {
	settings := &config.Settings{
		MeetupClientID:     "abc123",
		MeetupAuthEndpoint: "https://secure.meetup.com/oauth2/authorize",
		MeetupRedirectURI:  "http://127.0.0.1:8080/auth/meetup/callback",
	}

	raw := AuthCodeURL(settings)
	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "secure.meetup.com", parsed.Host)
	q := parsed.Query()
	assert.Equal(t, "abc123", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "http://127.0.0.1:8080/auth/meetup/callback", q.Get("redirect_uri"))
}

func TestExchangeCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
		assert.Equal(t, "the-code", r.Form.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "exchanged",
			"refresh_token": "refresh",
			"expires_in":    3600,
		})
	}))
	defer srv.Close()

	settings := &config.Settings{
		MeetupClientID:      "id",
		MeetupClientSecret:  "secret",
		MeetupTokenEndpoint: srv.URL,
		MeetupRedirectURI:   "http://127.0.0.1:8080/auth/meetup/callback",
	}

	resp, err := ExchangeCode(context.Background(), "the-code", settings, srv.Client())
	require.NoError(t, err)
	assert.Equal(t, "exchanged", resp.AccessToken)
	assert.Equal(t, "refresh", resp.RefreshToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
}

func TestExchangeCodeRequiresCredentials(t *testing.T) {
	settings := &config.Settings{}
	_, err := ExchangeCode(context.Background(), "code", settings, nil)
	require.Error(t, err)

	var confErr *config.ConfigurationError
	assert.ErrorAs(t, err, &confErr)
}
