package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/pulumi/events-mcp/internal/config"
)

// oauthConfig builds the x/oauth2 configuration for the Meetup endpoints.
func oauthConfig(settings *config.Settings) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     settings.MeetupClientID,
		ClientSecret: settings.MeetupClientSecret,
		RedirectURL:  settings.MeetupRedirectURI,
		Endpoint: oauth2.Endpoint{
			AuthURL:  settings.MeetupAuthEndpoint,
			TokenURL: settings.MeetupTokenEndpoint,
		},
	}
}

// AuthCodeURL returns the Meetup authorization URL to open in a browser.
func AuthCodeURL(settings *config.Settings) string {
	return oauthConfig(settings).AuthCodeURL("state")
}

// ExchangeCode exchanges an authorization code for a token response,
// suitable for TokenStore.StoreToken.
func ExchangeCode(ctx context.Context, code string, settings *config.Settings, httpClient *http.Client) (*TokenResponse, error) {
	if err := settings.RequireMeetupCredentials(); err != nil {
		return nil, err
	}
	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}

	tok, err := oauthConfig(settings).Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	expiresIn := tok.ExpiresIn
	if expiresIn == 0 && !tok.Expiry.IsZero() {
		expiresIn = int64(time.Until(tok.Expiry).Seconds())
	}
	return &TokenResponse{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}
