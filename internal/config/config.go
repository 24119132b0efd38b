package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment variable prefix for all settings.
const envPrefix = "PULUMI_EVENTS_"

// Default endpoints for the supported platforms.
const (
	DefaultMeetupGraphQLEndpoint = "https://api.meetup.com/gql-ext"
	DefaultMeetupAuthEndpoint    = "https://secure.meetup.com/oauth2/authorize"
	DefaultMeetupTokenEndpoint   = "https://secure.meetup.com/oauth2/access"
	DefaultLumaAPIEndpoint       = "https://public-api.luma.com/v1"
)

// ConfigurationError indicates a missing or invalid setting.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s (%s)", e.Setting, e.Reason)
}

// Settings holds all runtime configuration, loaded from PULUMI_EVENTS_*
// environment variables with sensible defaults for the public endpoints.
type Settings struct {
	MeetupClientID     string
	MeetupClientSecret string

	MeetupGraphQLEndpoint string
	MeetupAuthEndpoint    string
	MeetupTokenEndpoint   string
	MeetupRedirectURI     string

	// MeetupProNetworkURLName is the default Pro network for network search.
	MeetupProNetworkURLName string

	LumaAPIKey      string
	LumaAPIEndpoint string

	// TokenCacheDir is where the Meetup OAuth token file lives.
	TokenCacheDir string

	ServerHost string
	ServerPort int
}

// Load reads settings from the environment, applying defaults.
// Credentials are intentionally not validated here — missing credentials
// surface lazily on first use so the server can start unauthenticated.
func Load() *Settings {
	s := &Settings{
		MeetupClientID:          getenv("MEETUP_CLIENT_ID", ""),
		MeetupClientSecret:      getenv("MEETUP_CLIENT_SECRET", ""),
		MeetupGraphQLEndpoint:   getenv("MEETUP_GRAPHQL_ENDPOINT", DefaultMeetupGraphQLEndpoint),
		MeetupAuthEndpoint:      getenv("MEETUP_AUTH_ENDPOINT", DefaultMeetupAuthEndpoint),
		MeetupTokenEndpoint:     getenv("MEETUP_TOKEN_ENDPOINT", DefaultMeetupTokenEndpoint),
		MeetupRedirectURI:       getenv("MEETUP_REDIRECT_URI", ""),
		MeetupProNetworkURLName: getenv("MEETUP_PRO_NETWORK_URLNAME", ""),
		LumaAPIKey:              getenv("LUMA_API_KEY", ""),
		LumaAPIEndpoint:         getenv("LUMA_API_ENDPOINT", DefaultLumaAPIEndpoint),
		TokenCacheDir:           getenv("TOKEN_CACHE_DIR", ""),
		ServerHost:              getenv("SERVER_HOST", "127.0.0.1"),
		ServerPort:              8080,
	}

	if port := getenv("SERVER_PORT", ""); port != "" {
		var p int
		if _, err := fmt.Sscanf(port, "%d", &p); err == nil && p > 0 {
			s.ServerPort = p
		}
	}

	if s.TokenCacheDir == "" {
		s.TokenCacheDir = defaultCacheDir()
	}
	if s.MeetupRedirectURI == "" {
		s.MeetupRedirectURI = fmt.Sprintf("http://%s:%d/auth/meetup/callback", s.ServerHost, s.ServerPort)
	}

	return s
}

// RequireMeetupCredentials returns an error if the Meetup OAuth client
// credentials are not configured.
func (s *Settings) RequireMeetupCredentials() error {
	if s.MeetupClientID == "" {
		return &ConfigurationError{Setting: envPrefix + "MEETUP_CLIENT_ID", Reason: "not set"}
	}
	if s.MeetupClientSecret == "" {
		return &ConfigurationError{Setting: envPrefix + "MEETUP_CLIENT_SECRET", Reason: "not set"}
	}
	return nil
}

// CallbackAddr returns the listen address for the OAuth callback server.
func (s *Settings) CallbackAddr() string {
	return fmt.Sprintf("%s:%d", s.ServerHost, s.ServerPort)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(envPrefix + key); v != "" {
		return v
	}
	return fallback
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "pulumi-events")
	}
	return filepath.Join(home, ".config", "pulumi-events")
}
