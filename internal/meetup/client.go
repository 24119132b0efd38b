package meetup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/pulumi/events-mcp/internal/auth"
	"github.com/pulumi/events-mcp/internal/config"
	"github.com/pulumi/events-mcp/internal/provider"
)

const (
	// authPollInterval is how often the login flow checks whether the
	// OAuth callback has stored a token.
	authPollInterval = time.Second

	// authTimeout is how long the login flow waits for the browser
	// authorization to complete.
	authTimeout = 120 * time.Second
)

// LoginTimeoutError indicates the interactive login did not complete in time.
type LoginTimeoutError struct {
	Elapsed time.Duration
}

func (e *LoginTimeoutError) Error() string {
	return fmt.Sprintf("Meetup login timed out after %s — please try again", e.Elapsed.Truncate(time.Second))
}

// graphQLResponse is the wire shape of every GraphQL response.
type graphQLResponse struct {
	Data   map[string]any          `json:"data"`
	Errors []provider.GraphQLError `json:"errors"`
}

// Client is the low-level GraphQL transport for Meetup. Every call obtains
// a bearer token from the token store first, triggering the browser login
// flow when no token is cached.
type Client struct {
	http     *http.Client
	store    *auth.TokenStore
	settings *config.Settings
	logger   *slog.Logger

	// openBrowser launches the authorization URL; injectable for tests.
	openBrowser func(url string) error

	pollInterval time.Duration
	loginTimeout time.Duration
}

// NewClient creates a Meetup GraphQL client.
func NewClient(httpClient *http.Client, store *auth.TokenStore, settings *config.Settings, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:         httpClient,
		store:        store,
		settings:     settings,
		logger:       logger,
		openBrowser:  openBrowser,
		pollInterval: authPollInterval,
		loginTimeout: authTimeout,
	}
}

// IsAuthenticated reports whether a Meetup token is cached.
func (c *Client) IsAuthenticated() bool {
	return c.store.IsAuthenticated()
}

// ensureAuthenticated returns a valid access token, kicking off the
// browser login flow when none is cached: open the authorization URL,
// then poll the store until the callback route saves a token.
func (c *Client) ensureAuthenticated(ctx context.Context) (string, error) {
	tok, err := c.store.GetAccessToken(ctx)
	if err == nil {
		return tok, nil
	}
	if !errors.Is(err, auth.ErrNotAuthenticated) {
		return "", err
	}

	c.logger.Info("not authenticated with Meetup — opening browser for login")
	url := auth.AuthCodeURL(c.settings)
	if openErr := c.openBrowser(url); openErr != nil {
		c.logger.Warn("could not open browser — open the URL manually",
			slog.String("url", url), slog.Any("error", openErr))
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	deadline := time.NewTimer(c.loginTimeout)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-deadline.C:
			return "", &LoginTimeoutError{Elapsed: c.loginTimeout}
		case <-ticker.C:
			if c.store.IsAuthenticated() {
				return c.store.GetAccessToken(ctx)
			}
		}
	}
}

// Execute runs a GraphQL query or mutation and returns the data object.
// A response carrying an errors array is a failure even on HTTP 200.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any) (map[string]any, error) {
	token, err := c.ensureAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{"query": query}
	if len(variables) > 0 {
		payload["variables"] = variables
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode GraphQL request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.settings.MeetupGraphQLEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build GraphQL request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Meetup request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Meetup response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, &provider.RemoteError{
			Platform: "meetup",
			Status:   resp.StatusCode,
			Message:  string(raw),
		}
	}

	var gql graphQLResponse
	if err := json.Unmarshal(raw, &gql); err != nil {
		return nil, fmt.Errorf("failed to decode Meetup response: %w", err)
	}
	if len(gql.Errors) > 0 {
		return nil, &provider.RemoteError{
			Platform: "meetup",
			Message:  provider.JoinMessages(gql.Errors),
			Errors:   gql.Errors,
		}
	}
	return gql.Data, nil
}

// openBrowser launches the system browser on the given URL.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
