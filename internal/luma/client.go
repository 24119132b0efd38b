package luma

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pulumi/events-mcp/internal/config"
	"github.com/pulumi/events-mcp/internal/provider"
)

// apiKeyHeader carries the static Luma credential on every request.
const apiKeyHeader = "x-luma-api-key"

// ErrAPIKeyMissing is returned on first use when no API key is configured.
var ErrAPIKeyMissing = errors.New("Luma API key not configured — set PULUMI_EVENTS_LUMA_API_KEY")

// Client is the low-level REST transport for the Luma public API.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// NewClient creates a Luma REST client. A missing API key is not an error
// here; it surfaces lazily on the first call.
func NewClient(httpClient *http.Client, settings *config.Settings) *Client {
	return &Client{
		http:    httpClient,
		baseURL: settings.LumaAPIEndpoint,
		apiKey:  settings.LumaAPIKey,
	}
}

// IsAuthenticated reports whether an API key is configured.
func (c *Client) IsAuthenticated() bool {
	return c.apiKey != ""
}

// Get performs a GET request against the Luma API.
func (c *Client) Get(ctx context.Context, path string, params map[string]string) (map[string]any, error) {
	if c.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	u := c.baseURL + path
	if len(params) > 0 {
		q := url.Values{}
		for k, v := range params {
			q.Set(k, v)
		}
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build Luma request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)

	return c.do(req)
}

// Post performs a POST request with a JSON body against the Luma API.
func (c *Client) Post(ctx context.Context, path string, body map[string]any) (map[string]any, error) {
	if c.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode Luma request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build Luma request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) do(req *http.Request) (map[string]any, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Luma request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Luma response: %w", err)
	}

	if resp.StatusCode >= 400 {
		// Prefer the body's message field, fall back to the raw text.
		message := string(raw)
		var body map[string]any
		if json.Unmarshal(raw, &body) == nil {
			if msg, ok := body["message"].(string); ok && msg != "" {
				message = msg
			}
		}
		return nil, &provider.RemoteError{
			Platform: "luma",
			Status:   resp.StatusCode,
			Message:  message,
		}
	}

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode Luma response: %w", err)
	}
	return result, nil
}
