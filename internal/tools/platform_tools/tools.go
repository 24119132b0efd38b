package platform_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pulumi/events-mcp/internal/auth"
	"github.com/pulumi/events-mcp/internal/server"
	"github.com/pulumi/events-mcp/internal/tools/common"
)

// RegisterPlatformTools registers platform discovery and login tools.
func RegisterPlatformTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listPlatformsTool := mcp.NewTool("list_platforms",
		mcp.WithDescription("List the available event platforms, their capabilities, and whether they are authenticated"),
	)

	s.AddTool(listPlatformsTool, common.InstrumentedToolHandler("list_platforms", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		platforms := make([]map[string]any, 0)
		for _, p := range sc.Registry().All() {
			platforms = append(platforms, map[string]any{
				"name":          p.Name(),
				"capabilities":  p.Capabilities().Sorted(),
				"authenticated": p.IsAuthenticated(),
			})
		}
		return common.JSONResult(map[string]any{"platforms": platforms}), nil
	}))

	loginTool := mcp.NewTool("meetup_login",
		mcp.WithDescription("Start the Meetup OAuth login flow. Returns the authorization URL to open in a browser; the local callback server completes the flow."),
	)

	s.AddTool(loginTool, common.InstrumentedToolHandler("meetup_login", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		settings := sc.Settings()
		if err := settings.RequireMeetupCredentials(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if sc.TokenStore().IsAuthenticated() {
			return mcp.NewToolResultText("Already authenticated with Meetup."), nil
		}

		url := auth.AuthCodeURL(settings)
		return mcp.NewToolResultText(fmt.Sprintf(`Open this URL in your browser to log in to Meetup:

%s

After you approve access, Meetup redirects to %s and the login completes automatically.`, url, settings.MeetupRedirectURI)), nil
	}))

	return nil
}
