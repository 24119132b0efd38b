package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pulumi/events-mcp/internal/pagination"
	"github.com/pulumi/events-mcp/internal/server"
)

// RegisterPlatformResources registers the platform data resources.
func RegisterPlatformResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	meetupSelf := mcp.NewResource(
		"meetup://self",
		"Meetup Profile",
		mcp.WithResourceDescription("The authenticated Meetup member's profile"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(meetupSelf, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		profile, err := sc.Meetup().GetSelf(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get Meetup profile: %w", err)
		}
		return jsonContents(request, profile)
	})

	meetupGroups := mcp.NewResource(
		"meetup://groups",
		"My Meetup Groups",
		mcp.WithResourceDescription("The groups the authenticated Meetup member belongs to"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(meetupGroups, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		groups, err := sc.Meetup().ListAllMyGroups(ctx, 0, pagination.DefaultMaxPages)
		if err != nil {
			return nil, fmt.Errorf("failed to list Meetup groups: %w", err)
		}
		return jsonContents(request, map[string]any{
			"count":  len(groups),
			"groups": groups,
		})
	})

	lumaSelf := mcp.NewResource(
		"luma://self",
		"Luma User",
		mcp.WithResourceDescription("The authenticated Luma user"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(lumaSelf, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		user, err := sc.Luma().GetSelf(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get Luma user: %w", err)
		}
		return jsonContents(request, user)
	})

	lumaEvents := mcp.NewResource(
		"luma://events",
		"Luma Events",
		mcp.WithResourceDescription("The events on the Luma calendar"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(lumaEvents, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		events, err := sc.Luma().ListAllEvents(ctx, 0, pagination.DefaultMaxPages)
		if err != nil {
			return nil, fmt.Errorf("failed to list Luma events: %w", err)
		}
		return jsonContents(request, map[string]any{
			"count":  len(events),
			"events": events,
		})
	})

	return nil
}

func jsonContents(request mcp.ReadResourceRequest, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
