package search_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pulumi/events-mcp/internal/meetup"
	"github.com/pulumi/events-mcp/internal/server"
	"github.com/pulumi/events-mcp/internal/tools/common"
)

// parseRoles splits a comma-separated role list into a slice.
func parseRoles(roles string) []string {
	var out []string
	for _, r := range strings.Split(roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// RegisterSearchTools registers Meetup search tools.
func RegisterSearchTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	searchEventsTool := mcp.NewTool("meetup_search_events",
		mcp.WithDescription("Search public Meetup events near a location"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search keywords"),
		),
		mcp.WithNumber("lat",
			mcp.Required(),
			mcp.Description("Latitude to search around"),
		),
		mcp.WithNumber("lon",
			mcp.Required(),
			mcp.Description("Longitude to search around"),
		),
		mcp.WithString("startDate",
			mcp.Description("Earliest event date, ISO 8601"),
		),
		mcp.WithString("endDate",
			mcp.Description("Latest event date, ISO 8601"),
		),
		mcp.WithString("eventType",
			mcp.Description("PHYSICAL or ONLINE"),
		),
		mcp.WithNumber("first",
			mcp.Description("Page size (default: 20)"),
		),
		mcp.WithString("after",
			mcp.Description("Pagination cursor from a previous page"),
		),
	)

	s.AddTool(searchEventsTool, common.InstrumentedToolHandlerWithPlatform("meetup_search_events", "meetup", "search_events", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		query, err := common.RequiredString(args, "query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		lat := common.OptionalFloat(args, "lat")
		lon := common.OptionalFloat(args, "lon")
		if lat == nil || lon == nil {
			return mcp.NewToolResultError("lat and lon are required"), nil
		}

		result, err := sc.Meetup().SearchEvents(ctx, meetup.SearchEventsOptions{
			Query:     query,
			Lat:       *lat,
			Lon:       *lon,
			StartDate: common.OptionalString(args, "startDate", ""),
			EndDate:   common.OptionalString(args, "endDate", ""),
			EventType: common.OptionalString(args, "eventType", ""),
			First:     common.OptionalInt(args, "first", 0),
			After:     common.OptionalString(args, "after", ""),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to search events: %v", err)), nil
		}

		return common.JSONResult(result), nil
	}))

	networkSearchTool := mcp.NewTool("meetup_network_search",
		mcp.WithDescription("Search a Meetup Pro network's events, groups, or members"),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("What to search: events, groups, or members"),
		),
		mcp.WithString("urlname",
			mcp.Description("Pro network URL name (defaults to the configured network)"),
		),
		mcp.WithString("query",
			mcp.Description("Search keywords"),
		),
		mcp.WithString("roles",
			mcp.Description("Member search only: comma-separated roles, e.g. ORGANIZER,CO_ORGANIZER"),
		),
		mcp.WithNumber("eventsAttendedMin",
			mcp.Description("Member search only: minimum events attended"),
		),
		mcp.WithString("sort",
			mcp.Description("Member search only: sort field"),
		),
		mcp.WithBoolean("desc",
			mcp.Description("Member search only: sort descending"),
		),
		mcp.WithNumber("first",
			mcp.Description("Page size (default: 20)"),
		),
		mcp.WithString("after",
			mcp.Description("Pagination cursor from a previous page"),
		),
	)

	s.AddTool(networkSearchTool, common.InstrumentedToolHandlerWithPlatform("meetup_network_search", "meetup", "network_search", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		searchType, err := common.RequiredString(args, "type")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		urlname := common.OptionalString(args, "urlname", sc.Settings().MeetupProNetworkURLName)
		if urlname == "" {
			return mcp.NewToolResultError("urlname is required (no default Pro network configured)"), nil
		}

		result, err := sc.Meetup().NetworkSearch(ctx, urlname, meetup.NetworkSearchOptions{
			Type:              searchType,
			Query:             common.OptionalString(args, "query", ""),
			Roles:             parseRoles(common.OptionalString(args, "roles", "")),
			EventsAttendedMin: common.OptionalInt(args, "eventsAttendedMin", 0),
			Sort:              common.OptionalString(args, "sort", ""),
			Desc:              common.OptionalBool(args, "desc", false),
			First:             common.OptionalInt(args, "first", 0),
			After:             common.OptionalString(args, "after", ""),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to search network: %v", err)), nil
		}

		return common.JSONResult(result), nil
	}))

	return nil
}
