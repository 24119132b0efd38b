package group_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pulumi/events-mcp/internal/meetup"
	"github.com/pulumi/events-mcp/internal/pagination"
	"github.com/pulumi/events-mcp/internal/server"
	"github.com/pulumi/events-mcp/internal/tools/common"
)

// RegisterGroupTools registers Meetup group tools.
func RegisterGroupTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	searchGroupsTool := mcp.NewTool("meetup_search_groups",
		mcp.WithDescription("Search Meetup groups by keyword, optionally near a location"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search keywords"),
		),
		mcp.WithNumber("lat",
			mcp.Description("Latitude for location-scoped search"),
		),
		mcp.WithNumber("lon",
			mcp.Description("Longitude for location-scoped search"),
		),
		mcp.WithNumber("first",
			mcp.Description("Page size (default: 20)"),
		),
		mcp.WithString("after",
			mcp.Description("Pagination cursor from a previous page"),
		),
	)

	s.AddTool(searchGroupsTool, common.InstrumentedToolHandlerWithPlatform("meetup_search_groups", "meetup", "search_groups", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		query, err := common.RequiredString(args, "query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := sc.Meetup().SearchGroups(ctx, meetup.SearchGroupsOptions{
			Query: query,
			Lat:   common.OptionalFloat(args, "lat"),
			Lon:   common.OptionalFloat(args, "lon"),
			First: common.OptionalInt(args, "first", 0),
			After: common.OptionalString(args, "after", ""),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to search groups: %v", err)), nil
		}

		return common.JSONResult(result), nil
	}))

	getGroupTool := mcp.NewTool("meetup_get_group",
		mcp.WithDescription("Get a Meetup group by its URL name"),
		mcp.WithString("urlname",
			mcp.Required(),
			mcp.Description("The group's URL name (the slug in its meetup.com URL)"),
		),
	)

	s.AddTool(getGroupTool, common.InstrumentedToolHandlerWithPlatform("meetup_get_group", "meetup", "get_group", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		urlname, err := common.RequiredString(args, "urlname")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		group, err := sc.Meetup().GetGroup(ctx, urlname)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get group: %v", err)), nil
		}

		return common.JSONResult(group), nil
	}))

	listMyGroupsTool := mcp.NewTool("meetup_list_my_groups",
		mcp.WithDescription("List the groups the authenticated member belongs to"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of groups to return (default: all, up to the page cap)"),
		),
	)

	s.AddTool(listMyGroupsTool, common.InstrumentedToolHandlerWithPlatform("meetup_list_my_groups", "meetup", "list_my_groups", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		groups, err := sc.Meetup().ListAllMyGroups(ctx, common.OptionalInt(args, "limit", 0), pagination.DefaultMaxPages)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list groups: %v", err)), nil
		}

		return common.JSONResult(map[string]any{
			"count":  len(groups),
			"groups": groups,
		}), nil
	}))

	return nil
}
