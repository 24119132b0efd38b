package member_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pulumi/events-mcp/internal/pagination"
	"github.com/pulumi/events-mcp/internal/search"
	"github.com/pulumi/events-mcp/internal/server"
	"github.com/pulumi/events-mcp/internal/tools/common"
)

// RegisterMemberTools registers Meetup membership tools.
func RegisterMemberTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listMembersTool := mcp.NewTool("meetup_list_group_members",
		mcp.WithDescription("List the members of a Meetup group"),
		mcp.WithString("urlname",
			mcp.Required(),
			mcp.Description("The group's URL name"),
		),
		mcp.WithString("status",
			mcp.Description("Filter by membership status, e.g. ACTIVE or LEADER"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of members to return (default: all, up to the page cap)"),
		),
	)

	s.AddTool(listMembersTool, common.InstrumentedToolHandlerWithPlatform("meetup_list_group_members", "meetup", "list_group_members", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		urlname, err := common.RequiredString(args, "urlname")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		members, err := sc.Meetup().ListAllGroupMembers(ctx, urlname,
			common.OptionalString(args, "status", ""),
			common.OptionalInt(args, "limit", 0),
			pagination.DefaultMaxPages)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list members: %v", err)), nil
		}

		return common.JSONResult(map[string]any{
			"count":   len(members),
			"members": members,
		}), nil
	}))

	getMemberTool := mcp.NewTool("meetup_get_member",
		mcp.WithDescription("Look up a member within a specific Meetup group"),
		mcp.WithString("urlname",
			mcp.Required(),
			mcp.Description("The group's URL name"),
		),
		mcp.WithString("memberId",
			mcp.Required(),
			mcp.Description("The member ID to look up"),
		),
	)

	s.AddTool(getMemberTool, common.InstrumentedToolHandlerWithPlatform("meetup_get_member", "meetup", "get_member", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		urlname, err := common.RequiredString(args, "urlname")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		memberID, err := common.RequiredString(args, "memberId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		record, err := sc.Meetup().GetGroupMember(ctx, urlname, memberID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to look up member: %v", err)), nil
		}
		if record == nil {
			return mcp.NewToolResultText(fmt.Sprintf("Member %s is not in group %s.", memberID, urlname)), nil
		}

		return common.JSONResult(record), nil
	}))

	findMemberTool := mcp.NewTool("meetup_find_member",
		mcp.WithDescription("Search for a member across all groups you belong to, probing groups concurrently"),
		mcp.WithString("memberId",
			mcp.Required(),
			mcp.Description("The member ID to find"),
		),
		mcp.WithNumber("concurrency",
			mcp.Description(fmt.Sprintf("Number of groups probed in parallel (default: %d)", search.DefaultConcurrency)),
		),
	)

	s.AddTool(findMemberTool, common.InstrumentedToolHandlerWithPlatform("meetup_find_member", "meetup", "find_member", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		memberID, err := common.RequiredString(args, "memberId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := sc.Meetup().FindMemberAcrossGroups(ctx, memberID, common.OptionalInt(args, "concurrency", 0))
		if err != nil {
			var notFound *search.NotFoundError
			if errors.As(err, &notFound) {
				return mcp.NewToolResultText(err.Error()), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("Failed to find member: %v", err)), nil
		}

		return common.JSONResult(result), nil
	}))

	return nil
}
