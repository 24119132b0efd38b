package luma_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pulumi/events-mcp/internal/pagination"
	"github.com/pulumi/events-mcp/internal/server"
	"github.com/pulumi/events-mcp/internal/tools/common"
)

// eventFieldsFromArgs collects the optional Luma event fields shared by
// create and update.
func eventFieldsFromArgs(args map[string]interface{}) map[string]any {
	fields := map[string]any{}
	for argName, fieldName := range map[string]string{
		"name":        "name",
		"startAt":     "start_at",
		"endAt":       "end_at",
		"timezone":    "timezone",
		"description": "description_md",
	} {
		if v, ok := args[argName].(string); ok && v != "" {
			fields[fieldName] = v
		}
	}
	return fields
}

// RegisterLumaTools registers Luma calendar tools. Write tools are only
// registered when readOnly is false.
func RegisterLumaTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	getSelfTool := mcp.NewTool("luma_get_self",
		mcp.WithDescription("Get the authenticated Luma user"),
	)

	s.AddTool(getSelfTool, common.InstrumentedToolHandlerWithPlatform("luma_get_self", "luma", "get_self", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		user, err := sc.Luma().GetSelf(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get Luma user: %v", err)), nil
		}
		return common.JSONResult(user), nil
	}))

	listEventsTool := mcp.NewTool("luma_list_events",
		mcp.WithDescription("List events on the Luma calendar"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of events to return (default: all, up to the page cap)"),
		),
	)

	s.AddTool(listEventsTool, common.InstrumentedToolHandlerWithPlatform("luma_list_events", "luma", "list_events", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		events, err := sc.Luma().ListAllEvents(ctx, common.OptionalInt(args, "limit", 0), pagination.DefaultMaxPages)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list events: %v", err)), nil
		}

		return common.JSONResult(map[string]any{
			"count":  len(events),
			"events": events,
		}), nil
	}))

	getEventTool := mcp.NewTool("luma_get_event",
		mcp.WithDescription("Get a Luma event by its API ID"),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The event API ID"),
		),
	)

	s.AddTool(getEventTool, common.InstrumentedToolHandlerWithPlatform("luma_get_event", "luma", "get_event", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		eventID, err := common.RequiredString(args, "eventId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		event, err := sc.Luma().GetEvent(ctx, eventID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get event: %v", err)), nil
		}

		return common.JSONResult(event), nil
	}))

	listGuestsTool := mcp.NewTool("luma_list_guests",
		mcp.WithDescription("List the guests of a Luma event"),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The event API ID"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of guests to return (default: all, up to the page cap)"),
		),
	)

	s.AddTool(listGuestsTool, common.InstrumentedToolHandlerWithPlatform("luma_list_guests", "luma", "list_guests", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		eventID, err := common.RequiredString(args, "eventId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		guests, err := sc.Luma().ListAllGuests(ctx, eventID, common.OptionalInt(args, "limit", 0), pagination.DefaultMaxPages)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list guests: %v", err)), nil
		}

		return common.JSONResult(map[string]any{
			"count":  len(guests),
			"guests": guests,
		}), nil
	}))

	listPeopleTool := mcp.NewTool("luma_list_people",
		mcp.WithDescription("List people known to the Luma calendar"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of people to return (default: all, up to the page cap)"),
		),
	)

	s.AddTool(listPeopleTool, common.InstrumentedToolHandlerWithPlatform("luma_list_people", "luma", "list_people", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		people, err := sc.Luma().ListAllPeople(ctx, common.OptionalInt(args, "limit", 0), pagination.DefaultMaxPages)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list people: %v", err)), nil
		}

		return common.JSONResult(map[string]any{
			"count":  len(people),
			"people": people,
		}), nil
	}))

	if readOnly {
		return nil
	}

	createEventTool := mcp.NewTool("luma_create_event",
		mcp.WithDescription("Create a Luma event"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Event name"),
		),
		mcp.WithString("startAt",
			mcp.Required(),
			mcp.Description("Event start, ISO 8601 with offset, e.g. 2026-09-15T18:30:00Z"),
		),
		mcp.WithString("endAt",
			mcp.Description("Event end, ISO 8601 with offset"),
		),
		mcp.WithString("timezone",
			mcp.Description("IANA timezone, e.g. Europe/Berlin"),
		),
		mcp.WithString("description",
			mcp.Description("Event description in Markdown"),
		),
	)

	s.AddTool(createEventTool, common.InstrumentedToolHandlerWithPlatform("luma_create_event", "luma", "create_event", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		for _, key := range []string{"name", "startAt"} {
			if _, err := common.RequiredString(args, key); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		}

		event, err := sc.Luma().CreateEvent(ctx, eventFieldsFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create event: %v", err)), nil
		}

		return common.JSONResult(event), nil
	}))

	updateEventTool := mcp.NewTool("luma_update_event",
		mcp.WithDescription("Update a Luma event. Only the provided fields are changed."),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The event API ID"),
		),
		mcp.WithString("name",
			mcp.Description("New event name"),
		),
		mcp.WithString("startAt",
			mcp.Description("New start, ISO 8601 with offset"),
		),
		mcp.WithString("endAt",
			mcp.Description("New end, ISO 8601 with offset"),
		),
		mcp.WithString("timezone",
			mcp.Description("New IANA timezone"),
		),
		mcp.WithString("description",
			mcp.Description("New description in Markdown"),
		),
	)

	s.AddTool(updateEventTool, common.InstrumentedToolHandlerWithPlatform("luma_update_event", "luma", "update_event", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		eventID, err := common.RequiredString(args, "eventId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		event, err := sc.Luma().UpdateEvent(ctx, eventID, eventFieldsFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to update event: %v", err)), nil
		}

		return common.JSONResult(event), nil
	}))

	cancelEventTool := mcp.NewTool("luma_cancel_event",
		mcp.WithDescription("Cancel a Luma event"),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The event API ID"),
		),
	)

	s.AddTool(cancelEventTool, common.InstrumentedToolHandlerWithPlatform("luma_cancel_event", "luma", "cancel_event", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		eventID, err := common.RequiredString(args, "eventId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := sc.Luma().CancelEvent(ctx, eventID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to cancel event: %v", err)), nil
		}

		return common.JSONResult(result), nil
	}))

	return nil
}
