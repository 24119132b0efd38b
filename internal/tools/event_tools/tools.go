package event_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pulumi/events-mcp/internal/meetup"
	"github.com/pulumi/events-mcp/internal/server"
	"github.com/pulumi/events-mcp/internal/tools/common"
)

// eventInputFromArgs builds an event input from shared create/edit arguments.
func eventInputFromArgs(args map[string]interface{}) meetup.EventInput {
	return meetup.EventInput{
		GroupURLName:  common.OptionalString(args, "groupUrlname", ""),
		Title:         common.OptionalString(args, "title", ""),
		Description:   common.OptionalString(args, "description", ""),
		StartDateTime: common.OptionalString(args, "startDateTime", ""),
		Duration:      common.OptionalString(args, "duration", ""),
		VenueID:       common.OptionalString(args, "venueId", ""),
		RSVPLimit:     common.OptionalInt(args, "rsvpLimit", 0),
		PublishStatus: common.OptionalString(args, "publishStatus", ""),
	}
}

// RegisterEventTools registers Meetup event tools. Write tools are only
// registered when readOnly is false.
func RegisterEventTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	getEventTool := mcp.NewTool("meetup_get_event",
		mcp.WithDescription("Get a Meetup event by ID"),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The event ID"),
		),
	)

	s.AddTool(getEventTool, common.InstrumentedToolHandlerWithPlatform("meetup_get_event", "meetup", "get_event", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		eventID, err := common.RequiredString(args, "eventId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		event, err := sc.Meetup().GetEvent(ctx, eventID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get event: %v", err)), nil
		}

		return common.JSONResult(event), nil
	}))

	if readOnly {
		return nil
	}

	createEventTool := mcp.NewTool("meetup_create_event",
		mcp.WithDescription("Create a Meetup event in a group"),
		mcp.WithString("groupUrlname",
			mcp.Required(),
			mcp.Description("URL name of the group the event belongs to"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Event title"),
		),
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
		mcp.WithString("startDateTime",
			mcp.Required(),
			mcp.Description("Event start in ISO 8601 local time, e.g. 2026-09-15T18:30"),
		),
		mcp.WithString("duration",
			mcp.Description("Event duration in ISO 8601 form, e.g. PT2H"),
		),
		mcp.WithString("venueId",
			mcp.Description("Venue ID to attach to the event"),
		),
		mcp.WithNumber("rsvpLimit",
			mcp.Description("Maximum number of RSVPs"),
		),
		mcp.WithString("publishStatus",
			mcp.Description("DRAFT or PUBLISHED (default: DRAFT)"),
		),
	)

	s.AddTool(createEventTool, common.InstrumentedToolHandlerWithPlatform("meetup_create_event", "meetup", "create_event", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		for _, key := range []string{"groupUrlname", "title", "startDateTime"} {
			if _, err := common.RequiredString(args, key); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		}

		event, err := sc.Meetup().CreateEvent(ctx, eventInputFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create event: %v", err)), nil
		}

		return common.JSONResult(event), nil
	}))

	editEventTool := mcp.NewTool("meetup_edit_event",
		mcp.WithDescription("Edit an existing Meetup event. Only the provided fields are changed."),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The event ID to edit"),
		),
		mcp.WithString("title",
			mcp.Description("New event title"),
		),
		mcp.WithString("description",
			mcp.Description("New event description"),
		),
		mcp.WithString("startDateTime",
			mcp.Description("New start time in ISO 8601 local time"),
		),
		mcp.WithString("duration",
			mcp.Description("New duration in ISO 8601 form"),
		),
		mcp.WithString("venueId",
			mcp.Description("New venue ID"),
		),
		mcp.WithNumber("rsvpLimit",
			mcp.Description("New RSVP limit"),
		),
	)

	s.AddTool(editEventTool, common.InstrumentedToolHandlerWithPlatform("meetup_edit_event", "meetup", "edit_event", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		eventID, err := common.RequiredString(args, "eventId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		event, err := sc.Meetup().EditEvent(ctx, eventID, eventInputFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to edit event: %v", err)), nil
		}

		return common.JSONResult(event), nil
	}))

	eventActionTool := mcp.NewTool("meetup_event_action",
		mcp.WithDescription("Perform a lifecycle action on a Meetup event: delete, publish, announce, close_rsvps, or open_rsvps"),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The event ID"),
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("One of: delete, publish, announce, close_rsvps, open_rsvps"),
		),
	)

	s.AddTool(eventActionTool, common.InstrumentedToolHandlerWithPlatform("meetup_event_action", "meetup", "event_action", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		eventID, err := common.RequiredString(args, "eventId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		action, err := common.RequiredString(args, "action")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := sc.Meetup().EventAction(ctx, eventID, action)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to %s event: %v", action, err)), nil
		}

		return common.JSONResult(result), nil
	}))

	return nil
}
