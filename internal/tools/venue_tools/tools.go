package venue_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pulumi/events-mcp/internal/meetup"
	"github.com/pulumi/events-mcp/internal/server"
	"github.com/pulumi/events-mcp/internal/tools/common"
)

// RegisterVenueTools registers Meetup venue tools. All venue tools are
// writes, so nothing is registered in read-only mode.
func RegisterVenueTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	createVenueTool := mcp.NewTool("meetup_create_venue",
		mcp.WithDescription("Create a venue for a Meetup group"),
		mcp.WithString("groupUrlname",
			mcp.Required(),
			mcp.Description("URL name of the group the venue belongs to"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Venue name"),
		),
		mcp.WithString("address",
			mcp.Required(),
			mcp.Description("Street address"),
		),
		mcp.WithString("city",
			mcp.Required(),
			mcp.Description("City"),
		),
		mcp.WithString("state",
			mcp.Description("State or region"),
		),
		mcp.WithString("country",
			mcp.Required(),
			mcp.Description("Two-letter country code"),
		),
		mcp.WithString("postalCode",
			mcp.Description("Postal code"),
		),
		mcp.WithNumber("lat",
			mcp.Description("Latitude"),
		),
		mcp.WithNumber("lon",
			mcp.Description("Longitude"),
		),
	)

	s.AddTool(createVenueTool, common.InstrumentedToolHandlerWithPlatform("meetup_create_venue", "meetup", "create_venue", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		for _, key := range []string{"groupUrlname", "name", "address", "city", "country"} {
			if _, err := common.RequiredString(args, key); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		}

		venue, err := sc.Meetup().CreateVenue(ctx, meetup.VenueInput{
			GroupURLName: common.OptionalString(args, "groupUrlname", ""),
			Name:         common.OptionalString(args, "name", ""),
			Address:      common.OptionalString(args, "address", ""),
			City:         common.OptionalString(args, "city", ""),
			State:        common.OptionalString(args, "state", ""),
			Country:      common.OptionalString(args, "country", ""),
			PostalCode:   common.OptionalString(args, "postalCode", ""),
			Lat:          common.OptionalFloat(args, "lat"),
			Lon:          common.OptionalFloat(args, "lon"),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create venue: %v", err)), nil
		}

		return common.JSONResult(venue), nil
	}))

	return nil
}
