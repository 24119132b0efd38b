// Package venue_tools provides MCP tools for Meetup venues.
//
// # Available Tools
//
//   - meetup_create_venue: Create a venue for a group (write)
//
// The venue tool is only registered when the server runs with writes
// enabled (--yolo).
package venue_tools
