// Package event_tools provides MCP tools for Meetup events.
//
// # Available Tools
//
//   - meetup_get_event: Get an event by ID
//   - meetup_create_event: Create a draft or published event (write)
//   - meetup_edit_event: Edit an existing event (write)
//   - meetup_event_action: Delete, publish, announce, or toggle RSVPs
//     on an event (write)
//
// Write tools are only registered when the server runs with writes
// enabled (--yolo).
package event_tools
