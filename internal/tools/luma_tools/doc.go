// Package luma_tools provides MCP tools for the Luma calendar API.
//
// # Available Tools
//
//   - luma_get_self: Get the authenticated Luma user
//   - luma_list_events: List events on the calendar, walking all pages
//   - luma_get_event: Get an event by its API ID
//   - luma_create_event: Create an event (write)
//   - luma_update_event: Update an event (write)
//   - luma_cancel_event: Cancel an event (write)
//   - luma_list_guests: List an event's guests, walking all pages
//   - luma_list_people: List people known to the calendar
//
// Write tools are only registered when the server runs with writes
// enabled (--yolo). All tools require PULUMI_EVENTS_LUMA_API_KEY.
package luma_tools
