// Package search_tools provides MCP tools for Meetup-wide search.
//
// # Available Tools
//
//   - meetup_search_events: Keyword search over public events near a
//     location, with optional date-range and type filters
//   - meetup_network_search: Search a Meetup Pro network's events,
//     groups, or members
package search_tools
