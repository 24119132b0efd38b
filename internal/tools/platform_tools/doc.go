// Package platform_tools provides MCP tools for platform discovery and
// authentication.
//
// # Available Tools
//
//   - list_platforms: List the registered event platforms, their
//     capabilities, and their authentication state
//   - meetup_login: Start the Meetup OAuth login flow
package platform_tools
