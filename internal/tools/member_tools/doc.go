// Package member_tools provides MCP tools for Meetup group memberships.
//
// # Available Tools
//
//   - meetup_list_group_members: List a group's members, walking all pages
//   - meetup_get_member: Look up a member in a specific group
//   - meetup_find_member: Search the member across all of the caller's
//     groups concurrently
package member_tools
