// Package group_tools provides MCP tools for Meetup groups.
//
// # Available Tools
//
//   - meetup_search_groups: Search groups by keyword with an optional
//     geo filter
//   - meetup_get_group: Get a group by its URL name
//   - meetup_list_my_groups: List the groups the authenticated member
//     belongs to, walking all pages
package group_tools
