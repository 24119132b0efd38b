// Package resources provides MCP resources exposing read-only platform
// data: the authenticated profiles and the calendars and groups they can
// see. Resources complement the tools by giving MCP clients cheap,
// parameterless context fetches.
package resources
