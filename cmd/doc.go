// Package cmd implements the command-line interface for events-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server exposing Meetup and Luma tools
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
