// Package logging provides structured logging helpers built on log/slog:
// consistent attribute keys, attribute constructors, and setup for the
// server process. In stdio transport mode logs go to stderr so stdout
// stays reserved for the MCP protocol stream.
package logging
