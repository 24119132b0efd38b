// Package common provides shared helpers for the MCP tool packages:
// argument extraction from tool requests, JSON result formatting, and an
// instrumented handler wrapper that records tool invocation metrics.
package common
