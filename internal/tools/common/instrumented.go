package common

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pulumi/events-mcp/internal/server"
)

// InstrumentedToolHandler wraps a tool handler with invocation metrics.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(
	toolName string,
	sc *server.ServerContext,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		if metrics == nil {
			return handler(ctx, request)
		}

		start := time.Now()
		result, err := handler(ctx, request)
		duration := time.Since(start)

		success := err == nil && (result == nil || !result.IsError)
		metrics.RecordToolInvocation(ctx, toolName, duration, success)

		return result, err
	}
}

// InstrumentedToolHandlerWithPlatform is like InstrumentedToolHandler but
// also records a platform API operation metric, attributing the call to
// the platform and operation the tool wraps.
func InstrumentedToolHandlerWithPlatform(
	toolName, platform, operation string,
	sc *server.ServerContext,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		if metrics == nil {
			return handler(ctx, request)
		}

		start := time.Now()
		result, err := handler(ctx, request)
		duration := time.Since(start)

		success := err == nil && (result == nil || !result.IsError)
		metrics.RecordToolInvocation(ctx, toolName, duration, success)
		metrics.RecordAPIOperation(ctx, platform, operation, duration, success)

		return result, err
	}
}
