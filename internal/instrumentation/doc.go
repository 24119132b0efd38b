// Package instrumentation provides OpenTelemetry metrics for the MCP
// server: tool invocation counts and durations, platform API operation
// metrics, and OAuth token refresh counts, exported through the
// Prometheus reader for scraping via the metrics server.
package instrumentation
