package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrTool      = "tool"
	attrPlatform  = "platform"
	attrOperation = "operation"
	attrResult    = "result"
)

// Result values for metric labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Metrics records observability metrics. The zero value is a no-op
// recorder, used when instrumentation is disabled.
type Metrics struct {
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	apiOperationsTotal   metric.Int64Counter
	apiOperationDuration metric.Float64Histogram

	tokenRefreshTotal metric.Int64Counter
}

// NewMetrics creates a Metrics instance with all instruments registered.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool invocation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	m.apiOperationsTotal, err = meter.Int64Counter(
		"platform_api_operations_total",
		metric.WithDescription("Total number of platform API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create platform_api_operations_total counter: %w", err)
	}

	m.apiOperationDuration, err = meter.Float64Histogram(
		"platform_api_operation_duration_seconds",
		metric.WithDescription("Platform API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create platform_api_operation_duration_seconds histogram: %w", err)
	}

	m.tokenRefreshTotal, err = meter.Int64Counter(
		"oauth_token_refresh_total",
		metric.WithDescription("Total number of OAuth token refresh attempts"),
		metric.WithUnit("{refresh}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_token_refresh_total counter: %w", err)
	}

	return m, nil
}

// RecordToolInvocation records one MCP tool call.
func (m *Metrics) RecordToolInvocation(ctx context.Context, tool string, duration time.Duration, success bool) {
	if m.toolInvocationsTotal == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrTool, tool),
		attribute.String(attrResult, resultLabel(success)),
	)
	m.toolInvocationsTotal.Add(ctx, 1, attrs)
	m.toolDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordAPIOperation records one platform API call.
func (m *Metrics) RecordAPIOperation(ctx context.Context, platform, operation string, duration time.Duration, success bool) {
	if m.apiOperationsTotal == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrPlatform, platform),
		attribute.String(attrOperation, operation),
		attribute.String(attrResult, resultLabel(success)),
	)
	m.apiOperationsTotal.Add(ctx, 1, attrs)
	m.apiOperationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordTokenRefresh records one OAuth token refresh attempt.
func (m *Metrics) RecordTokenRefresh(ctx context.Context, success bool) {
	if m.tokenRefreshTotal == nil {
		return
	}
	m.tokenRefreshTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrResult, resultLabel(success)),
	))
}

func resultLabel(success bool) string {
	if success {
		return ResultSuccess
	}
	return ResultError
}
