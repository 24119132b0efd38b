package instrumentation

import (
	"context"
	"testing"
	"time"
)

func newTestProvider(t *testing.T, ctx context.Context) *Provider {
	t.Helper()

	provider, err := NewProvider(ctx, Config{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Enabled:        true,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })

	return provider
}

func TestMetrics_RecordToolInvocation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider := newTestProvider(t, ctx)

	metrics := provider.Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil")
	}

	// Should not panic
	metrics.RecordToolInvocation(ctx, "meetup_get_event", 100*time.Millisecond, true)
	metrics.RecordToolInvocation(ctx, "meetup_create_event", 50*time.Millisecond, false)
}

func TestMetrics_RecordAPIOperation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider := newTestProvider(t, ctx)
	metrics := provider.Metrics()

	// Should not panic
	metrics.RecordAPIOperation(ctx, "meetup", "search_events", 200*time.Millisecond, true)
	metrics.RecordAPIOperation(ctx, "luma", "list_events", 500*time.Millisecond, false)
}

func TestMetrics_RecordTokenRefresh(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider := newTestProvider(t, ctx)
	metrics := provider.Metrics()

	// Should not panic
	metrics.RecordTokenRefresh(ctx, true)
	metrics.RecordTokenRefresh(ctx, false)
}

func TestMetrics_ZeroValueIsNoOp(t *testing.T) {
	ctx := context.Background()
	metrics := &Metrics{}

	// Should not panic with unregistered instruments
	metrics.RecordToolInvocation(ctx, "meetup_get_event", time.Second, true)
	metrics.RecordAPIOperation(ctx, "meetup", "get_self", time.Second, true)
	metrics.RecordTokenRefresh(ctx, false)
}

func TestProvider_Disabled(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{Enabled: false})
	if err != nil {
		t.Fatalf("failed to create disabled provider: %v", err)
	}

	if provider.Enabled() {
		t.Error("expected provider to be disabled")
	}
	if provider.Metrics() == nil {
		t.Error("expected metrics to be non-nil even when disabled")
	}
	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("shutdown of disabled provider failed: %v", err)
	}
}
