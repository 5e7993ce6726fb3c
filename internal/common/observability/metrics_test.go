package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestNew_WithoutJaegerStillTraces(t *testing.T) {
	obs, err := New(Options{ServiceName: "credit-risk-test", ServiceVersion: "test"})
	require.NoError(t, err)
	defer obs.Shutdown()

	ctx, span := obs.StartSpan(context.Background(), "scoring.predict", attribute.String("http.method", "POST"))
	defer span.End()

	assert.True(t, span.SpanContext().IsValid())
	assert.NotNil(t, ctx)

	assert.NotPanics(t, func() {
		obs.RecordJobProcessed(ctx, "credit-risk.predict", "completed")
		obs.RecordJobDuration(ctx, "credit-risk.predict", 120*time.Millisecond, "completed")
		obs.RecordAssessment(ctx, "console", "Good")
	})
}

func TestZeroValue_IsSafe(t *testing.T) {
	var obs Observability

	assert.NotPanics(t, func() {
		_, span := obs.StartSpan(context.Background(), "noop")
		span.End()
		obs.RecordAssessment(context.Background(), "worker", "transport")
		obs.Shutdown()
	})
}
