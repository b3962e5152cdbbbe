package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/agentup/internal/adapters/telemetry"
	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports"
)

func setupTracer(t *testing.T) (*tracetest.SpanRecorder, *telemetry.OTelTracer) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tracer := telemetry.NewOTelTracer(sr)
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })
	return sr, tracer
}

func TestOTelTracer_StartAppliesAttributes(t *testing.T) {
	sr, tracer := setupTracer(t)

	_, span := tracer.Start(context.Background(), "reconcile",
		ports.WithAttribute("collection", "puppet7"),
		ports.WithAttribute("stop_service", true),
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "reconcile", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("collection", "puppet7"))
	assert.Contains(t, spans[0].Attributes(), attribute.Bool("stop_service", true))
}

func TestOTelTracer_ChildSpansShareTrace(t *testing.T) {
	sr, tracer := setupTracer(t)

	ctx, parent := tracer.Start(context.Background(), "reconcile")
	_, child := tracer.Start(ctx, "reconcile.resolve")
	child.End()
	parent.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext().TraceID(), spans[0].SpanContext().TraceID())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}

func TestOTelSpan_SetAttributeTypes(t *testing.T) {
	sr, tracer := setupTracer(t)

	_, span := tracer.Start(context.Background(), "attrs")
	span.SetAttribute("s", "value")
	span.SetAttribute("i", 3)
	span.SetAttribute("i64", int64(4))
	span.SetAttribute("f", 1.5)
	span.SetAttribute("list", []string{"puppet", "pxp-agent"})
	span.SetAttribute("family", domain.FamilyWindows)
	span.SetAttribute("other", struct{ A int }{A: 1})
	span.End()

	attrs := sr.Ended()[0].Attributes()
	assert.Contains(t, attrs, attribute.String("s", "value"))
	assert.Contains(t, attrs, attribute.Int("i", 3))
	assert.Contains(t, attrs, attribute.Int64("i64", 4))
	assert.Contains(t, attrs, attribute.Float64("f", 1.5))
	assert.Contains(t, attrs, attribute.StringSlice("list", []string{"puppet", "pxp-agent"}))
	assert.Contains(t, attrs, attribute.String("family", "windows"))
	assert.Contains(t, attrs, attribute.String("other", "{1}"))
}

func TestOTelSpan_RecordError(t *testing.T) {
	sr, tracer := setupTracer(t)

	_, span := tracer.Start(context.Background(), "install")
	span.RecordError(nil)
	span.RecordError(errors.New("boom"))
	span.End()

	ended := sr.Ended()[0]
	assert.Equal(t, codes.Error, ended.Status().Code)
	assert.Equal(t, "boom", ended.Status().Description)
	assert.Len(t, ended.Events(), 1)
}

func TestNoOpTracer(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()
	ctx := context.Background()

	got, span := tracer.Start(ctx, "anything", ports.WithAttribute("k", "v"))
	assert.Equal(t, ctx, got)
	span.SetAttribute("k", "v")
	span.RecordError(errors.New("ignored"))
	span.End()
	assert.NoError(t, tracer.Shutdown(ctx))
}
