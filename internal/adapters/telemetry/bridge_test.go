package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/agentup/internal/adapters/telemetry"
	"go.trai.ch/agentup/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestBridge_OnStartLogsNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	bridge := telemetry.NewBridge(mockLogger)

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "test-span")
	defer span.End()

	if rwSpan, ok := span.(sdktrace.ReadWriteSpan); ok {
		bridge.OnStart(ctx, rwSpan)
	}
}

func TestBridge_OnEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	bridge := telemetry.NewBridge(mockLogger)

	var logged []any
	mockLogger.EXPECT().Debug("phase finished", gomock.Any()).
		Do(func(_ string, args ...any) { logged = args }).
		Times(1)

	tp := sdktrace.NewTracerProvider()
	_, span := tp.Tracer("test").Start(context.Background(), "reconcile.resolve")
	span.End()

	if roSpan, ok := span.(sdktrace.ReadOnlySpan); ok {
		bridge.OnEnd(roSpan)
	}

	assert.Contains(t, logged, "span")
	assert.Contains(t, logged, "reconcile.resolve")
	assert.NotContains(t, logged, "error")
}

func TestBridge_OnEndWithError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	bridge := telemetry.NewBridge(mockLogger)

	var logged []any
	mockLogger.EXPECT().Debug("phase finished", gomock.Any()).
		Do(func(_ string, args ...any) { logged = args }).
		Times(1)

	tp := sdktrace.NewTracerProvider()
	_, span := tp.Tracer("test").Start(context.Background(), "reconcile.install")
	otelSpan := telemetry.WrapSpan(span)
	otelSpan.RecordError(errors.New("apt-get exited 100"))
	span.End()

	if roSpan, ok := span.(sdktrace.ReadOnlySpan); ok {
		bridge.OnEnd(roSpan)
	}

	assert.Contains(t, logged, "error")
	assert.Contains(t, logged, "apt-get exited 100")
}

func TestBridge_OnEndWithNilLogger(_ *testing.T) {
	bridge := telemetry.NewBridge(nil)

	tp := sdktrace.NewTracerProvider()
	_, span := tp.Tracer("test").Start(context.Background(), "test-span")
	span.End()

	if roSpan, ok := span.(sdktrace.ReadOnlySpan); ok {
		bridge.OnEnd(roSpan)
	}
}

func TestBridge_FlushAndShutdown(t *testing.T) {
	bridge := telemetry.NewBridge(nil)
	assert.NoError(t, bridge.ForceFlush(context.Background()))
	assert.NoError(t, bridge.Shutdown(context.Background()))
}
