package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/agentup/internal/core/ports"
)

// Bridge implements sdktrace.SpanProcessor to surface finished spans as debug logs.
type Bridge struct {
	logger ports.Logger
}

// NewBridge returns a new Bridge.
func NewBridge(logger ports.Logger) *Bridge {
	return &Bridge{
		logger: logger,
	}
}

// OnStart does nothing; only completed phases are logged.
func (b *Bridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd is called when a span ends.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	args := []any{
		"span", s.Name(),
		"duration", s.EndTime().Sub(s.StartTime()).String(),
	}
	for _, kv := range s.Attributes() {
		args = append(args, string(kv.Key), kv.Value.Emit())
	}
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "phase failed"
		}
		args = append(args, "error", desc)
	}

	b.logger.Debug("phase finished", args...)
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}
