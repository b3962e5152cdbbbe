package telemetry

import "go.opentelemetry.io/otel/trace"

// WrapSpan exposes OTelSpan construction to tests.
func WrapSpan(span trace.Span) *OTelSpan {
	return &OTelSpan{span: span}
}
