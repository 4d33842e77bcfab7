package otel

import (
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

var Tracer = otel.Tracer(
	"store",
	trace.WithInstrumentationAttributes(semconv.ServiceNameKey.String("store")),
)
