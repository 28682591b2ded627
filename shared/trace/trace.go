package trace

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"io"
	"os"
)

const tracerName = "tryon"

// InitTrace installs a global tracer provider. Spans are printed to stdout
// only when stdout is true; otherwise they are exported nowhere locally and
// still propagate ids to logs.
func InitTrace(stdout bool) *sdktrace.TracerProvider {
	var w io.Writer = io.Discard
	if stdout {
		w = os.Stdout
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		panic("Failed to create trace exporter")
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)

	return tp
}

func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}
