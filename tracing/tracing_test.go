package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNoExporterIsNoop(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "")
	tp, err := NewTracerProvider(context.Background())
	require.NoError(t, err)
	require.IsType(t, &noopShutdownTracerProvider{}, tp)
	require.NoError(t, tp.Shutdown(context.Background()))
}

func TestUnknownExporter(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "jaeger")
	_, err := NewTracerProvider(context.Background())
	require.Error(t, err)

	t.Setenv("OTEL_TRACES_EXPORTER", "otlp")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "carrier-pigeon")
	_, err = NewTracerProvider(context.Background())
	require.Error(t, err)
}

func TestSpanName(t *testing.T) {
	ctx, span := Span(context.Background(), "LocalFS", "Publish")
	defer span.End()
	require.NotNil(t, ctx)
}

func TestProviderInstallsGlobally(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	t.Setenv("OTEL_TRACES_EXPORTER", "")
	tp, err := NewTracerProvider(context.Background())
	require.NoError(t, err)
	otel.SetTracerProvider(tp)
	_, span := tp.Tracer("galleryfs-cli").Start(context.Background(), "cmds.id")
	span.End()

	t.Setenv("OTEL_TRACES_EXPORTER", "otlp")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "http/protobuf")
	tp, err = NewTracerProvider(context.Background())
	require.NoError(t, err)
	require.IsType(t, &sdktrace.TracerProvider{}, tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	otel.SetTracerProvider(tp)
	require.Equal(t, tp, otel.GetTracerProvider())
}
