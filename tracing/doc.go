// Package tracing configures OpenTelemetry for galleryfs and keeps span
// names consistent.
//
// Tracing is configured through the standard environment variables:
//
//   - OTEL_TRACES_EXPORTER: a comma-separated list of exporters
//   - otlp
//   - none
//
// OTLP exporters read:
//
//   - OTEL_EXPORTER_OTLP_PROTOCOL (http/protobuf or grpc, default http/protobuf)
//   - OTEL_EXPORTER_OTLP_TRACES_PROTOCOL
//   - OTEL_EXPORTER_OTLP_ENDPOINT
//   - OTEL_EXPORTER_OTLP_HEADERS
//
// Span names follow <Component>.<Span>, e.g. LocalFS.Publish or
// Migrate.WriteRecords.
package tracing
