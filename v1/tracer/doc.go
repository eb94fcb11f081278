// Package tracer provides distributed tracing for the LambdaDB Go client
// using OpenTelemetry.
//
// It wraps an OpenTelemetry TracerProvider with a small API for starting
// spans, recording errors, setting attributes and propagating W3C trace
// context. *Tracer satisfies lambdadb.Tracer, so attaching it to a client
// opens one span per API operation and forwards the trace context to the
// LambdaDB service:
//
//	t, err := tracer.NewClient(tracer.Config{
//		ServiceName:  "search-api",
//		AppEnv:       "production",
//		EnableExport: true,
//	}, log)
//	if err != nil {
//		return err
//	}
//	defer t.Shutdown(context.Background())
//
//	client = client.WithTracer(t)
//
// Spans can also be created directly:
//
//	ctx, span := t.StartSpan(ctx, "reindex")
//	defer span.End()
//	t.SetAttributes(span, map[string]interface{}{"collection": "articles"})
//
// When EnableExport is set, spans are sent with the OTLP/HTTP exporter, which
// reads its endpoint from the standard OTEL_EXPORTER_OTLP_* variables unless
// Config.Endpoint is given.
package tracer
