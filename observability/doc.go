// Package observability provides OpenTelemetry tracing setup and basic
// health reporting for authkit services.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("authkit"))
//	defer tp.Shutdown(ctx)
//
// Once the tracer provider is installed, the authentication strategies
// emit spans for their callback pipelines automatically.
//
// Health:
//
//	health := observability.NewServiceHealth("authkit", "1.0.0")
//	health.AddComponent(checker.CheckHealth(ctx))
package observability
