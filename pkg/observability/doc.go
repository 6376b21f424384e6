// Package observability provides structured logging, Prometheus metrics and
// toolchain readiness checks for recipe runs.
//
// # Structured Logging
//
// Loggers write JSON through log/slog and carry fields:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stderr)
//	logger.WithField("pass_id", id).Info("starting lifecycle")
//
// The pass ID and logger travel on the context:
//
//	ctx = observability.WithPassID(ctx, id)
//	observability.FromContext(ctx).Debug("resolving requirements")
//
// # Prometheus Metrics
//
// A run records lifecycle steps and resolutions into its own registry. CI jobs
// collect the node-exporter textfile written at the end of a command:
//
//	metrics := observability.NewMetrics(nil)
//	metrics.ObserveStep("xviz", "built", time.Since(start), err)
//	metrics.WriteTextfile("/var/lib/node_exporter/recipe.prom")
//
// # Health Checks
//
// Required checks make the status unhealthy when they fail; optional ones
// only degrade it:
//
//	status := observability.NewHealthChecker(
//		observability.Check{Name: "cmake", Required: true, Run: findCMake},
//		observability.Check{Name: "git", Run: findGit},
//	).Check(ctx)
package observability
