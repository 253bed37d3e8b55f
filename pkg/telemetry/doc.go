// Package telemetry provides structured logging and metrics for voltcalc.
// It wraps zerolog with component-scoped child loggers and exposes
// Prometheus counters for configuration access, backend resolution,
// and database session outcomes.
package telemetry
