/*
Package observability turns connection hooks into logs and metrics.

Metrics exposes prometheus collectors for handle lifetimes, reflective calls,
phase faults and HTTP requests. LoggingHooks writes the same events to a
slog.Logger, and Chain fans one event out to several hook sets.
*/
package observability
