// Package metrics registers the server's Prometheus collectors. Counters
// are package-level and shared by the receiver, the store sweep, and the
// alert engine; the process exposes them at GET /metrics.
package metrics
