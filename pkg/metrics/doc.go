// Package metrics defines Stride's Prometheus collectors: connected stream
// gauges, broadcast delivery counters, and API request counters/histograms.
// Collectors are registered once at init and exposed via Handler on the
// /metrics endpoint.
package metrics
