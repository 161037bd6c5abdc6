// Package metric exposes the cost of each fetch strategy as Prometheus
// metrics. Every resolved request reports its logical call count, serialized
// payload size, and duration, labeled by strategy and operation so the eager
// and field-selective styles can be compared side by side.
//
// The Registry owns a dedicated Prometheus registry preloaded with the core
// comparison metrics plus Go runtime collectors; gateways register their own
// vectors through the Registrar interface. Server serves the registry over
// HTTP for scraping.
//
// Instrument is the usual entry point: it wraps one strategy call, times it,
// and reports the resulting fetch.Stats in a single observation.
package metric
