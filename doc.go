// Package fetchlab serves one in-memory bookstore dataset over two API
// styles so their data-fetching costs can be compared request by request.
//
// # Two strategies, one store
//
// The REST gateway (gateway/http) resolves composite reads through the eager
// strategy (fetch/eager): one store access per collection plus one per
// distinct referenced entity, always returning full entity shapes. This is
// the classic N+1, over-fetching client pattern.
//
// The GraphQL gateway (gateway/graphql) resolves documents through the
// field-selective strategy (fetch/fieldsel): one logical request per root
// field, returning only the fields the client selected, however deep the
// relations go.
//
// Both strategies report fetch.Stats, surfaced on every response as
// X-Fetch-Calls and X-Fetch-Bytes headers and exported as Prometheus
// histograms (metric). The store (store) and relation helpers (relation)
// are shared, so any cost difference between the two APIs is attributable
// to the fetch strategy alone.
//
// cmd/fetchlab runs both gateways and the metrics server; cmd/fetchlab-compare
// runs the canonical comparison scenarios in process and prints the results.
package fetchlab
