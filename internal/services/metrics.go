// Package services – Prometheus instrumentation
//
// Domain counters for the ingestion, search, and broadcast paths. HTTP
// traffic is instrumented separately in the middleware package; the
// collectors here track business events dashboards and the reconciliation
// job care about. All collectors are safe for concurrent use.
package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// recordsCreated counts catalog rows created from channel posts.
	recordsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_records_created_total",
			Help: "Total catalog records created from library channel posts.",
		},
	)

	// ingestDuplicates counts posts skipped because the post ID was seen before.
	ingestDuplicates = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_ingest_duplicates_total",
			Help: "Channel posts skipped as duplicates during ingestion.",
		},
	)

	// indexWriteFailures counts index mirrors that failed after a successful
	// catalog insert. Such records stay invisible to search until an external
	// reconciliation job repairs the index.
	indexWriteFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_index_write_failures_total",
			Help: "Search index writes that failed after the catalog insert succeeded.",
		},
	)

	// searchesServed counts queries answered from the hosted index.
	searchesServed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "searches_served_total",
			Help: "Total search queries forwarded to the hosted index.",
		},
	)

	// broadcastDeliveries counts per-recipient broadcast outcomes.
	broadcastDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_deliveries_total",
			Help: "Broadcast delivery attempts by outcome.",
		},
		[]string{"outcome"}, // sent | blocked | failed
	)
)

func init() {
	prometheus.MustRegister(recordsCreated, ingestDuplicates, indexWriteFailures, searchesServed, broadcastDeliveries)
}
