// Package metrics defines Prometheus metrics for netbox-sync. A sync run is
// a one-shot process, so the registry is dumped to a node_exporter textfile
// at the end of a run instead of being scraped.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry holds every netbox-sync collector.
var Registry = prometheus.NewRegistry()

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netbox_sync_requests_total",
			Help: "Total requests sent to NetBox",
		},
		[]string{"method", "result"},
	)

	ObjectsExported = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netbox_sync_objects_exported_total",
			Help: "Objects written to the export, by endpoint",
		},
		[]string{"endpoint"},
	)

	RowsImported = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netbox_sync_rows_imported_total",
			Help: "Rows replayed into NetBox, by endpoint and result",
		},
		[]string{"endpoint", "result"},
	)

	LastRunTimestamp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "netbox_sync_last_run_timestamp_seconds",
			Help: "Unix time the last run finished, by mode",
		},
		[]string{"mode"},
	)
)

func init() {
	Registry.MustRegister(
		RequestsTotal, ObjectsExported, RowsImported, LastRunTimestamp,
	)
}

// WriteTextfile dumps the registry in the text exposition format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
