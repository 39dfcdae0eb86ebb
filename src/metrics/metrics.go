// backend/src/metrics/metrics.go
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	LinesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tradeflow_lines_total",
		Help: "Total input lines seen across all enrichment runs",
	})
	InvalidRecordsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tradeflow_invalid_records_total",
		Help: "Total lines dropped from output (validation failures and header-classified lines)",
	})
	RecordsEmittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tradeflow_records_emitted_total",
		Help: "Total enriched records written to output",
	})
	CatalogMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tradeflow_catalog_misses_total",
		Help: "Total lookups that fell back to the missing-product placeholder",
	})
	CatalogProducts = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tradeflow_catalog_products",
		Help: "Entry count of the currently published catalog snapshot",
	})
	EnrichRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tradeflow_enrich_requests_total",
		Help: "Enrichment requests by output mode and outcome",
	}, []string{"mode", "outcome"})
	RunDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tradeflow_run_duration_seconds",
		Help:    "Wall-clock duration of enrichment pipeline runs",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	})
)

func init() {
	prometheus.MustRegister(
		LinesTotal,
		InvalidRecordsTotal,
		RecordsEmittedTotal,
		CatalogMissesTotal,
		CatalogProducts,
		EnrichRequestsTotal,
		RunDurationSeconds,
	)
}
