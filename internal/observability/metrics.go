package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for format resolution and ingest.
type Metrics struct {
	FormatResolutions *prometheus.CounterVec // labels: outcome={resolved,unsupported}

	// Ingest metrics.
	RowsRead        prometheus.Counter
	RowsLoaded      prometheus.Counter
	RowErrors       prometheus.Counter
	IngestRunning   prometheus.Gauge
	BatchSize       prometheus.Histogram
	BatchLoadErrors prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.FormatResolutions,
		m.RowsRead,
		m.RowsLoaded,
		m.RowErrors,
		m.IngestRunning,
		m.BatchSize,
		m.BatchLoadErrors,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FormatResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "format_resolutions_total",
			Help:      "Climate file format resolutions by outcome.",
		}, []string{"outcome"}),
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "rows_read_total",
			Help:      "Total data rows read from climate input files.",
		}),
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "rows_loaded_total",
			Help:      "Total normalized records written to the sink.",
		}),
		RowErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "row_errors_total",
			Help:      "Total rows skipped because they could not be parsed.",
		}),
		IngestRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate_etl",
			Name:      "ingest_running",
			Help:      "1 while an input file is being ingested, 0 otherwise.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climate_etl",
			Name:      "batch_size",
			Help:      "Number of records per batch written to the sink.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchLoadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "batch_load_errors_total",
			Help:      "Total batches the sink rejected.",
		}),
	}
}
