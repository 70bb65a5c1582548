package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// The textfile registry mirrors the OTel instruments in Prometheus exposition
// format so a batch run can leave its counters for node_exporter's textfile
// collector.
var (
	textfileRegistry = prometheus.NewRegistry()

	promQueriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "covidcol",
		Name:      "source_queries_total",
		Help:      "Remote dataset queries by shape and result.",
	}, []string{"shape", "success"})

	promQueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "covidcol",
		Name:      "source_query_duration_milliseconds",
		Help:      "Remote dataset query latency.",
		Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
	}, []string{"shape"})

	promResolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "covidcol",
		Name:      "resolutions_total",
		Help:      "Resolved case requests by outcome.",
	}, []string{"outcome"})
)

func init() {
	textfileRegistry.MustRegister(promQueriesTotal, promQueryDuration, promResolutionsTotal)
}

func recordQueryTextfile(shape string, success bool, durationMS float64) {
	promQueriesTotal.WithLabelValues(shape, strconv.FormatBool(success)).Inc()
	promQueryDuration.WithLabelValues(shape).Observe(durationMS)
}

func recordResolutionTextfile(outcome string) {
	promResolutionsTotal.WithLabelValues(outcome).Inc()
}

// WriteTextfile writes the current counters to path atomically.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, textfileRegistry)
}
