package metrics

import "github.com/prometheus/client_golang/prometheus"

// String catalogue Prometheus metrics.
var (
	StringsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "strdex",
			Name:      "strings_created_total",
			Help:      "Create attempts by outcome",
		},
		[]string{"status"}, // created / duplicate / invalid / error
	)

	StringsDeletedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "strdex",
			Name:      "strings_deleted_total",
			Help:      "Delete attempts by outcome",
		},
		[]string{"status"}, // deleted / not_found / error
	)

	StringQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "strdex",
			Name:      "string_queries_total",
			Help:      "Filtered listings by kind and outcome",
		},
		[]string{"kind", "status"},
	)

	StringQueryResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "strdex",
			Name:      "string_query_results",
			Help:      "Number of records returned per filtered listing",
			Buckets:   []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
		},
		[]string{"kind"},
	)
)

// Query kinds.
const (
	KindList            = "list"
	KindNaturalLanguage = "natural_language"
)

var domainMetricsRegistered bool

// RegisterDomainMetrics registers the string catalogue metrics. Must be called once from main.
func RegisterDomainMetrics() {
	if domainMetricsRegistered {
		return
	}
	prometheus.MustRegister(StringsCreatedTotal)
	prometheus.MustRegister(StringsDeletedTotal)
	prometheus.MustRegister(StringQueriesTotal)
	prometheus.MustRegister(StringQueryResults)
	domainMetricsRegistered = true
}
