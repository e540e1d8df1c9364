package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pictiv"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status class.",
		},
		[]string{"route", "code"},
	)

	submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Booking and inquiry submissions by outcome.",
		},
		[]string{"kind", "outcome"},
	)

	catalogFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_fallbacks_total",
			Help:      "Catalog reads answered from built-in data.",
		},
		[]string{"catalog"},
	)

	sheetsRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sheets_rows_total",
			Help:      "Rows mirrored to Google Sheets by outcome.",
		},
		[]string{"sheet", "outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, submissions, catalogFallbacks, sheetsRows)
	})
}

// IncHTTP counts a served request. code is the status class, e.g. "2xx".
func IncHTTP(route, code string) {
	httpRequests.WithLabelValues(route, code).Inc()
}

func IncSubmission(kind, outcome string) {
	submissions.WithLabelValues(kind, outcome).Inc()
}

func IncCatalogFallback(catalog string) {
	catalogFallbacks.WithLabelValues(catalog).Inc()
}

func IncSheetsRow(sheet, outcome string) {
	sheetsRows.WithLabelValues(sheet, outcome).Inc()
}
