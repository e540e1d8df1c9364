package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	// Register should be safe to call multiple times
	Register()
	Register()

	assert.NotPanics(t, func() {
		IncHTTP("/api/services", "2xx")
		IncSubmission("booking", "received")
		IncSheetsRow("Bookings", "appended")
	})
}

func TestCatalogFallbackCounter(t *testing.T) {
	before := testutil.ToFloat64(catalogFallbacks.WithLabelValues("service"))
	IncCatalogFallback("service")
	after := testutil.ToFloat64(catalogFallbacks.WithLabelValues("service"))

	assert.Equal(t, before+1, after)
}
