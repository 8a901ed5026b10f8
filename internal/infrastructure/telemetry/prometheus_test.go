package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetrics_Observe(t *testing.T) {
	m := NewHTTPMetrics()

	m.Observe(http.MethodGet, "/api/v1/admin/products", 200, 20*time.Millisecond)
	m.Observe(http.MethodGet, "/api/v1/admin/products", 200, 30*time.Millisecond)
	m.Observe(http.MethodPost, "", 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/v1/admin/products", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("POST", "unmatched", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.RequestDuration))
}

func TestHTTPMetrics_Handler(t *testing.T) {
	m := NewHTTPMetrics()
	m.ObserveError("/api/v1/geo/reverse", "UPSTREAM_UNAVAILABLE")
	m.InFlight.Inc()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `storefront_api_errors_total{code="UPSTREAM_UNAVAILABLE",route="/api/v1/geo/reverse"} 1`)
	assert.Contains(t, string(body), "storefront_http_requests_in_flight 1")
	assert.Contains(t, string(body), "go_goroutines")
}
