package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/leads/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, path := range []string{"/api/leads/1", "/api/leads/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/leads/:id", "204")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
}

func TestObserveFetch(t *testing.T) {
	m := New()
	m.ObserveFetch(FetchOK, 120)
	m.ObserveFetch(FetchError, 0)

	require.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues(FetchOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues(FetchError)))
	require.Equal(t, 120.0, testutil.ToFloat64(m.leads))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveFetch(FetchFallback, 7)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `leadboard_lead_fetches_total{result="fallback"} 1`)
	require.Contains(t, w.Body.String(), "leadboard_leads_in_snapshot 7")
}
