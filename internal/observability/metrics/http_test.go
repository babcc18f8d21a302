package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGinMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	m, err := NewHTTPMetricsWithRegisterer(reg)
	require.NoError(t, err)

	router := gin.New()
	router.Use(GinMiddleware(m))
	router.GET("/api/products/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products/1", nil))
	}

	count := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/api/products/:id", "200"))
	assert.Equal(t, float64(2), count)
}

func TestNewHTTPMetricsReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewHTTPMetricsWithRegisterer(reg)
	require.NoError(t, err)
	second, err := NewHTTPMetricsWithRegisterer(reg)
	require.NoError(t, err)

	assert.Same(t, first.requests, second.requests)
}
