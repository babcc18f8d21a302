package tracing

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSafeAttributesFiltersUnknownKeys(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("http.route", "/api/products"),
		attribute.String("customer_name", "Alice"),
	)
	assert.Len(t, attrs, 1)
	assert.Equal(t, attribute.Key("http.route"), attrs[0].Key)
}

func TestSafeErrorTruncatesMultiline(t *testing.T) {
	err := SafeError(errors.New("insert failed\nINSERT INTO sale_invoices VALUES (...)"))
	require.Error(t, err)
	assert.Equal(t, "insert failed", err.Error())
	assert.Nil(t, SafeError(nil))
}

func TestGinMiddlewarePassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, err := NewProvider(nil, Config{Enabled: false}, nil)
	require.NoError(t, err)

	router := gin.New()
	router.Use(GinMiddleware())
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestGinMiddlewareNamesSpanAfterRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	router := gin.New()
	router.Use(GinMiddleware())
	router.POST("/api/sale-invoices", func(c *gin.Context) {
		c.Set("document_number", "INV-20261016-0001")
		c.Status(http.StatusOK)
	})
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/sale-invoices", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "POST /api/sale-invoices", spans[0].Name())

	var number string
	for _, attr := range spans[0].Attributes() {
		if attr.Key == "document.number" {
			number = attr.Value.AsString()
		}
	}
	assert.Equal(t, "INV-20261016-0001", number)
}
