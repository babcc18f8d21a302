package logger

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	obscontext "github.com/smallbiznis/retailbook/internal/observability/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const requestIDHeader = "X-Request-Id"

// AccessLogConfig controls the per-request access log line.
type AccessLogConfig struct {
	// Debug attaches a stack to lines for failed requests.
	Debug bool
	// Classify maps a handler error to the error_type and error_code
	// fields. Errors are logged without classification when nil.
	Classify func(err error) (errType string, errCode string)
}

// GinMiddleware assigns the request ID and writes one access log line
// once the handler chain returns.
func GinMiddleware(cfg AccessLogConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := requestIDFor(c)
		c.Header(requestIDHeader, requestID)
		c.Request = c.Request.WithContext(obscontext.WithRequestID(c.Request.Context(), requestID))

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		fields := make([]zap.Field, 0, 12)
		fields = append(fields,
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.Int64("bytes_in", max(c.Request.ContentLength, 0)),
			zap.Int("bytes_out", max(c.Writer.Size(), 0)),
		)
		if number := c.GetString("document_number"); number != "" {
			fields = append(fields, zap.String("document_number", number))
		}

		var errType string
		if last := c.Errors.Last(); last != nil {
			var errCode string
			if cfg.Classify != nil {
				errType, errCode = cfg.Classify(last.Err)
			}
			fields = append(fields, zap.String("error_type", errType), zap.String("error_code", errCode))
			if cfg.Debug {
				fields = append(fields, zap.Stack("stack"))
			}
		}

		log := FromContext(c.Request.Context())
		if ce := log.Check(accessLevel(route, status, errType), "http_request"); ce != nil {
			ce.Write(fields...)
		}
	}
}

func requestIDFor(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(requestIDHeader)); id != "" {
		return id
	}
	return uuid.NewString()
}

// accessLevel keeps health checks and rejected input out of the default
// info-level stream.
func accessLevel(route string, status int, errType string) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case route == "/health", route == "/metrics", errType == "validation_error":
		return zapcore.DebugLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}
