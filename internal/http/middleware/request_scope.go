package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/work-platform-backend/internal/http/response"
	"github.com/yungbote/work-platform-backend/internal/platform/ctxutil"
	"github.com/yungbote/work-platform-backend/internal/platform/logger"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"
)

// requestScope is what a request touches: the project in :id and any basket_id query values.
type requestScope struct {
	projectID string
	basketIDs []string
}

func scopeOf(c *gin.Context) requestScope {
	var s requestScope
	if strings.HasPrefix(c.FullPath(), "/api/projects/:id") {
		if id, err := uuid.Parse(c.Param("id")); err == nil {
			s.projectID = id.String()
		}
	}
	for _, raw := range c.QueryArray("basket_id") {
		for _, part := range strings.Split(raw, ",") {
			if id, err := uuid.Parse(strings.TrimSpace(part)); err == nil {
				s.basketIDs = append(s.basketIDs, id.String())
			}
		}
	}
	return s
}

// RequestScope assigns trace and request ids, tags the active span with the
// project and baskets in scope, and logs one line per request once it finishes.
func RequestScope(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		td := traceDataFor(c)
		scope := scopeOf(c)

		span := trace.SpanFromContext(c.Request.Context())
		span.SetAttributes(attribute.String("request.id", td.RequestID))
		if scope.projectID != "" {
			span.SetAttributes(attribute.String("project_id", scope.projectID))
		}
		if len(scope.basketIDs) > 0 {
			span.SetAttributes(attribute.StringSlice("basket_ids", scope.basketIDs))
		}

		c.Request = c.Request.WithContext(ctxutil.WithTraceData(c.Request.Context(), td))
		c.Writer.Header().Set(headerTraceID, td.TraceID)
		c.Writer.Header().Set(headerRequestID, td.RequestID)
		c.Next()

		if log == nil || c.Request.URL.Path == "/healthcheck" {
			return
		}
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"trace_id", td.TraceID,
			"request_id", td.RequestID,
		}
		if uid := ctxutil.UserID(c.Request.Context()); uid != uuid.Nil {
			fields = append(fields, "user_id", uid.String())
		}
		if scope.projectID != "" {
			fields = append(fields, "project_id", scope.projectID)
		}
		if len(scope.basketIDs) > 0 {
			fields = append(fields, "basket_ids", strings.Join(scope.basketIDs, ","))
		}
		if code := c.GetString(response.ErrorCodeKey); code != "" {
			fields = append(fields, "error_code", code)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

// traceDataFor honours caller-supplied ids, then the otel span, then a fresh uuid.
func traceDataFor(c *gin.Context) *ctxutil.TraceData {
	td := &ctxutil.TraceData{
		TraceID:   strings.TrimSpace(c.GetHeader(headerTraceID)),
		RequestID: strings.TrimSpace(c.GetHeader(headerRequestID)),
	}
	if td.RequestID == "" {
		td.RequestID = uuid.NewString()
	}
	if td.TraceID == "" {
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			td.TraceID = sc.TraceID().String()
		}
	}
	if td.TraceID == "" {
		td.TraceID = uuid.NewString()
	}
	return td
}
