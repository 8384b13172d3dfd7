package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yungbote/work-platform-backend/internal/http/response"
	"github.com/yungbote/work-platform-backend/internal/platform/ctxutil"
	"github.com/yungbote/work-platform-backend/internal/platform/logger"
)

func observedLogger() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &logger.Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func TestRequestScopeTraceIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestScope(logger.NewNop()))
	var seen *ctxutil.TraceData
	r.GET("/x", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen == nil || seen.RequestID != "req-123" || seen.TraceID == "" {
		t.Fatalf("unexpected trace data: %+v", seen)
	}
	if rec.Header().Get("X-Request-Id") != "req-123" || rec.Header().Get("X-Trace-Id") != seen.TraceID {
		t.Fatalf("headers not echoed: %v", rec.Header())
	}
}

func TestRequestScopeLogsProjectAndErrorCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, logs := observedLogger()
	r := gin.New()
	r.Use(RequestScope(log))
	r.POST("/api/projects/:id/purge", func(c *gin.Context) {
		response.RespondError(c, http.StatusBadRequest, "confirmation_mismatch", errors.New("mismatch"))
	})

	projectID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/projects/"+projectID.String()+"/purge", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("HTTP request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request log line, got %d", len(entries))
	}
	e := entries[0]
	if e.Level != zapcore.WarnLevel {
		t.Fatalf("level = %v, want warn", e.Level)
	}
	fields := e.ContextMap()
	if fields["project_id"] != projectID.String() {
		t.Fatalf("project_id = %v", fields["project_id"])
	}
	if fields["error_code"] != "confirmation_mismatch" {
		t.Fatalf("error_code = %v", fields["error_code"])
	}
	if fields["path"] != "/api/projects/:id/purge" {
		t.Fatalf("path = %v", fields["path"])
	}
}

func TestRequestScopeLogsBasketsAndSkipsHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, logs := observedLogger()
	r := gin.New()
	r.Use(RequestScope(log))
	r.GET("/healthcheck", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/api/realtime/stream", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	a, b := uuid.New(), uuid.New()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet,
		"/api/realtime/stream?basket_id="+a.String()+","+b.String()+"&basket_id=junk", nil))

	entries := logs.FilterMessage("HTTP request").All()
	if len(entries) != 1 {
		t.Fatalf("expected only the stream request to be logged, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["basket_ids"]; got != a.String()+","+b.String() {
		t.Fatalf("basket_ids = %v", got)
	}
	if _, ok := entries[0].ContextMap()["project_id"]; ok {
		t.Fatalf("stream request has no project scope")
	}
}
