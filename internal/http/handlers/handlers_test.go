package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/work-platform-backend/internal/data/repos"
	"github.com/yungbote/work-platform-backend/internal/data/repos/testutil"
	types "github.com/yungbote/work-platform-backend/internal/domain"
	apphttp "github.com/yungbote/work-platform-backend/internal/http"
	httpH "github.com/yungbote/work-platform-backend/internal/http/handlers"
	httpMW "github.com/yungbote/work-platform-backend/internal/http/middleware"
	"github.com/yungbote/work-platform-backend/internal/modules/contextroles"
	"github.com/yungbote/work-platform-backend/internal/modules/purge"
	"github.com/yungbote/work-platform-backend/internal/realtime"
	"github.com/yungbote/work-platform-backend/internal/services"
)

const testSecret = "handlers-test-secret-0123456789"

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	hub    *realtime.SSEHub
	owner  uuid.UUID
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)

	as, err := services.NewAuthService(log, services.AuthConfig{JWTSecret: testSecret})
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	projects := repos.NewProjectRepo(db, log)
	roles := contextroles.New(contextroles.UsecasesDeps{
		DB:            db,
		Log:           log,
		Projects:      projects,
		Baskets:       repos.NewBasketRepo(db, log),
		Blocks:        repos.NewBlockRepo(db, log),
		Relationships: repos.NewRelationshipRepo(db, log),
	})
	hub := realtime.NewSSEHub(log)
	pu := purge.New(purge.UsecasesDeps{
		DB:        db,
		Log:       log,
		Projects:  projects,
		Blocks:    repos.NewBlockRepo(db, log),
		RawDumps:  repos.NewRawDumpRepo(db, log),
		Queue:     repos.NewProcessingQueueRepo(db, log),
		Assets:    repos.NewReferenceAssetRepo(db, log),
		Schedules: repos.NewScheduleRepo(db, log),
		Jobs:      repos.NewJobRepo(db, log),
	})

	router := apphttp.NewRouter(apphttp.RouterConfig{
		Log:                 log,
		AuthMiddleware:      httpMW.NewAuthMiddleware(log, as),
		HealthHandler:       httpH.NewHealthHandler(),
		ContextRolesHandler: httpH.NewContextRolesHandler(roles),
		PurgeHandler:        httpH.NewPurgeHandler(pu),
		RealtimeHandler:     httpH.NewRealtimeHandler(log, hub, projects),
	})
	return &testEnv{db: db, router: router, hub: hub, owner: uuid.New()}
}

func (e *testEnv) token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	tok, err := services.SignAccessToken(testSecret, userID, "", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func (e *testEnv) do(t *testing.T, method, target string, userID uuid.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Reader
	switch b := body.(type) {
	case nil:
		buf = bytes.NewReader(nil)
	case string:
		buf = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		buf = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		req.Header.Set("Authorization", "Bearer "+e.token(t, userID))
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
	Detail string `json:"detail"`
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	var body errorBody
	decode(t, rec, &body)
	if body.Error.Code != code {
		t.Fatalf("code = %q, want %q", body.Error.Code, code)
	}
	if body.Detail == "" {
		t.Fatalf("detail should be populated")
	}
}

func TestHealthCheck(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodGet, "/healthcheck", uuid.Nil, nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck = %d %q", rec.Code, rec.Body.String())
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodGet, "/api/projects/"+uuid.NewString()+"/context/anchors", uuid.Nil, nil)
	expectError(t, rec, http.StatusUnauthorized, "unauthorized")
}

func TestContextAnchors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p, b := testutil.SeedProject(t, ctx, e.db, e.owner, "Roles")
	problem := testutil.SeedBlock(t, ctx, e.db, b.ID, testutil.WithRole("problem"), testutil.WithAnchorStatus(types.AnchorStatusAccepted))
	other := testutil.SeedBlock(t, ctx, e.db, b.ID)
	testutil.SeedRelationship(t, ctx, e.db, b.ID, problem.ID, other.ID)

	rec := e.do(t, http.MethodGet, "/api/projects/"+p.ID.String()+"/context/anchors", e.owner, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	var view contextroles.AnchorsView
	decode(t, rec, &view)
	if view.BasketID != b.ID {
		t.Fatalf("basket_id = %s, want %s", view.BasketID, b.ID)
	}
	if len(view.Anchors) != 1 || view.Anchors[0].AnchorKey != "problem" {
		t.Fatalf("anchors = %+v", view.Anchors)
	}
	if view.Anchors[0].Relationships != 1 {
		t.Fatalf("relationships = %d, want 1", view.Anchors[0].Relationships)
	}
	if view.Stats.FoundationComplete {
		t.Fatalf("foundation should be incomplete with only problem present")
	}
}

func TestContextAnchorsErrors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p, _ := testutil.SeedProject(t, ctx, e.db, e.owner, "Roles")
	bare := testutil.SeedProjectWithoutBasket(t, ctx, e.db, e.owner, "Bare")

	cases := []struct {
		name   string
		target string
		user   uuid.UUID
		status int
		code   string
	}{
		{"malformed id", "/api/projects/not-a-uuid/context/anchors", e.owner, http.StatusBadRequest, "invalid_project_id"},
		{"unknown project", "/api/projects/" + uuid.NewString() + "/context/anchors", e.owner, http.StatusNotFound, "project_not_found"},
		{"other owner", "/api/projects/" + p.ID.String() + "/context/anchors", uuid.New(), http.StatusNotFound, "project_not_found"},
		{"no basket", "/api/projects/" + bare.ID.String() + "/context/anchors", e.owner, http.StatusBadRequest, "basket_missing"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectError(t, e.do(t, http.MethodGet, tc.target, tc.user, nil), tc.status, tc.code)
		})
	}
}

func TestContextFoundationAndFreshness(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p, b := testutil.SeedProject(t, ctx, e.db, e.owner, "Roles")
	for _, role := range []string{"problem", "customer", "vision"} {
		testutil.SeedBlock(t, ctx, e.db, b.ID, testutil.WithRole(role), testutil.WithAnchorStatus(types.AnchorStatusAccepted))
	}
	old := time.Now().UTC().Add(-60 * 24 * time.Hour)
	testutil.SeedBlock(t, ctx, e.db, b.ID, testutil.WithRole("metric"),
		testutil.WithAnchorStatus(types.AnchorStatusAccepted), testutil.WithUpdatedAt(&old))

	rec := e.do(t, http.MethodGet, "/api/projects/"+p.ID.String()+"/context/foundation", e.owner, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("foundation status = %d (%s)", rec.Code, rec.Body.String())
	}
	var foundation struct {
		Foundation contextroles.FoundationStatus `json:"foundation"`
	}
	decode(t, rec, &foundation)
	if !foundation.Foundation.Complete || len(foundation.Foundation.Missing) != 0 {
		t.Fatalf("foundation = %+v", foundation.Foundation)
	}

	rec = e.do(t, http.MethodPost, "/api/projects/"+p.ID.String()+"/context/freshness", e.owner,
		map[string]any{"required_roles": []string{"problem", "metric", "trend"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("freshness status = %d (%s)", rec.Code, rec.Body.String())
	}
	var report contextroles.FreshnessReport
	decode(t, rec, &report)
	if report.Fresh {
		t.Fatalf("report should not be fresh: %+v", report)
	}
	if len(report.StaleRoles) != 1 || report.StaleRoles[0] != "metric" {
		t.Fatalf("stale = %v", report.StaleRoles)
	}
	if len(report.MissingRoles) != 1 || report.MissingRoles[0] != "trend" {
		t.Fatalf("missing = %v", report.MissingRoles)
	}

	rec = e.do(t, http.MethodPost, "/api/projects/"+p.ID.String()+"/context/freshness", e.owner, "{")
	expectError(t, rec, http.StatusBadRequest, "invalid_request")
}

func TestPurgePreviewAndRun(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p, b := testutil.SeedProject(t, ctx, e.db, e.owner, "Acme")
	testutil.SeedBlock(t, ctx, e.db, b.ID)
	testutil.SeedBlock(t, ctx, e.db, b.ID)
	testutil.SeedRawDump(t, ctx, e.db, b.ID)
	s := testutil.SeedSchedule(t, ctx, e.db, p.ID)
	testutil.SeedJob(t, ctx, e.db, s.ID, types.JobStatusPending)

	base := "/api/projects/" + p.ID.String() + "/purge"
	rec := e.do(t, http.MethodGet, base+"/preview", e.owner, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("preview status = %d (%s)", rec.Code, rec.Body.String())
	}
	var preview purge.Preview
	decode(t, rec, &preview)
	want := purge.Preview{Blocks: 2, Dumps: 1, Assets: 0, Schedules: 1}
	if preview != want {
		t.Fatalf("preview = %+v, want %+v", preview, want)
	}

	expectError(t, e.do(t, http.MethodGet, base+"/preview", uuid.New(), nil), http.StatusForbidden, "forbidden")
	expectError(t, e.do(t, http.MethodPost, base, e.owner, "not json"), http.StatusBadRequest, "invalid_request")
	expectError(t, e.do(t, http.MethodPost, base, e.owner,
		map[string]string{"mode": "nuke", "confirmation_text": "Acme"}), http.StatusBadRequest, "invalid_mode")
	expectError(t, e.do(t, http.MethodPost, base, e.owner,
		map[string]string{"mode": "archive_all", "confirmation_text": "acme"}), http.StatusBadRequest, "confirmation_mismatch")

	rec = e.do(t, http.MethodPost, base, e.owner, map[string]string{"mode": "archive_all", "confirmation_text": "Acme"})
	if rec.Code != http.StatusOK {
		t.Fatalf("purge status = %d (%s)", rec.Code, rec.Body.String())
	}
	var res purge.PurgeResult
	decode(t, rec, &res)
	if !res.Success || res.Totals.ArchivedBlocks != 2 || res.Totals.RedactedDumps != 1 || res.Totals.DeletedSchedules != 1 || res.Totals.CancelledJobs != 1 {
		t.Fatalf("result = %+v", res)
	}
	if !strings.HasPrefix(res.Message, "Purged ") {
		t.Fatalf("message = %q", res.Message)
	}
}

func TestRealtimeStreamRejectsForeignBaskets(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, b := testutil.SeedProject(t, ctx, e.db, e.owner, "Stream")

	expectError(t, e.do(t, http.MethodGet, "/api/realtime/stream", e.owner, nil), http.StatusBadRequest, "invalid_request")
	expectError(t, e.do(t, http.MethodGet, "/api/realtime/stream?basket_id=zzz", e.owner, nil), http.StatusBadRequest, "invalid_basket_id")
	expectError(t, e.do(t, http.MethodGet, "/api/realtime/stream?basket_id="+b.ID.String(), uuid.New(), nil), http.StatusNotFound, "basket_not_found")
	expectError(t, e.do(t, http.MethodGet, "/api/realtime/stream?basket_id="+uuid.NewString(), e.owner, nil), http.StatusNotFound, "basket_not_found")
}

func TestRealtimeStreamDeliversBasketEvents(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, b := testutil.SeedProject(t, context.Background(), e.db, e.owner, "Stream")

	req := httptest.NewRequest(http.MethodGet, "/api/realtime/stream?token="+e.token(t, e.owner)+"&basket_id="+b.ID.String(), nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		e.router.ServeHTTP(rec, req)
	}()

	channel := realtime.BasketChannel(b.ID)
	deadline := time.Now().Add(2 * time.Second)
	for e.hub.Subscribers(channel) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("stream never subscribed to %s", channel)
		}
		time.Sleep(5 * time.Millisecond)
	}
	e.hub.Broadcast(realtime.RowChangeMessage(realtime.RowChange{
		Table: "blocks", Type: realtime.ChangeUpdate, BasketID: b.ID, Count: 2,
	}))
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	if e.hub.Subscribers(channel) != 0 {
		t.Fatalf("client should be unsubscribed after disconnect")
	}
	body := rec.Body.String()
	if !strings.Contains(body, "event: "+string(realtime.SSEEventRowChange)) || !strings.Contains(body, `"blocks"`) {
		t.Fatalf("stream body = %q", body)
	}
}
