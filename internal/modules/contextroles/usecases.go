package contextroles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/work-platform-backend/internal/data/repos"
	types "github.com/yungbote/work-platform-backend/internal/domain"
	"github.com/yungbote/work-platform-backend/internal/platform/apierr"
	"github.com/yungbote/work-platform-backend/internal/platform/dbctx"
	"github.com/yungbote/work-platform-backend/internal/platform/logger"
)

var tracer = otel.Tracer("work-platform/contextroles")

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Projects      repos.ProjectRepo
	Baskets       repos.BasketRepo
	Blocks        repos.BlockRepo
	Relationships repos.RelationshipRepo

	Registry *Registry
	// Now defaults to time.Now in UTC.
	Now func() time.Time
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	if deps.Log == nil {
		deps.Log = logger.NewNop()
	}
	if deps.Registry == nil {
		deps.Registry = DefaultRegistry()
	}
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	deps.Log = deps.Log.With("module", "contextroles")
	return Usecases{deps: deps}
}

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}

func (u Usecases) Registry() *Registry { return u.deps.Registry }

// AnchorsView is the payload of the project anchors endpoint.
type AnchorsView struct {
	Anchors  []RoleStatusSummary `json:"anchors"`
	Stats    Stats               `json:"stats"`
	BasketID uuid.UUID           `json:"basket_id"`
}

func dataAccess(op string, err error) *apierr.Error {
	return apierr.FromStore("data_access_error", op, err)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (u Usecases) requireBasket(dbc dbctx.Context, basketID uuid.UUID) error {
	if basketID == uuid.Nil {
		return apierr.NotFound("basket_not_found", errors.New("basket not found"))
	}
	b, err := u.deps.Baskets.GetByID(dbc, basketID)
	if err != nil {
		return dataAccess("load basket", err)
	}
	if b == nil {
		return apierr.NotFound("basket_not_found", fmt.Errorf("basket %s not found", basketID))
	}
	return nil
}

// ProjectBasket resolves the basket of a project the user owns. Projects owned
// by someone else are reported as not found.
func (u Usecases) ProjectBasket(ctx context.Context, userID, projectID uuid.UUID) (uuid.UUID, error) {
	if userID == uuid.Nil {
		return uuid.Nil, apierr.Unauthorized()
	}
	dbc := dbctx.Context{Ctx: ctx}
	p, err := u.deps.Projects.GetByID(dbc, projectID)
	if err != nil {
		return uuid.Nil, dataAccess("load project", err)
	}
	if p == nil || !p.OwnedBy(userID) {
		return uuid.Nil, apierr.NotFound("project_not_found", errors.New("project not found"))
	}
	if !p.HasBasket() {
		return uuid.Nil, apierr.BadRequest("basket_missing", errors.New("project has no basket"))
	}
	return *p.BasketID, nil
}

// ListRolesWithStatus returns one summary per anchored block in the basket, sorted for display.
func (u Usecases) ListRolesWithStatus(ctx context.Context, basketID uuid.UUID) (out []RoleStatusSummary, err error) {
	ctx, span := tracer.Start(ctx, "contextroles.ListRolesWithStatus",
		trace.WithAttributes(attribute.String("basket_id", basketID.String())))
	defer func() { endSpan(span, err) }()

	dbc := dbctx.Context{Ctx: ctx}
	if err := u.requireBasket(dbc, basketID); err != nil {
		return nil, err
	}

	blocks, err := u.deps.Blocks.ListAnchored(dbc, basketID)
	if err != nil {
		return nil, dataAccess("load anchored blocks", err)
	}
	ids := make([]uuid.UUID, 0, len(blocks))
	for _, b := range blocks {
		ids = append(ids, b.ID)
	}
	edges, err := u.relationshipCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := u.deps.Now()
	out = make([]RoleStatusSummary, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, summarize(u.deps.Registry, b, edges[b.ID], now))
	}
	SortSummaries(out)
	span.SetAttributes(attribute.Int("anchors", len(out)))
	return out, nil
}

// relationshipCounts sums edges where each block is the source or the target.
func (u Usecases) relationshipCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	out := map[uuid.UUID]int{}
	if len(ids) == 0 {
		return out, nil
	}
	var from, to map[uuid.UUID]int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		from, err = u.deps.Relationships.CountBySource(dbctx.Context{Ctx: gctx}, ids)
		if err != nil {
			return dataAccess("count outgoing relationships", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		to, err = u.deps.Relationships.CountByTarget(dbctx.Context{Ctx: gctx}, ids)
		if err != nil {
			return dataAccess("count incoming relationships", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for id, n := range from {
		out[id] += n
	}
	for id, n := range to {
		out[id] += n
	}
	return out, nil
}

// CheckFoundationComplete reports which registry-required roles have an approved block.
func (u Usecases) CheckFoundationComplete(ctx context.Context, basketID uuid.UUID) (FoundationStatus, error) {
	rows, err := u.ListRolesWithStatus(ctx, basketID)
	if err != nil {
		return FoundationStatus{}, err
	}
	return Foundation(rows, u.deps.Registry.RequiredRoles()), nil
}

// CheckRolesFreshness checks the latest accepted block for each requested role.
func (u Usecases) CheckRolesFreshness(ctx context.Context, basketID uuid.UUID, requiredRoles []string) (out FreshnessReport, err error) {
	ctx, span := tracer.Start(ctx, "contextroles.CheckRolesFreshness",
		trace.WithAttributes(attribute.String("basket_id", basketID.String())))
	defer func() { endSpan(span, err) }()

	dbc := dbctx.Context{Ctx: ctx}
	if err := u.requireBasket(dbc, basketID); err != nil {
		return FreshnessReport{}, err
	}
	roles := normalizeRoles(requiredRoles)
	if len(roles) == 0 {
		return FreshnessReport{Fresh: true, StaleRoles: []string{}, MissingRoles: []string{}}, nil
	}
	blocks, err := u.deps.Blocks.ListAnchoredByRoles(dbc, basketID, roles, types.AnchorStatusAccepted)
	if err != nil {
		return FreshnessReport{}, dataAccess("load role blocks", err)
	}
	out = Freshness(blocks, roles, u.deps.Now())
	if !out.Fresh {
		u.deps.Log.Debug("context roles not fresh",
			"basket_id", basketID,
			"stale", out.StaleRoles,
			"missing", out.MissingRoles,
		)
	}
	return out, nil
}

// ProjectAnchors returns the summaries and stats for a project the user owns.
func (u Usecases) ProjectAnchors(ctx context.Context, userID, projectID uuid.UUID) (AnchorsView, error) {
	basketID, err := u.ProjectBasket(ctx, userID, projectID)
	if err != nil {
		return AnchorsView{}, err
	}
	rows, err := u.ListRolesWithStatus(ctx, basketID)
	if err != nil {
		return AnchorsView{}, err
	}
	return AnchorsView{
		Anchors:  rows,
		Stats:    Summarize(rows, u.deps.Registry.RequiredRoles()),
		BasketID: basketID,
	}, nil
}
