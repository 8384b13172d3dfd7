package purge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/yungbote/work-platform-backend/internal/data/repos"
	types "github.com/yungbote/work-platform-backend/internal/domain"
	"github.com/yungbote/work-platform-backend/internal/domain/schedules"
	"github.com/yungbote/work-platform-backend/internal/platform/apierr"
	"github.com/yungbote/work-platform-backend/internal/platform/dbctx"
	"github.com/yungbote/work-platform-backend/internal/platform/gcp"
	"github.com/yungbote/work-platform-backend/internal/platform/logger"
	"github.com/yungbote/work-platform-backend/internal/realtime"
)

var tracer = otel.Tracer("work-platform/purge")

const publishTimeout = 2 * time.Second

// Publisher delivers row-change notifications. Failures never fail a purge.
type Publisher interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
}

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Projects  repos.ProjectRepo
	Blocks    repos.BlockRepo
	RawDumps  repos.RawDumpRepo
	Queue     repos.ProcessingQueueRepo
	Assets    repos.ReferenceAssetRepo
	Schedules repos.ScheduleRepo
	Jobs      repos.JobRepo

	Locker    Locker
	Publisher Publisher
	Objects   gcp.AssetStore

	// Atomic runs every mutation in one transaction instead of best-effort steps.
	Atomic bool
	Now    func() time.Time
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	if deps.Log == nil {
		deps.Log = logger.NewNop()
	}
	if deps.Locker == nil {
		deps.Locker = NewLocalLocker()
	}
	if deps.Objects == nil {
		deps.Objects = gcp.NoopAssetStore{}
	}
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	deps.Log = deps.Log.With("module", "purge")
	return Usecases{deps: deps}
}

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.SetAttributes(attribute.Int("http.status_code", apierr.StatusOf(err)))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// loadOwnedProject resolves the project and checks ownership (401, 404, 403).
func (u Usecases) loadOwnedProject(dbc dbctx.Context, userID, projectID uuid.UUID) (*types.Project, error) {
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized()
	}
	p, err := u.deps.Projects.GetByID(dbc, projectID)
	if err != nil {
		return nil, apierr.FromStore("data_access_error", "load project", err)
	}
	if p == nil {
		return nil, apierr.NotFound("project_not_found", errors.New("project not found"))
	}
	if !p.OwnedBy(userID) {
		return nil, apierr.Forbidden("forbidden", errors.New("only the project owner can purge its data"))
	}
	return p, nil
}

// PreviewPurge counts what a purge would touch. Nothing is mutated.
func (u Usecases) PreviewPurge(ctx context.Context, userID, projectID uuid.UUID) (out Preview, err error) {
	ctx, span := tracer.Start(ctx, "purge.Preview",
		trace.WithAttributes(attribute.String("project_id", projectID.String())))
	defer func() { endSpan(span, err) }()

	dbc := dbctx.Context{Ctx: ctx}
	p, err := u.loadOwnedProject(dbc, userID, projectID)
	if err != nil {
		return Preview{}, err
	}
	if out.Schedules, err = u.deps.Schedules.CountByProject(dbc, p.ID); err != nil {
		return Preview{}, apierr.FromStore("data_access_error", "count schedules", err)
	}
	if !p.HasBasket() {
		return out, nil
	}
	basketID := *p.BasketID
	if out.Blocks, err = u.deps.Blocks.CountActive(dbc, basketID); err != nil {
		return Preview{}, apierr.FromStore("data_access_error", "count blocks", err)
	}
	if out.Dumps, err = u.deps.RawDumps.CountByBasket(dbc, basketID); err != nil {
		return Preview{}, apierr.FromStore("data_access_error", "count raw dumps", err)
	}
	if out.Assets, err = u.deps.Assets.CountByBasket(dbc, basketID); err != nil {
		return Preview{}, apierr.FromStore("data_access_error", "count assets", err)
	}
	return out, nil
}

func validateInput(in PurgeInput) error {
	if in.UserID == uuid.Nil {
		return apierr.Unauthorized()
	}
	if strings.TrimSpace(string(in.Mode)) == "" || in.ConfirmationText == "" {
		return apierr.BadRequest("invalid_request", errors.New("mode and confirmation_text are required"))
	}
	if !in.Mode.Valid() {
		return apierr.BadRequest("invalid_mode",
			fmt.Errorf("mode must be %q or %q", ModeArchiveAll, ModeRedactDumps))
	}
	return nil
}

// Purge archives or deletes a project's derived data after validating the
// caller, the confirmation text and the basket link. Validation failures
// never mutate anything.
func (u Usecases) Purge(ctx context.Context, in PurgeInput) (res PurgeResult, err error) {
	ctx, span := tracer.Start(ctx, "purge.Purge", trace.WithAttributes(
		attribute.String("project_id", in.ProjectID.String()),
		attribute.String("mode", string(in.Mode)),
		attribute.Bool("atomic", u.deps.Atomic),
	))
	defer func() { endSpan(span, err) }()

	if err := validateInput(in); err != nil {
		return PurgeResult{}, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	p, err := u.loadOwnedProject(dbc, in.UserID, in.ProjectID)
	if err != nil {
		return PurgeResult{}, err
	}
	if in.ConfirmationText != p.Name {
		return PurgeResult{}, apierr.BadRequest("confirmation_mismatch",
			errors.New("confirmation text does not match the project name"))
	}
	if !p.HasBasket() {
		return PurgeResult{}, apierr.BadRequest("basket_missing", errors.New("project has no basket to purge"))
	}
	basketID := *p.BasketID

	unlock, err := u.deps.Locker.TryLock(ctx, basketLockKey(basketID))
	if errors.Is(err, ErrLockHeld) {
		return PurgeResult{}, apierr.Conflict("purge_in_progress", errors.New("a purge is already running for this project"))
	}
	if err != nil {
		return PurgeResult{}, apierr.New(http.StatusServiceUnavailable, "lock_unavailable", err)
	}
	defer unlock()

	log := u.deps.Log.With("project_id", p.ID, "basket_id", basketID, "mode", in.Mode)
	run := &purgeRun{
		u:        u,
		log:      log,
		project:  p,
		basketID: basketID,
		mode:     in.Mode,
		now:      u.deps.Now(),
		buffer:   u.deps.Atomic,
	}

	if u.deps.Atomic {
		err = u.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return run.execute(dbctx.Context{Ctx: ctx, Tx: tx})
		})
	} else {
		err = run.execute(dbc)
	}
	if err != nil {
		log.Error("purge failed", "status", apierr.StatusOf(err), "error", err, "completed", run.totals)
		return PurgeResult{}, err
	}

	run.flushEvents(ctx)
	run.removeObjects(ctx)

	res = newResult(run.totals)
	u.publish(ctx, realtime.SSEMessage{
		Channel: realtime.BasketChannel(basketID),
		Event:   realtime.SSEEventPurgeCompleted,
		Data:    res,
	})
	span.SetAttributes(attribute.Int64("total_operations", res.TotalOperations))
	log.Info("purge completed", "total_operations", res.TotalOperations, "totals", res.Totals)
	return res, nil
}

func (u Usecases) publish(ctx context.Context, msg realtime.SSEMessage) {
	if u.deps.Publisher == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := u.deps.Publisher.Publish(pctx, msg); err != nil {
		u.deps.Log.Warn("publish realtime event failed", "channel", msg.Channel, "event", msg.Event, "error", err)
	}
}

// purgeRun carries the state of one purge invocation.
type purgeRun struct {
	u        Usecases
	log      *logger.Logger
	project  *types.Project
	basketID uuid.UUID
	mode     Mode
	now      time.Time

	totals      Totals
	objectKeys  []string
	buffer      bool
	pendingMsgs []realtime.SSEMessage
}

func (r *purgeRun) execute(dbc dbctx.Context) error {
	if r.mode == ModeArchiveAll {
		if err := r.step(dbc, "schedules", r.purgeSchedules); err != nil {
			return err
		}
		if err := r.step(dbc, "blocks", r.archiveBlocks); err != nil {
			return err
		}
	}
	if err := r.step(dbc, "raw_dumps", r.purgeDumps); err != nil {
		return err
	}
	return r.step(dbc, "reference_assets", r.purgeAssets)
}

func (r *purgeRun) step(dbc dbctx.Context, name string, fn func(dbctx.Context) error) (err error) {
	ctx, span := tracer.Start(dbc.Ctx, "purge.step."+name)
	defer func() { endSpan(span, err) }()
	dbc.Ctx = ctx
	return fn(dbc)
}

func (r *purgeRun) changed(table string, kind realtime.ChangeType, n int64) {
	if n <= 0 {
		return
	}
	msg := realtime.RowChangeMessage(realtime.RowChange{
		Table:     table,
		Type:      kind,
		BasketID:  r.basketID,
		ProjectID: r.project.ID,
		Count:     n,
	})
	if r.buffer {
		r.pendingMsgs = append(r.pendingMsgs, msg)
		return
	}
	r.u.publish(context.Background(), msg)
}

func (r *purgeRun) flushEvents(ctx context.Context) {
	for _, msg := range r.pendingMsgs {
		r.u.publish(ctx, msg)
	}
	r.pendingMsgs = nil
}

// fatal aborts the purge with 500 whatever the store error class.
func fatal(op string, err error) error {
	return apierr.Internal("purge_failed", fmt.Errorf("%s: %w", op, err))
}

func (r *purgeRun) purgeSchedules(dbc dbctx.Context) error {
	ids, err := r.u.deps.Schedules.ListIDsByProject(dbc, r.project.ID)
	if err != nil {
		return fatal("list schedules", err)
	}
	if len(ids) == 0 {
		return nil
	}
	cancelled, err := r.u.deps.Jobs.CancelByScheduleIDs(dbc, ids, schedules.CancellableJobStatuses)
	if err != nil {
		return fatal("cancel scheduled jobs", err)
	}
	r.totals.CancelledJobs = cancelled
	r.changed("jobs", realtime.ChangeUpdate, cancelled)

	deleted, err := r.u.deps.Schedules.DeleteByIDs(dbc, ids)
	if err != nil {
		return fatal("delete schedules", err)
	}
	r.totals.DeletedSchedules = deleted
	r.changed("project_schedules", realtime.ChangeDelete, deleted)
	return nil
}

func (r *purgeRun) archiveBlocks(dbc dbctx.Context) error {
	n, err := r.u.deps.Blocks.ArchiveActive(dbc, r.basketID, r.now)
	if err != nil {
		return fatal("archive blocks", err)
	}
	r.totals.ArchivedBlocks = n
	r.changed("blocks", realtime.ChangeUpdate, n)
	return nil
}

const queueSavepoint = "purge_clear_queue"

func (r *purgeRun) purgeDumps(dbc dbctx.Context) error {
	ids, err := r.u.deps.RawDumps.ListIDsByBasket(dbc, r.basketID)
	if err != nil {
		return fatal("list raw dumps", err)
	}
	if len(ids) == 0 {
		return nil
	}
	r.clearQueue(dbc, ids)

	n, err := r.u.deps.RawDumps.DeleteByIDs(dbc, ids)
	if err != nil {
		return fatal("delete raw dumps", err)
	}
	r.totals.RedactedDumps = n
	r.changed("raw_dumps", realtime.ChangeDelete, n)
	return nil
}

// clearQueue removes queue rows that reference the dumps. Failure is logged and
// tolerated; inside a transaction it is isolated by a savepoint.
func (r *purgeRun) clearQueue(dbc dbctx.Context, dumpIDs []uuid.UUID) {
	if dbc.Tx != nil {
		if err := dbc.Tx.SavePoint(queueSavepoint).Error; err != nil {
			r.log.Warn("queue savepoint failed; skipping queue clear", "error", err)
			return
		}
	}
	n, err := r.u.deps.Queue.DeleteByDumpIDs(dbc, dumpIDs)
	if err != nil {
		r.log.Warn("clear processing queue failed (continuing)", "error", err, "dumps", len(dumpIDs))
		if dbc.Tx != nil {
			if rbErr := dbc.Tx.RollbackTo(queueSavepoint).Error; rbErr != nil {
				r.log.Warn("rollback to queue savepoint failed", "error", rbErr)
			}
		}
		return
	}
	r.changed("agent_processing_queue", realtime.ChangeDelete, n)
}

func (r *purgeRun) purgeAssets(dbc dbctx.Context) error {
	assets, err := r.u.deps.Assets.ListByBasket(dbc, r.basketID)
	if err != nil {
		return fatal("list reference assets", err)
	}
	if len(assets) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(assets))
	keys := make([]string, 0, len(assets))
	for _, a := range assets {
		ids = append(ids, a.ID)
		if strings.TrimSpace(a.StoragePath) != "" {
			keys = append(keys, a.StoragePath)
		}
	}
	n, err := r.u.deps.Assets.DeleteByIDs(dbc, ids)
	if err != nil {
		return fatal("delete reference assets", err)
	}
	r.totals.DeletedAssets = n
	r.objectKeys = keys
	r.changed("reference_assets", realtime.ChangeDelete, n)
	return nil
}

// removeObjects deletes stored asset files once their rows are gone.
func (r *purgeRun) removeObjects(ctx context.Context) {
	if len(r.objectKeys) == 0 {
		return
	}
	n, err := r.u.deps.Objects.DeleteObjects(context.WithoutCancel(ctx), r.objectKeys)
	if err != nil {
		r.log.Warn("delete stored asset objects failed (continuing)", "error", err, "deleted", n, "requested", len(r.objectKeys))
		return
	}
	r.log.Debug("deleted stored asset objects", "deleted", n)
}
