package schedules

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/work-platform-backend/internal/domain"
	"github.com/yungbote/work-platform-backend/internal/domain/schedules"
	"github.com/yungbote/work-platform-backend/internal/platform/dbctx"
	"github.com/yungbote/work-platform-backend/internal/platform/logger"
)

type JobRepo interface {
	Create(dbc dbctx.Context, rows []*types.Job) ([]*types.Job, error)
	CountByScheduleIDs(dbc dbctx.Context, scheduleIDs []uuid.UUID, statuses []string) (int64, error)
	CancelByScheduleIDs(dbc dbctx.Context, scheduleIDs []uuid.UUID, fromStatuses []string) (int64, error)
}

type jobRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJobRepo(db *gorm.DB, baseLog *logger.Logger) JobRepo {
	return &jobRepo{db: db, log: baseLog.With("repo", "JobRepo")}
}

func (r *jobRepo) Create(dbc dbctx.Context, rows []*types.Job) ([]*types.Job, error) {
	if len(rows) == 0 {
		return []*types.Job{}, nil
	}
	now := time.Now().UTC()
	for _, j := range rows {
		if j.ID == uuid.Nil {
			j.ID = uuid.New()
		}
		if j.Status == "" {
			j.Status = schedules.JobStatusPending
		}
		if j.CreatedAt.IsZero() {
			j.CreatedAt = now
		}
		if j.UpdatedAt.IsZero() {
			j.UpdatedAt = now
		}
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByScheduleIDs counts jobs spawned by the schedules; an empty statuses slice counts all.
func (r *jobRepo) CountByScheduleIDs(dbc dbctx.Context, scheduleIDs []uuid.UUID, statuses []string) (int64, error) {
	if len(scheduleIDs) == 0 {
		return 0, nil
	}
	q := dbc.Conn(r.db).Model(&types.Job{}).Where("parent_schedule_id IN ?", scheduleIDs)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// CancelByScheduleIDs marks jobs in fromStatuses as cancelled and reports how many changed.
func (r *jobRepo) CancelByScheduleIDs(dbc dbctx.Context, scheduleIDs []uuid.UUID, fromStatuses []string) (int64, error) {
	if len(scheduleIDs) == 0 || len(fromStatuses) == 0 {
		return 0, nil
	}
	res := dbc.Conn(r.db).
		Model(&types.Job{}).
		Where("parent_schedule_id IN ? AND status IN ?", scheduleIDs, fromStatuses).
		Updates(map[string]interface{}{
			"status":     schedules.JobStatusCancelled,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
