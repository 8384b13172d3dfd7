package schedules

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/work-platform-backend/internal/domain"
	"github.com/yungbote/work-platform-backend/internal/platform/dbctx"
	"github.com/yungbote/work-platform-backend/internal/platform/logger"
)

type ScheduleRepo interface {
	Create(dbc dbctx.Context, rows []*types.ProjectSchedule) ([]*types.ProjectSchedule, error)
	ListIDsByProject(dbc dbctx.Context, projectID uuid.UUID) ([]uuid.UUID, error)
	CountByProject(dbc dbctx.Context, projectID uuid.UUID) (int64, error)
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
}

type scheduleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScheduleRepo(db *gorm.DB, baseLog *logger.Logger) ScheduleRepo {
	return &scheduleRepo{db: db, log: baseLog.With("repo", "ScheduleRepo")}
}

func (r *scheduleRepo) Create(dbc dbctx.Context, rows []*types.ProjectSchedule) ([]*types.ProjectSchedule, error) {
	if len(rows) == 0 {
		return []*types.ProjectSchedule{}, nil
	}
	now := time.Now().UTC()
	for _, s := range rows {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		if s.UpdatedAt.IsZero() {
			s.UpdatedAt = now
		}
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *scheduleRepo) ListIDsByProject(dbc dbctx.Context, projectID uuid.UUID) ([]uuid.UUID, error) {
	out := []uuid.UUID{}
	if projectID == uuid.Nil {
		return out, nil
	}
	err := dbc.Conn(r.db).Model(&types.ProjectSchedule{}).Where("project_id = ?", projectID).Pluck("id", &out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *scheduleRepo) CountByProject(dbc dbctx.Context, projectID uuid.UUID) (int64, error) {
	if projectID == uuid.Nil {
		return 0, nil
	}
	var n int64
	err := dbc.Conn(r.db).Model(&types.ProjectSchedule{}).Where("project_id = ?", projectID).Count(&n).Error
	return n, err
}

func (r *scheduleRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := dbc.Conn(r.db).Where("id IN ?", ids).Delete(&types.ProjectSchedule{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
