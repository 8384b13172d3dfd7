package substrate

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/work-platform-backend/internal/domain"
	"github.com/yungbote/work-platform-backend/internal/platform/dbctx"
	"github.com/yungbote/work-platform-backend/internal/platform/logger"
)

type ProcessingQueueRepo interface {
	Create(dbc dbctx.Context, rows []*types.ProcessingQueueItem) ([]*types.ProcessingQueueItem, error)
	CountByDumpIDs(dbc dbctx.Context, dumpIDs []uuid.UUID) (int64, error)
	DeleteByDumpIDs(dbc dbctx.Context, dumpIDs []uuid.UUID) (int64, error)
}

type processingQueueRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProcessingQueueRepo(db *gorm.DB, baseLog *logger.Logger) ProcessingQueueRepo {
	return &processingQueueRepo{db: db, log: baseLog.With("repo", "ProcessingQueueRepo")}
}

func (r *processingQueueRepo) Create(dbc dbctx.Context, rows []*types.ProcessingQueueItem) ([]*types.ProcessingQueueItem, error) {
	if len(rows) == 0 {
		return []*types.ProcessingQueueItem{}, nil
	}
	for _, q := range rows {
		if q.ID == uuid.Nil {
			q.ID = uuid.New()
		}
		if q.Status == "" {
			q.Status = "pending"
		}
		if q.CreatedAt.IsZero() {
			q.CreatedAt = time.Now().UTC()
		}
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *processingQueueRepo) CountByDumpIDs(dbc dbctx.Context, dumpIDs []uuid.UUID) (int64, error) {
	if len(dumpIDs) == 0 {
		return 0, nil
	}
	var n int64
	err := dbc.Conn(r.db).Model(&types.ProcessingQueueItem{}).Where("dump_id IN ?", dumpIDs).Count(&n).Error
	return n, err
}

func (r *processingQueueRepo) DeleteByDumpIDs(dbc dbctx.Context, dumpIDs []uuid.UUID) (int64, error) {
	if len(dumpIDs) == 0 {
		return 0, nil
	}
	res := dbc.Conn(r.db).Where("dump_id IN ?", dumpIDs).Delete(&types.ProcessingQueueItem{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
