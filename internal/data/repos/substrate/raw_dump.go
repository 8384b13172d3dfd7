package substrate

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/work-platform-backend/internal/domain"
	"github.com/yungbote/work-platform-backend/internal/platform/dbctx"
	"github.com/yungbote/work-platform-backend/internal/platform/logger"
)

type RawDumpRepo interface {
	Create(dbc dbctx.Context, rows []*types.RawDump) ([]*types.RawDump, error)
	ListIDsByBasket(dbc dbctx.Context, basketID uuid.UUID) ([]uuid.UUID, error)
	CountByBasket(dbc dbctx.Context, basketID uuid.UUID) (int64, error)
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
}

type rawDumpRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRawDumpRepo(db *gorm.DB, baseLog *logger.Logger) RawDumpRepo {
	return &rawDumpRepo{db: db, log: baseLog.With("repo", "RawDumpRepo")}
}

func (r *rawDumpRepo) Create(dbc dbctx.Context, rows []*types.RawDump) ([]*types.RawDump, error) {
	if len(rows) == 0 {
		return []*types.RawDump{}, nil
	}
	for _, d := range rows {
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		if d.CreatedAt.IsZero() {
			d.CreatedAt = time.Now().UTC()
		}
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *rawDumpRepo) ListIDsByBasket(dbc dbctx.Context, basketID uuid.UUID) ([]uuid.UUID, error) {
	out := []uuid.UUID{}
	if basketID == uuid.Nil {
		return out, nil
	}
	if err := dbc.Conn(r.db).Model(&types.RawDump{}).Where("basket_id = ?", basketID).Pluck("id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *rawDumpRepo) CountByBasket(dbc dbctx.Context, basketID uuid.UUID) (int64, error) {
	if basketID == uuid.Nil {
		return 0, nil
	}
	var n int64
	err := dbc.Conn(r.db).Model(&types.RawDump{}).Where("basket_id = ?", basketID).Count(&n).Error
	return n, err
}

func (r *rawDumpRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := dbc.Conn(r.db).Where("id IN ?", ids).Delete(&types.RawDump{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
