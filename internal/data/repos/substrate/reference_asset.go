package substrate

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/work-platform-backend/internal/domain"
	"github.com/yungbote/work-platform-backend/internal/platform/dbctx"
	"github.com/yungbote/work-platform-backend/internal/platform/logger"
)

type ReferenceAssetRepo interface {
	Create(dbc dbctx.Context, rows []*types.ReferenceAsset) ([]*types.ReferenceAsset, error)
	ListByBasket(dbc dbctx.Context, basketID uuid.UUID) ([]*types.ReferenceAsset, error)
	CountByBasket(dbc dbctx.Context, basketID uuid.UUID) (int64, error)
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
}

type referenceAssetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReferenceAssetRepo(db *gorm.DB, baseLog *logger.Logger) ReferenceAssetRepo {
	return &referenceAssetRepo{db: db, log: baseLog.With("repo", "ReferenceAssetRepo")}
}

func (r *referenceAssetRepo) Create(dbc dbctx.Context, rows []*types.ReferenceAsset) ([]*types.ReferenceAsset, error) {
	if len(rows) == 0 {
		return []*types.ReferenceAsset{}, nil
	}
	for _, a := range rows {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = time.Now().UTC()
		}
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByBasket only loads the columns the purge needs (id, storage_path).
func (r *referenceAssetRepo) ListByBasket(dbc dbctx.Context, basketID uuid.UUID) ([]*types.ReferenceAsset, error) {
	var out []*types.ReferenceAsset
	if basketID == uuid.Nil {
		return out, nil
	}
	err := dbc.Conn(r.db).
		Select("id", "basket_id", "storage_path").
		Where("basket_id = ?", basketID).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *referenceAssetRepo) CountByBasket(dbc dbctx.Context, basketID uuid.UUID) (int64, error) {
	if basketID == uuid.Nil {
		return 0, nil
	}
	var n int64
	err := dbc.Conn(r.db).Model(&types.ReferenceAsset{}).Where("basket_id = ?", basketID).Count(&n).Error
	return n, err
}

func (r *referenceAssetRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := dbc.Conn(r.db).Where("id IN ?", ids).Delete(&types.ReferenceAsset{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
