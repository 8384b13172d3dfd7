package projects

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/work-platform-backend/internal/domain"
	"github.com/yungbote/work-platform-backend/internal/platform/dbctx"
	"github.com/yungbote/work-platform-backend/internal/platform/logger"
)

type BasketRepo interface {
	Create(dbc dbctx.Context, rows []*types.Basket) ([]*types.Basket, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Basket, error)
}

type basketRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBasketRepo(db *gorm.DB, baseLog *logger.Logger) BasketRepo {
	return &basketRepo{db: db, log: baseLog.With("repo", "BasketRepo")}
}

func (r *basketRepo) Create(dbc dbctx.Context, rows []*types.Basket) ([]*types.Basket, error) {
	if len(rows) == 0 {
		return []*types.Basket{}, nil
	}
	for _, b := range rows {
		if b.ID == uuid.Nil {
			b.ID = uuid.New()
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = time.Now().UTC()
		}
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByID returns nil, nil when no row matches.
func (r *basketRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Basket, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.Basket
	if err := dbc.Conn(r.db).Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
