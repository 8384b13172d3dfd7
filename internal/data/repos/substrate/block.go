package substrate

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/work-platform-backend/internal/domain"
	"github.com/yungbote/work-platform-backend/internal/domain/substrate"
	"github.com/yungbote/work-platform-backend/internal/platform/dbctx"
	"github.com/yungbote/work-platform-backend/internal/platform/logger"
)

type BlockRepo interface {
	Create(dbc dbctx.Context, rows []*types.Block) ([]*types.Block, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Block, error)
	ListAnchored(dbc dbctx.Context, basketID uuid.UUID) ([]*types.Block, error)
	ListAnchoredByRoles(dbc dbctx.Context, basketID uuid.UUID, roles []string, anchorStatus string) ([]*types.Block, error)
	CountActive(dbc dbctx.Context, basketID uuid.UUID) (int64, error)
	ArchiveActive(dbc dbctx.Context, basketID uuid.UUID, at time.Time) (int64, error)
}

type blockRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBlockRepo(db *gorm.DB, baseLog *logger.Logger) BlockRepo {
	return &blockRepo{db: db, log: baseLog.With("repo", "BlockRepo")}
}

func activeStates() []string {
	out := make([]string, 0, len(substrate.ActiveBlockStates))
	for _, s := range substrate.ActiveBlockStates {
		out = append(out, string(s))
	}
	return out
}

func (r *blockRepo) Create(dbc dbctx.Context, rows []*types.Block) ([]*types.Block, error) {
	if len(rows) == 0 {
		return []*types.Block{}, nil
	}
	now := time.Now().UTC()
	for _, b := range rows {
		if b.ID == uuid.Nil {
			b.ID = uuid.New()
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *blockRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Block, error) {
	var out []*types.Block
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListAnchored returns every block in the basket tagged with an anchor role, regardless of state.
func (r *blockRepo) ListAnchored(dbc dbctx.Context, basketID uuid.UUID) ([]*types.Block, error) {
	var out []*types.Block
	if basketID == uuid.Nil {
		return out, nil
	}
	err := dbc.Conn(r.db).
		Where("basket_id = ? AND anchor_role IS NOT NULL", basketID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *blockRepo) ListAnchoredByRoles(dbc dbctx.Context, basketID uuid.UUID, roles []string, anchorStatus string) ([]*types.Block, error) {
	var out []*types.Block
	if basketID == uuid.Nil || len(roles) == 0 {
		return out, nil
	}
	q := dbc.Conn(r.db).Where("basket_id = ? AND anchor_role IN ?", basketID, roles)
	if anchorStatus != "" {
		q = q.Where("anchor_status = ?", anchorStatus)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *blockRepo) CountActive(dbc dbctx.Context, basketID uuid.UUID) (int64, error) {
	if basketID == uuid.Nil {
		return 0, nil
	}
	var n int64
	err := dbc.Conn(r.db).
		Model(&types.Block{}).
		Where("basket_id = ? AND state IN ?", basketID, activeStates()).
		Count(&n).Error
	return n, err
}

// ArchiveActive moves every active block in the basket to SUPERSEDED and reports how many changed.
func (r *blockRepo) ArchiveActive(dbc dbctx.Context, basketID uuid.UUID, at time.Time) (int64, error) {
	if basketID == uuid.Nil {
		return 0, nil
	}
	res := dbc.Conn(r.db).
		Model(&types.Block{}).
		Where("basket_id = ? AND state IN ?", basketID, activeStates()).
		Updates(map[string]interface{}{
			"state":      string(substrate.BlockStateSuperseded),
			"updated_at": at,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
