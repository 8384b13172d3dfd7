package substrate

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/work-platform-backend/internal/domain"
	"github.com/yungbote/work-platform-backend/internal/platform/dbctx"
	"github.com/yungbote/work-platform-backend/internal/platform/logger"
)

type RelationshipRepo interface {
	Create(dbc dbctx.Context, rows []*types.Relationship) ([]*types.Relationship, error)
	CountBySource(dbc dbctx.Context, ids []uuid.UUID) (map[uuid.UUID]int, error)
	CountByTarget(dbc dbctx.Context, ids []uuid.UUID) (map[uuid.UUID]int, error)
}

type relationshipRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRelationshipRepo(db *gorm.DB, baseLog *logger.Logger) RelationshipRepo {
	return &relationshipRepo{db: db, log: baseLog.With("repo", "RelationshipRepo")}
}

func (r *relationshipRepo) Create(dbc dbctx.Context, rows []*types.Relationship) ([]*types.Relationship, error) {
	if len(rows) == 0 {
		return []*types.Relationship{}, nil
	}
	for _, rel := range rows {
		if rel.ID == uuid.Nil {
			rel.ID = uuid.New()
		}
		if rel.CreatedAt.IsZero() {
			rel.CreatedAt = time.Now().UTC()
		}
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *relationshipRepo) CountBySource(dbc dbctx.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	return r.countGrouped(dbc, "from_id", ids)
}

func (r *relationshipRepo) CountByTarget(dbc dbctx.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	return r.countGrouped(dbc, "to_id", ids)
}

type edgeCount struct {
	ID uuid.UUID
	N  int64
}

// column is one of the two fixed edge endpoints; it is never caller-controlled.
func (r *relationshipRepo) countGrouped(dbc dbctx.Context, column string, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []edgeCount
	err := dbc.Conn(r.db).
		Model(&types.Relationship{}).
		Select(column+" AS id, COUNT(*) AS n").
		Where(column+" IN ?", ids).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] += int(row.N)
	}
	return out, nil
}
