package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/work-platform-backend/internal/domain"
)

// SeedProject creates a basket and a project owned by userID linked to it.
func SeedProject(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string) (*types.Project, *types.Basket) {
	tb.Helper()
	basket := &types.Basket{ID: uuid.New(), WorkspaceID: uuid.New(), Name: name, CreatedAt: time.Now().UTC()}
	if err := tx.WithContext(ctx).Create(basket).Error; err != nil {
		tb.Fatalf("seed basket: %v", err)
	}
	project := SeedProjectWithoutBasket(tb, ctx, tx, userID, name)
	project.BasketID = &basket.ID
	if err := tx.WithContext(ctx).Model(project).Update("basket_id", basket.ID).Error; err != nil {
		tb.Fatalf("link basket: %v", err)
	}
	return project, basket
}

func SeedProjectWithoutBasket(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string) *types.Project {
	tb.Helper()
	now := time.Now().UTC()
	p := &types.Project{
		ID:          uuid.New(),
		UserID:      userID,
		WorkspaceID: uuid.New(),
		Name:        name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed project: %v", err)
	}
	return p
}

type BlockOpt func(*types.Block)

func WithRole(role string) BlockOpt {
	return func(b *types.Block) { b.AnchorRole = &role }
}

func WithState(state types.BlockState) BlockOpt {
	return func(b *types.Block) { b.State = state }
}

func WithAnchorStatus(status string) BlockOpt {
	return func(b *types.Block) { b.AnchorStatus = status }
}

func WithUpdatedAt(at *time.Time) BlockOpt {
	return func(b *types.Block) { b.UpdatedAt = at }
}

func WithTitle(title string) BlockOpt {
	return func(b *types.Block) { b.Title = title }
}

func WithTTLHours(hours float64) BlockOpt {
	return func(b *types.Block) {
		raw, _ := json.Marshal(types.RefreshPolicy{TTLHours: hours})
		b.RefreshPolicy = datatypes.JSON(raw)
	}
}

func WithMetadata(meta map[string]any) BlockOpt {
	return func(b *types.Block) {
		raw, _ := json.Marshal(meta)
		b.Metadata = datatypes.JSON(raw)
	}
}

// SeedBlock creates an ACCEPTED block updated now unless options say otherwise.
func SeedBlock(tb testing.TB, ctx context.Context, tx *gorm.DB, basketID uuid.UUID, opts ...BlockOpt) *types.Block {
	tb.Helper()
	now := time.Now().UTC()
	b := &types.Block{
		ID:           uuid.New(),
		BasketID:     basketID,
		Title:        "block",
		Content:      "content",
		SemanticType: "fact",
		State:        types.BlockStateAccepted,
		Metadata:     datatypes.JSON([]byte("{}")),
		CreatedAt:    now,
		UpdatedAt:    &now,
	}
	for _, opt := range opts {
		opt(b)
	}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed block: %v", err)
	}
	return b
}

func SeedRelationship(tb testing.TB, ctx context.Context, tx *gorm.DB, basketID, fromID, toID uuid.UUID) *types.Relationship {
	tb.Helper()
	rel := &types.Relationship{
		ID:               uuid.New(),
		BasketID:         basketID,
		FromID:           fromID,
		ToID:             toID,
		RelationshipType: "supports",
		CreatedAt:        time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(rel).Error; err != nil {
		tb.Fatalf("seed relationship: %v", err)
	}
	return rel
}

func SeedRawDump(tb testing.TB, ctx context.Context, tx *gorm.DB, basketID uuid.UUID) *types.RawDump {
	tb.Helper()
	d := &types.RawDump{ID: uuid.New(), BasketID: basketID, Body: "dump", CreatedAt: time.Now().UTC()}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed raw dump: %v", err)
	}
	return d
}

func SeedQueueItem(tb testing.TB, ctx context.Context, tx *gorm.DB, basketID, dumpID uuid.UUID) *types.ProcessingQueueItem {
	tb.Helper()
	q := &types.ProcessingQueueItem{ID: uuid.New(), DumpID: dumpID, BasketID: basketID, Status: "pending", CreatedAt: time.Now().UTC()}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed queue item: %v", err)
	}
	return q
}

func SeedAsset(tb testing.TB, ctx context.Context, tx *gorm.DB, basketID uuid.UUID, storagePath string) *types.ReferenceAsset {
	tb.Helper()
	a := &types.ReferenceAsset{
		ID:          uuid.New(),
		BasketID:    basketID,
		FileName:    "brief.pdf",
		MimeType:    "application/pdf",
		AssetType:   "document",
		Tags:        datatypes.JSON([]byte("[]")),
		StoragePath: storagePath,
		CreatedAt:   time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed asset: %v", err)
	}
	return a
}

func SeedSchedule(tb testing.TB, ctx context.Context, tx *gorm.DB, projectID uuid.UUID) *types.ProjectSchedule {
	tb.Helper()
	now := time.Now().UTC()
	s := &types.ProjectSchedule{
		ID:        uuid.New(),
		ProjectID: projectID,
		RecipeID:  "weekly-research",
		Frequency: "weekly",
		TimeOfDay: "09:00",
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed schedule: %v", err)
	}
	return s
}

func SeedJob(tb testing.TB, ctx context.Context, tx *gorm.DB, scheduleID uuid.UUID, status string) *types.Job {
	tb.Helper()
	now := time.Now().UTC()
	j := &types.Job{
		ID:               uuid.New(),
		JobType:          "scheduled_recipe",
		ParentScheduleID: &scheduleID,
		Status:           status,
		Payload:          datatypes.JSON([]byte("{}")),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := tx.WithContext(ctx).Create(j).Error; err != nil {
		tb.Fatalf("seed job: %v", err)
	}
	return j
}

func PtrTime(v time.Time) *time.Time { return &v }
