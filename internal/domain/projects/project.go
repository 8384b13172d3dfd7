package projects

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Project is the user-facing unit of work. Each project owns at most one basket.
type Project struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;column:user_id;not null;index" json:"user_id"`
	WorkspaceID uuid.UUID      `gorm:"type:uuid;column:workspace_id;index" json:"workspace_id"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	Description string         `gorm:"column:description;type:text" json:"description,omitempty"`
	BasketID    *uuid.UUID     `gorm:"type:uuid;column:basket_id;index" json:"basket_id,omitempty"`
	Metadata    datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (Project) TableName() string { return "projects" }

// HasBasket reports whether the project is linked to a basket.
func (p *Project) HasBasket() bool {
	return p != nil && p.BasketID != nil && *p.BasketID != uuid.Nil
}

// OwnedBy reports whether userID is the owning principal.
func (p *Project) OwnedBy(userID uuid.UUID) bool {
	return p != nil && userID != uuid.Nil && p.UserID == userID
}
