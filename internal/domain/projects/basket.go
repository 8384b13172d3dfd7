package projects

import (
	"time"

	"github.com/google/uuid"
)

type Basket struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;column:workspace_id;index" json:"workspace_id"`
	Name        string    `gorm:"column:name" json:"name,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (Basket) TableName() string { return "baskets" }
