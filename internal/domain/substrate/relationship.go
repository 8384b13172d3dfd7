package substrate

import (
	"time"

	"github.com/google/uuid"
)

// Relationship is a directed graph edge between two substrate items.
type Relationship struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BasketID         uuid.UUID `gorm:"type:uuid;column:basket_id;index" json:"basket_id"`
	FromID           uuid.UUID `gorm:"type:uuid;column:from_id;not null;index" json:"from_id"`
	ToID             uuid.UUID `gorm:"type:uuid;column:to_id;not null;index" json:"to_id"`
	RelationshipType string    `gorm:"column:relationship_type" json:"relationship_type"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
}

func (Relationship) TableName() string { return "substrate_relationships" }
