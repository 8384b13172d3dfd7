package substrate

import (
	"time"

	"github.com/google/uuid"
)

// RawDump is captured source material waiting for extraction.
type RawDump struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BasketID  uuid.UUID `gorm:"type:uuid;column:basket_id;not null;index" json:"basket_id"`
	Body      string    `gorm:"column:body;type:text" json:"body,omitempty"`
	Source    string    `gorm:"column:source" json:"source,omitempty"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (RawDump) TableName() string { return "raw_dumps" }
