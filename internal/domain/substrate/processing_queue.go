package substrate

import (
	"time"

	"github.com/google/uuid"
)

// ProcessingQueueItem references a raw dump awaiting the extraction agent.
// The production schema has a FK from dump_id to raw_dumps.id.
type ProcessingQueueItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DumpID    uuid.UUID `gorm:"type:uuid;column:dump_id;not null;index" json:"dump_id"`
	BasketID  uuid.UUID `gorm:"type:uuid;column:basket_id;index" json:"basket_id"`
	Status    string    `gorm:"column:status;not null;default:'pending'" json:"status"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ProcessingQueueItem) TableName() string { return "agent_processing_queue" }
