package schedules

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	JobStatusPending   = "pending"
	JobStatusClaimed   = "claimed"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
	JobStatusCancelled = "cancelled"
)

// CancellableJobStatuses are the statuses a job can be cancelled from before a worker starts it.
var CancellableJobStatuses = []string{JobStatusPending, JobStatusClaimed}

type Job struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	JobType          string         `gorm:"column:job_type;not null;index" json:"job_type"`
	ParentScheduleID *uuid.UUID     `gorm:"type:uuid;column:parent_schedule_id;index" json:"parent_schedule_id,omitempty"`
	Status           string         `gorm:"column:status;not null;index" json:"status"`
	Payload          datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload,omitempty"`
	CreatedAt        time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null" json:"updated_at"`
}

func (Job) TableName() string { return "jobs" }
