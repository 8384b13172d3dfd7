package schedules

import (
	"time"

	"github.com/google/uuid"
)

// ProjectSchedule binds a recipe to a recurring cadence. The external scheduler
// turns due schedules into Jobs.
type ProjectSchedule struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID     uuid.UUID  `gorm:"type:uuid;column:project_id;not null;index" json:"project_id"`
	RecipeID      string     `gorm:"column:recipe_id;not null" json:"recipe_id"`
	Frequency     string     `gorm:"column:frequency;not null" json:"frequency"`
	DayOfWeek     *int       `gorm:"column:day_of_week" json:"day_of_week,omitempty"`
	TimeOfDay     string     `gorm:"column:time_of_day" json:"time_of_day,omitempty"`
	Enabled       bool       `gorm:"column:enabled;not null" json:"enabled"`
	NextRunAt     *time.Time `gorm:"column:next_run_at;index" json:"next_run_at,omitempty"`
	LastRunAt     *time.Time `gorm:"column:last_run_at" json:"last_run_at,omitempty"`
	LastRunStatus string     `gorm:"column:last_run_status" json:"last_run_status,omitempty"`
	RunCount      int        `gorm:"column:run_count;not null;default:0" json:"run_count"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

func (ProjectSchedule) TableName() string { return "project_schedules" }
