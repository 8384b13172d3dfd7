package substrate

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ReferenceAsset struct {
	ID                   uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	BasketID             uuid.UUID      `gorm:"type:uuid;column:basket_id;not null;index" json:"basket_id"`
	FileName             string         `gorm:"column:file_name" json:"file_name"`
	MimeType             string         `gorm:"column:mime_type" json:"mime_type,omitempty"`
	AssetType            string         `gorm:"column:asset_type" json:"asset_type,omitempty"`
	ClassificationStatus string         `gorm:"column:classification_status" json:"classification_status,omitempty"`
	Tags                 datatypes.JSON `gorm:"column:tags;type:jsonb" json:"tags,omitempty"`
	StoragePath          string         `gorm:"column:storage_path" json:"storage_path,omitempty"`
	CreatedAt            time.Time      `gorm:"not null;index" json:"created_at"`
}

func (ReferenceAsset) TableName() string { return "reference_assets" }
