package substrate

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type BlockState string

const (
	BlockStateProposed   BlockState = "PROPOSED"
	BlockStateAccepted   BlockState = "ACCEPTED"
	BlockStateLocked     BlockState = "LOCKED"
	BlockStateConstant   BlockState = "CONSTANT"
	BlockStateSuperseded BlockState = "SUPERSEDED"
	BlockStateRejected   BlockState = "REJECTED"
)

// ActiveBlockStates are the states a purge archives and the editors treat as live.
var ActiveBlockStates = []BlockState{
	BlockStateProposed,
	BlockStateAccepted,
	BlockStateLocked,
	BlockStateConstant,
}

// IsActive reports membership in ActiveBlockStates.
func (s BlockState) IsActive() bool {
	for _, a := range ActiveBlockStates {
		if s == a {
			return true
		}
	}
	return false
}

type SemanticType string

const (
	SemanticFact       SemanticType = "fact"
	SemanticIntent     SemanticType = "intent"
	SemanticMetric     SemanticType = "metric"
	SemanticInsight    SemanticType = "insight"
	SemanticContext    SemanticType = "context"
	SemanticConstraint SemanticType = "constraint"
	SemanticAssumption SemanticType = "assumption"
	SemanticPrinciple  SemanticType = "principle"
	SemanticRationale  SemanticType = "rationale"
	SemanticObjective  SemanticType = "objective"
)

const (
	AnchorStatusProposed = "proposed"
	AnchorStatusAccepted = "accepted"
	AnchorStatusRejected = "rejected"
)

// RefreshPolicy controls how long an approved block stays fresh.
type RefreshPolicy struct {
	TTLHours     float64 `json:"ttl_hours,omitempty"`
	SourceRecipe string  `json:"source_recipe,omitempty"`
	AutoRefresh  bool    `json:"auto_refresh,omitempty"`
}

// Block is a unit of project knowledge. UpdatedAt is nullable: rows imported
// before the column existed carry NULL and are treated as stale.
type Block struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	BasketID         uuid.UUID      `gorm:"type:uuid;column:basket_id;not null;index" json:"basket_id"`
	Title            string         `gorm:"column:title" json:"title"`
	Content          string         `gorm:"column:content;type:text" json:"content"`
	SemanticType     SemanticType   `gorm:"column:semantic_type;index" json:"semantic_type"`
	State            BlockState     `gorm:"column:state;not null;index" json:"state"`
	AnchorRole       *string        `gorm:"column:anchor_role;index" json:"anchor_role,omitempty"`
	AnchorStatus     string         `gorm:"column:anchor_status;index" json:"anchor_status,omitempty"`
	AnchorConfidence *float64       `gorm:"column:anchor_confidence" json:"anchor_confidence,omitempty"`
	RefreshPolicy    datatypes.JSON `gorm:"column:refresh_policy;type:jsonb" json:"refresh_policy,omitempty"`
	Metadata         datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt        time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt        *time.Time     `gorm:"column:updated_at;autoUpdateTime:false;index" json:"updated_at,omitempty"`
}

func (Block) TableName() string { return "blocks" }

// Role returns the anchor role or "" when the block is untagged.
func (b *Block) Role() string {
	if b == nil || b.AnchorRole == nil {
		return ""
	}
	return *b.AnchorRole
}

// Policy decodes the refresh policy. Missing or malformed policies yield nil.
func (b *Block) Policy() *RefreshPolicy {
	if b == nil || len(b.RefreshPolicy) == 0 {
		return nil
	}
	var p RefreshPolicy
	if err := json.Unmarshal(b.RefreshPolicy, &p); err != nil {
		return nil
	}
	return &p
}

// MetadataMap decodes Metadata into a generic map; failures yield an empty map.
func (b *Block) MetadataMap() map[string]any {
	out := map[string]any{}
	if b == nil || len(b.Metadata) == 0 {
		return out
	}
	_ = json.Unmarshal(b.Metadata, &out)
	return out
}
