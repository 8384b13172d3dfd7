package domain

import (
	"github.com/yungbote/work-platform-backend/internal/domain/projects"
	"github.com/yungbote/work-platform-backend/internal/domain/schedules"
	"github.com/yungbote/work-platform-backend/internal/domain/substrate"
)

type (
	Project = projects.Project
	Basket  = projects.Basket

	Block               = substrate.Block
	BlockState          = substrate.BlockState
	SemanticType        = substrate.SemanticType
	RefreshPolicy       = substrate.RefreshPolicy
	RawDump             = substrate.RawDump
	ReferenceAsset      = substrate.ReferenceAsset
	ProcessingQueueItem = substrate.ProcessingQueueItem
	Relationship        = substrate.Relationship

	ProjectSchedule = schedules.ProjectSchedule
	Job             = schedules.Job
)

const (
	BlockStateProposed   = substrate.BlockStateProposed
	BlockStateAccepted   = substrate.BlockStateAccepted
	BlockStateLocked     = substrate.BlockStateLocked
	BlockStateConstant   = substrate.BlockStateConstant
	BlockStateSuperseded = substrate.BlockStateSuperseded
	BlockStateRejected   = substrate.BlockStateRejected

	AnchorStatusProposed = substrate.AnchorStatusProposed
	AnchorStatusAccepted = substrate.AnchorStatusAccepted
	AnchorStatusRejected = substrate.AnchorStatusRejected

	JobStatusPending   = schedules.JobStatusPending
	JobStatusClaimed   = schedules.JobStatusClaimed
	JobStatusCancelled = schedules.JobStatusCancelled
)

// Models lists every persisted type in dependency order; used by migrations and test fixtures.
func Models() []interface{} {
	return []interface{}{
		&Basket{},
		&Project{},
		&Block{},
		&Relationship{},
		&RawDump{},
		&ProcessingQueueItem{},
		&ReferenceAsset{},
		&ProjectSchedule{},
		&Job{},
	}
}
