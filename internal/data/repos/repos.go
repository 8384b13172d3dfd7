package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/work-platform-backend/internal/data/repos/projects"
	"github.com/yungbote/work-platform-backend/internal/data/repos/schedules"
	"github.com/yungbote/work-platform-backend/internal/data/repos/substrate"
	"github.com/yungbote/work-platform-backend/internal/platform/logger"
)

type ProjectRepo = projects.ProjectRepo
type BasketRepo = projects.BasketRepo

type BlockRepo = substrate.BlockRepo
type RelationshipRepo = substrate.RelationshipRepo
type RawDumpRepo = substrate.RawDumpRepo
type ProcessingQueueRepo = substrate.ProcessingQueueRepo
type ReferenceAssetRepo = substrate.ReferenceAssetRepo

type ScheduleRepo = schedules.ScheduleRepo
type JobRepo = schedules.JobRepo

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	return projects.NewProjectRepo(db, baseLog)
}
func NewBasketRepo(db *gorm.DB, baseLog *logger.Logger) BasketRepo {
	return projects.NewBasketRepo(db, baseLog)
}

func NewBlockRepo(db *gorm.DB, baseLog *logger.Logger) BlockRepo {
	return substrate.NewBlockRepo(db, baseLog)
}
func NewRelationshipRepo(db *gorm.DB, baseLog *logger.Logger) RelationshipRepo {
	return substrate.NewRelationshipRepo(db, baseLog)
}
func NewRawDumpRepo(db *gorm.DB, baseLog *logger.Logger) RawDumpRepo {
	return substrate.NewRawDumpRepo(db, baseLog)
}
func NewProcessingQueueRepo(db *gorm.DB, baseLog *logger.Logger) ProcessingQueueRepo {
	return substrate.NewProcessingQueueRepo(db, baseLog)
}
func NewReferenceAssetRepo(db *gorm.DB, baseLog *logger.Logger) ReferenceAssetRepo {
	return substrate.NewReferenceAssetRepo(db, baseLog)
}

func NewScheduleRepo(db *gorm.DB, baseLog *logger.Logger) ScheduleRepo {
	return schedules.NewScheduleRepo(db, baseLog)
}
func NewJobRepo(db *gorm.DB, baseLog *logger.Logger) JobRepo {
	return schedules.NewJobRepo(db, baseLog)
}
