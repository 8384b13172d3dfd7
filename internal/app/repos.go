package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/work-platform-backend/internal/data/repos"
	"github.com/yungbote/work-platform-backend/internal/platform/logger"
)

type Repos struct {
	Projects repos.ProjectRepo
	Baskets  repos.BasketRepo

	Blocks        repos.BlockRepo
	Relationships repos.RelationshipRepo
	RawDumps      repos.RawDumpRepo
	Queue         repos.ProcessingQueueRepo
	Assets        repos.ReferenceAssetRepo

	Schedules repos.ScheduleRepo
	Jobs      repos.JobRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Projects:      repos.NewProjectRepo(db, log),
		Baskets:       repos.NewBasketRepo(db, log),
		Blocks:        repos.NewBlockRepo(db, log),
		Relationships: repos.NewRelationshipRepo(db, log),
		RawDumps:      repos.NewRawDumpRepo(db, log),
		Queue:         repos.NewProcessingQueueRepo(db, log),
		Assets:        repos.NewReferenceAssetRepo(db, log),
		Schedules:     repos.NewScheduleRepo(db, log),
		Jobs:          repos.NewJobRepo(db, log),
	}
}
