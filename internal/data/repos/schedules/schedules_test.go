package schedules

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/work-platform-backend/internal/data/repos/testutil"
	"github.com/yungbote/work-platform-backend/internal/domain/schedules"
	"github.com/yungbote/work-platform-backend/internal/platform/dbctx"
)

func TestJobRepo_CancelOnlyPendingAndClaimed(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	log := testutil.Logger(t)
	scheduleRepo := NewScheduleRepo(db, log)
	jobRepo := NewJobRepo(db, log)

	project := testutil.SeedProjectWithoutBasket(t, ctx, db, uuid.New(), "Acme")
	s := testutil.SeedSchedule(t, ctx, db, project.ID)
	testutil.SeedJob(t, ctx, db, s.ID, schedules.JobStatusPending)
	testutil.SeedJob(t, ctx, db, s.ID, schedules.JobStatusClaimed)
	testutil.SeedJob(t, ctx, db, s.ID, schedules.JobStatusRunning)
	testutil.SeedJob(t, ctx, db, s.ID, schedules.JobStatusCompleted)
	unrelated := testutil.SeedSchedule(t, ctx, db, uuid.New())
	testutil.SeedJob(t, ctx, db, unrelated.ID, schedules.JobStatusPending)

	ids, err := scheduleRepo.ListIDsByProject(dbc, project.ID)
	if err != nil || len(ids) != 1 || ids[0] != s.ID {
		t.Fatalf("ListIDsByProject: err=%v ids=%v", err, ids)
	}

	n, err := jobRepo.CancelByScheduleIDs(dbc, ids, schedules.CancellableJobStatuses)
	if err != nil || n != 2 {
		t.Fatalf("CancelByScheduleIDs: err=%v n=%d", err, n)
	}
	left, err := jobRepo.CountByScheduleIDs(dbc, ids, schedules.CancellableJobStatuses)
	if err != nil || left != 0 {
		t.Fatalf("expected no cancellable jobs left, err=%v n=%d", err, left)
	}
	cancelled, _ := jobRepo.CountByScheduleIDs(dbc, ids, []string{schedules.JobStatusCancelled})
	if cancelled != 2 {
		t.Fatalf("expected 2 cancelled, got %d", cancelled)
	}
	untouched, _ := jobRepo.CountByScheduleIDs(dbc, []uuid.UUID{unrelated.ID}, []string{schedules.JobStatusPending})
	if untouched != 1 {
		t.Fatalf("unrelated schedule's job should stay pending")
	}

	deleted, err := scheduleRepo.DeleteByIDs(dbc, ids)
	if err != nil || deleted != 1 {
		t.Fatalf("DeleteByIDs: err=%v n=%d", err, deleted)
	}
	if n, _ := scheduleRepo.CountByProject(dbc, project.ID); n != 0 {
		t.Fatalf("expected schedules gone, got %d", n)
	}
}
