package purge

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Mode string

const (
	ModeArchiveAll  Mode = "archive_all"
	ModeRedactDumps Mode = "redact_dumps"
)

func (m Mode) Valid() bool {
	return m == ModeArchiveAll || m == ModeRedactDumps
}

type PurgeInput struct {
	UserID           uuid.UUID
	ProjectID        uuid.UUID
	Mode             Mode
	ConfirmationText string
}

type Totals struct {
	ArchivedBlocks   int64 `json:"archivedBlocks"`
	RedactedDumps    int64 `json:"redactedDumps"`
	DeletedAssets    int64 `json:"deletedAssets"`
	DeletedSchedules int64 `json:"deletedSchedules"`
	CancelledJobs    int64 `json:"cancelledJobs"`
}

// Sum counts archived, redacted and deleted rows. Cancelled jobs are reported but not counted.
func (t Totals) Sum() int64 {
	return t.ArchivedBlocks + t.RedactedDumps + t.DeletedAssets + t.DeletedSchedules
}

type PurgeResult struct {
	Success         bool   `json:"success"`
	TotalOperations int64  `json:"total_operations"`
	Totals          Totals `json:"totals"`
	Message         string `json:"message"`
}

type Preview struct {
	Blocks    int64 `json:"blocks"`
	Dumps     int64 `json:"dumps"`
	Assets    int64 `json:"assets"`
	Schedules int64 `json:"schedules"`
}

const noDataMessage = "No data to purge"

func countPhrase(n int64, noun, verb string) string {
	if n != 1 {
		noun += "s"
	}
	return fmt.Sprintf("%d %s %s", n, noun, verb)
}

// Message lists the non-zero categories of t.
func (t Totals) Message() string {
	parts := make([]string, 0, 5)
	if t.ArchivedBlocks > 0 {
		parts = append(parts, countPhrase(t.ArchivedBlocks, "block", "archived"))
	}
	if t.RedactedDumps > 0 {
		parts = append(parts, countPhrase(t.RedactedDumps, "dump", "redacted"))
	}
	if t.DeletedAssets > 0 {
		parts = append(parts, countPhrase(t.DeletedAssets, "asset", "deleted"))
	}
	if t.DeletedSchedules > 0 {
		parts = append(parts, countPhrase(t.DeletedSchedules, "schedule", "deleted"))
	}
	if t.CancelledJobs > 0 {
		parts = append(parts, countPhrase(t.CancelledJobs, "job", "cancelled"))
	}
	if len(parts) == 0 {
		return noDataMessage
	}
	return "Purged " + strings.Join(parts, ", ")
}

func newResult(t Totals) PurgeResult {
	return PurgeResult{
		Success:         true,
		TotalOperations: t.Sum(),
		Totals:          t,
		Message:         t.Message(),
	}
}
