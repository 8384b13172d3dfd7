package contextroles

import (
	"time"

	types "github.com/yungbote/work-platform-backend/internal/domain"
)

type Lifecycle string

const (
	LifecycleMissing  Lifecycle = "missing"
	LifecycleDraft    Lifecycle = "draft"
	LifecycleApproved Lifecycle = "approved"
	LifecycleStale    Lifecycle = "stale"
	LifecycleArchived Lifecycle = "archived"
)

// DefaultStaleAfter applies when a block has no refresh policy TTL.
const DefaultStaleAfter = 21 * 24 * time.Hour

// StaleAfter is the freshness window for b: the policy TTL when positive, else DefaultStaleAfter.
func StaleAfter(b *types.Block) time.Duration {
	if p := b.Policy(); p != nil && p.TTLHours > 0 {
		return time.Duration(p.TTLHours * float64(time.Hour))
	}
	return DefaultStaleAfter
}

// IsStale reports whether b was last refreshed before now minus its window.
// A block that was never refreshed is stale.
func IsStale(b *types.Block, now time.Time) bool {
	if b == nil || b.UpdatedAt == nil || b.UpdatedAt.IsZero() {
		return true
	}
	cutoff := now.Add(-StaleAfter(b))
	return b.UpdatedAt.Before(cutoff)
}

// approvedState lists the states that can be approved or stale. PROPOSED is
// active elsewhere but still reads as draft here.
func approvedState(s types.BlockState) bool {
	switch s {
	case types.BlockStateAccepted, types.BlockStateLocked, types.BlockStateConstant:
		return true
	}
	return false
}

// DeriveLifecycle classifies b at now. It reads only state, updated_at and the
// refresh policy TTL.
func DeriveLifecycle(b *types.Block, now time.Time) (Lifecycle, bool) {
	if b == nil || !approvedState(b.State) {
		return LifecycleDraft, false
	}
	if IsStale(b, now) {
		return LifecycleStale, true
	}
	return LifecycleApproved, false
}
