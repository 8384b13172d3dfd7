package contextroles

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/work-platform-backend/internal/domain"
)

// BlockSnapshot is the subset of a block shown next to its role.
type BlockSnapshot struct {
	ID               uuid.UUID          `json:"id"`
	Title            string             `json:"title"`
	Content          string             `json:"content"`
	SemanticType     types.SemanticType `json:"semantic_type"`
	State            types.BlockState   `json:"state"`
	AnchorStatus     string             `json:"anchor_status,omitempty"`
	AnchorConfidence *float64           `json:"anchor_confidence,omitempty"`
	RefreshPolicy    json.RawMessage    `json:"refresh_policy,omitempty"`
	UpdatedAt        *time.Time         `json:"updated_at,omitempty"`
}

// RoleStatusSummary is computed per request and never stored.
type RoleStatusSummary struct {
	AnchorKey       string         `json:"anchor_key"`
	Label           string         `json:"label"`
	Scope           Scope          `json:"scope"`
	Ordering        int            `json:"ordering"`
	Lifecycle       Lifecycle      `json:"lifecycle"`
	IsStale         bool           `json:"is_stale"`
	Relationships   int            `json:"relationships"`
	LinkedSubstrate *BlockSnapshot `json:"linked_substrate"`
	RegistryID      uuid.UUID      `json:"registry_id"`
	LastRefreshedAt *time.Time     `json:"last_refreshed_at"`
}

func snapshot(b *types.Block) *BlockSnapshot {
	s := &BlockSnapshot{
		ID:               b.ID,
		Title:            b.Title,
		Content:          b.Content,
		SemanticType:     b.SemanticType,
		State:            b.State,
		AnchorStatus:     b.AnchorStatus,
		AnchorConfidence: b.AnchorConfidence,
		UpdatedAt:        b.UpdatedAt,
	}
	if len(b.RefreshPolicy) > 0 && json.Valid(b.RefreshPolicy) {
		s.RefreshPolicy = json.RawMessage(b.RefreshPolicy)
	}
	return s
}

// summarize builds the summary for one anchored block.
func summarize(reg *Registry, b *types.Block, relationships int, now time.Time) RoleStatusSummary {
	key := b.Role()
	lifecycle, stale := DeriveLifecycle(b, now)
	out := RoleStatusSummary{
		AnchorKey:       key,
		Scope:           ScopeCustom,
		Lifecycle:       lifecycle,
		IsStale:         stale,
		Relationships:   relationships,
		LinkedSubstrate: snapshot(b),
		RegistryID:      b.ID,
		LastRefreshedAt: b.UpdatedAt,
	}
	// Registered roles report the registry key, so "Problem" counts as "problem".
	if def, ok := reg.Lookup(key); ok {
		out.AnchorKey = def.Key
		out.Label = def.Label
		out.Scope = def.Scope
		out.Ordering = def.Ordering
		return out
	}
	meta := b.MetadataMap()
	out.Label = customLabel(meta, b.Title, key)
	out.Ordering = metaInt(meta, "anchor_ordering")
	return out
}

func customLabel(meta map[string]any, title, key string) string {
	if v, ok := meta["anchor_label"].(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	if strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	return key
}

func metaInt(meta map[string]any, key string) int {
	switch v := meta[key].(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 0
}

// SortSummaries orders by scope rank, then ordering, then label. Equal keys keep input order.
func SortSummaries(rows []RoleStatusSummary) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if ra, rb := a.Scope.Rank(), b.Scope.Rank(); ra != rb {
			return ra < rb
		}
		if a.Ordering != b.Ordering {
			return a.Ordering < b.Ordering
		}
		return a.Label < b.Label
	})
}

type Stats struct {
	Total              int      `json:"total"`
	Approved           int      `json:"approved"`
	Stale              int      `json:"stale"`
	Draft              int      `json:"draft"`
	Relationships      int      `json:"relationships"`
	RequiredMissing    []string `json:"required_missing"`
	FoundationComplete bool     `json:"foundation_complete"`
}

type FoundationStatus struct {
	Complete bool     `json:"complete"`
	Missing  []string `json:"missing"`
	Present  []string `json:"present"`
}

type FreshnessReport struct {
	Fresh        bool     `json:"fresh"`
	StaleRoles   []string `json:"stale_roles"`
	MissingRoles []string `json:"missing_roles"`
}

// Foundation checks each required role for at least one approved summary.
func Foundation(rows []RoleStatusSummary, required []string) FoundationStatus {
	approved := map[string]bool{}
	for _, r := range rows {
		if r.Lifecycle == LifecycleApproved {
			approved[r.AnchorKey] = true
		}
	}
	out := FoundationStatus{Missing: []string{}, Present: []string{}}
	for _, role := range required {
		if approved[role] {
			out.Present = append(out.Present, role)
		} else {
			out.Missing = append(out.Missing, role)
		}
	}
	out.Complete = len(out.Missing) == 0
	return out
}

// Summarize aggregates lifecycle counts and foundation completeness.
func Summarize(rows []RoleStatusSummary, required []string) Stats {
	st := Stats{Total: len(rows)}
	for _, r := range rows {
		switch r.Lifecycle {
		case LifecycleApproved:
			st.Approved++
		case LifecycleStale:
			st.Stale++
		case LifecycleDraft:
			st.Draft++
		}
		st.Relationships += r.Relationships
	}
	f := Foundation(rows, required)
	st.RequiredMissing = f.Missing
	st.FoundationComplete = f.Complete
	return st
}

// normalizeRoles trims, drops blanks and collapses duplicates, keeping first-seen order.
func normalizeRoles(roles []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		r = strings.TrimSpace(r)
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}

// newer reports whether a was refreshed after b. A nil time never wins.
func newer(a, b *types.Block) bool {
	if a.UpdatedAt == nil {
		return false
	}
	if b.UpdatedAt == nil {
		return true
	}
	return a.UpdatedAt.After(*b.UpdatedAt)
}

// Freshness picks the latest block per role and reports missing and stale roles.
func Freshness(blocks []*types.Block, roles []string, now time.Time) FreshnessReport {
	latest := map[string]*types.Block{}
	for _, b := range blocks {
		role := b.Role()
		if cur, ok := latest[role]; !ok || newer(b, cur) {
			latest[role] = b
		}
	}
	out := FreshnessReport{StaleRoles: []string{}, MissingRoles: []string{}}
	for _, role := range roles {
		b, ok := latest[role]
		if !ok {
			out.MissingRoles = append(out.MissingRoles, role)
			continue
		}
		if IsStale(b, now) {
			out.StaleRoles = append(out.StaleRoles, role)
		}
	}
	out.Fresh = len(out.MissingRoles) == 0 && len(out.StaleRoles) == 0
	return out
}
