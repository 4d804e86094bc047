package scoring

import "github.com/Dosada05/aswat-contest/models"

// ImportMerge appends the incoming participants whose id is not already
// present. Existing records are never updated. Order is existing records first,
// then admitted incoming records in their input order; an id repeated inside
// incoming is admitted once, first occurrence wins.
//
// Repeated calls are idempotent with respect to membership only. Order is
// append-based, so callers that need a stable order must de-duplicate
// upstream.
func ImportMerge(existing, incoming []*models.Participant) (merged []*models.Participant, admitted int) {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	merged = make([]*models.Participant, 0, len(existing)+len(incoming))
	for _, p := range existing {
		if p == nil {
			continue
		}
		seen[p.ID] = struct{}{}
		merged = append(merged, p)
	}
	for _, p := range incoming {
		if p == nil || p.ID == "" {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		merged = append(merged, p)
		admitted++
	}
	return merged, admitted
}
