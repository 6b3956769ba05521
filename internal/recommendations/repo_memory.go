package recommendations

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores recommendations in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	rows map[string][]Recommendation // by result ID
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: make(map[string][]Recommendation)}
}

// Replace deletes rows of the requested types (when overwrite) and stores the fresh set.
func (r *MemoryRepo) Replace(ctx context.Context, tenantID, resultID string, types []Type, recs []Recommendation, overwrite bool) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.rows[resultID]
	if overwrite {
		drop := make(map[Type]bool, len(types))
		for _, t := range types {
			drop[t] = true
		}
		filtered := kept[:0:0]
		for _, rec := range kept {
			if !(rec.TenantID == tenantID && drop[rec.Type]) {
				filtered = append(filtered, rec)
			}
		}
		kept = filtered
	}
	kept = append(kept, recs...)
	r.rows[resultID] = kept
	return len(recs), nil
}

// ListByResult returns all rows for a result, highest confidence first.
func (r *MemoryRepo) ListByResult(ctx context.Context, tenantID, resultID string) ([]Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Recommendation{}
	for _, rec := range r.rows[resultID] {
		if rec.TenantID == tenantID {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].TargetID < out[j].TargetID
	})
	return out, nil
}
