package catalog

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores catalog entities in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu      sync.RWMutex
	careers map[string]Career
	majors  map[string]Major
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		careers: make(map[string]Career),
		majors:  make(map[string]Major),
	}
}

// PutCareer stores or replaces a career.
func (r *MemoryRepo) PutCareer(c Career) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.careers[c.ID] = c
}

// PutMajor stores or replaces a major.
func (r *MemoryRepo) PutMajor(m Major) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.majors[m.ID] = m
}

// ListCareers returns the tenant's careers, id-ordered.
func (r *MemoryRepo) ListCareers(ctx context.Context, tenantID string) ([]Career, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Career{}
	for _, c := range r.careers {
		if c.TenantID == tenantID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListMajors returns the tenant's majors, id-ordered.
func (r *MemoryRepo) ListMajors(ctx context.Context, tenantID string) ([]Major, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Major{}
	for _, m := range r.majors {
		if m.TenantID == tenantID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
