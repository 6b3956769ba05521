package assessments

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores assessment data in memory and is safe for concurrent use.
// It backs dev mode without DATABASE_URL and service-level tests.
type MemoryRepo struct {
	mu          sync.RWMutex
	assessments map[string]Assessment
	versions    map[string]Version
	questions   map[string][]Question // by version ID
	options     map[string][]Option   // by question ID
	responses   map[string][]Response // by assessment ID
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		assessments: make(map[string]Assessment),
		versions:    make(map[string]Version),
		questions:   make(map[string][]Question),
		options:     make(map[string][]Option),
		responses:   make(map[string][]Response),
	}
}

// PutAssessment stores or replaces an assessment.
func (r *MemoryRepo) PutAssessment(a Assessment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assessments[a.ID] = a
}

// PutVersion stores or replaces a version.
func (r *MemoryRepo) PutVersion(v Version) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.versions[v.ID] = v
}

// PutQuestion appends a question to its version.
func (r *MemoryRepo) PutQuestion(q Question) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.questions[q.VersionID] = append(r.questions[q.VersionID], q)
}

// PutOption appends an option to its question.
func (r *MemoryRepo) PutOption(o Option) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.options[o.QuestionID] = append(r.options[o.QuestionID], o)
}

// PutResponse appends a response to its assessment.
func (r *MemoryRepo) PutResponse(resp Response) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[resp.AssessmentID] = append(r.responses[resp.AssessmentID], resp)
}

// MarkScored flips an assessment to SCORED and stamps the scoring time.
func (r *MemoryRepo) MarkScored(ctx context.Context, assessmentID string, scoredAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assessments[assessmentID]
	if !ok {
		return ErrNotFound
	}
	a.Status = StatusScored
	a.ScoredAt = &scoredAt
	a.UpdatedAt = time.Now().UTC()
	r.assessments[assessmentID] = a
	return nil
}

// GetByID returns an assessment by ID within a tenant.
func (r *MemoryRepo) GetByID(ctx context.Context, tenantID, assessmentID string) (Assessment, error) {
	if err := ctx.Err(); err != nil {
		return Assessment{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.assessments[assessmentID]
	if !ok || a.TenantID != tenantID {
		return Assessment{}, ErrNotFound
	}
	return a, nil
}

// GetVersion returns a version by ID.
func (r *MemoryRepo) GetVersion(ctx context.Context, versionID string) (Version, error) {
	if err := ctx.Err(); err != nil {
		return Version{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.versions[versionID]
	if !ok {
		return Version{}, ErrNotFound
	}
	return v, nil
}

// ListQuestions returns a version's questions in position order.
func (r *MemoryRepo) ListQuestions(ctx context.Context, versionID string) ([]Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]Question{}, r.questions[versionID]...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ListOptions returns all options for a version's questions.
func (r *MemoryRepo) ListOptions(ctx context.Context, versionID string) ([]Option, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Option{}
	for _, q := range r.questions[versionID] {
		out = append(out, r.options[q.ID]...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].QuestionID != out[j].QuestionID {
			return out[i].QuestionID < out[j].QuestionID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ListResponses returns all responses for an assessment.
func (r *MemoryRepo) ListResponses(ctx context.Context, assessmentID string) ([]Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]Response{}, r.responses[assessmentID]...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].QuestionID < out[j].QuestionID
	})
	return out, nil
}

// ListSubmittedIDs returns submitted assessment ids after the cursor, id-ordered.
func (r *MemoryRepo) ListSubmittedIDs(ctx context.Context, tenantID, afterID string, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []string{}, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := []string{}
	for id, a := range r.assessments {
		if a.TenantID == tenantID && a.SubmittedAt != nil && id > afterID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}
