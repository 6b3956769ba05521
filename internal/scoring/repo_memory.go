package scoring

import (
	"context"
	"sync"

	"assess-backend/internal/assessments"
)

// MemoryRepo stores scoring results in memory and is safe for concurrent use.
// Assessments, when set, receives the SCORED transition; Postgres does the
// same flip inside the SaveRun transaction.
type MemoryRepo struct {
	mu          sync.RWMutex
	scores      map[string][]Score
	snapshots   map[string]ResultSnapshot
	Assessments *assessments.MemoryRepo
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo(assessmentRepo *assessments.MemoryRepo) *MemoryRepo {
	return &MemoryRepo{
		scores:      make(map[string][]Score),
		snapshots:   make(map[string]ResultSnapshot),
		Assessments: assessmentRepo,
	}
}

// SaveRun applies a scoring run's write-set.
func (r *MemoryRepo) SaveRun(ctx context.Context, run RunRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	if run.Overwrite {
		r.scores[run.AssessmentID] = nil
	}
	r.scores[run.AssessmentID] = append(r.scores[run.AssessmentID], run.Scores...)

	snap := run.Snapshot
	if existing, ok := r.snapshots[run.AssessmentID]; ok {
		snap.ID = existing.ID
		snap.CreatedAt = existing.CreatedAt
	} else {
		snap.CreatedAt = run.ScoredAt
	}
	snap.UpdatedAt = run.ScoredAt
	r.snapshots[run.AssessmentID] = snap
	r.mu.Unlock()

	if r.Assessments != nil {
		return r.Assessments.MarkScored(ctx, run.AssessmentID, run.ScoredAt)
	}
	return nil
}

// LatestSnapshot returns the assessment's snapshot or ErrNoSnapshot.
func (r *MemoryRepo) LatestSnapshot(ctx context.Context, assessmentID string) (ResultSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return ResultSnapshot{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap, ok := r.snapshots[assessmentID]
	if !ok {
		return ResultSnapshot{}, ErrNoSnapshot
	}
	return snap, nil
}

// Scores returns the stored score rows for an assessment.
func (r *MemoryRepo) Scores(assessmentID string) []Score {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Score{}, r.scores[assessmentID]...)
}
