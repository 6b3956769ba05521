package scoring

import (
	"context"
	"time"
)

// RunRecord is the full write-set of one persisting scoring run. SaveRun
// applies it atomically: replace (or append to) the assessment's scores,
// upsert the single snapshot, and flip the assessment to SCORED.
type RunRecord struct {
	AssessmentID string
	Overwrite    bool
	Scores       []Score
	Snapshot     ResultSnapshot
	ScoredAt     time.Time
}

// Repo defines persistence operations for scoring results.
type Repo interface {
	SaveRun(ctx context.Context, run RunRecord) error
	// LatestSnapshot returns the assessment's snapshot or ErrNoSnapshot.
	LatestSnapshot(ctx context.Context, assessmentID string) (ResultSnapshot, error)
}
