package assessments

import "context"

// Repo defines read operations the scoring and recommendation engines need,
// plus the single write they perform (the SCORED transition, done inside the
// scoring transaction on Postgres and via MarkScored on the memory repo).
type Repo interface {
	GetByID(ctx context.Context, tenantID, assessmentID string) (Assessment, error)
	GetVersion(ctx context.Context, versionID string) (Version, error)
	ListQuestions(ctx context.Context, versionID string) ([]Question, error)
	ListOptions(ctx context.Context, versionID string) ([]Option, error)
	ListResponses(ctx context.Context, assessmentID string) ([]Response, error)
	// ListSubmittedIDs returns up to limit submitted assessment ids within the
	// tenant, in ascending id order, strictly after afterID. The stable
	// ordering is what makes batch recompute restartable from a cursor.
	ListSubmittedIDs(ctx context.Context, tenantID, afterID string, limit int) ([]string, error)
}
