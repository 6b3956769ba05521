package recommendations

import "context"

// Repo defines persistence operations for recommendations.
type Repo interface {
	// Replace atomically swaps in freshly computed rows. When overwrite is
	// true, existing rows of exactly the given types for the result are
	// deleted first; rows of other types are left untouched so regenerating
	// one type never disturbs another. Returns the number of rows created.
	Replace(ctx context.Context, tenantID, resultID string, types []Type, recs []Recommendation, overwrite bool) (int, error)

	// ListByResult returns all rows for a result, highest confidence first.
	ListByResult(ctx context.Context, tenantID, resultID string) ([]Recommendation, error)
}
