package catalog

import "context"

// Repo reads the career/major catalog with skill edges attached. Catalog
// writes happen outside this engine; reads are point-in-time snapshots,
// id-ordered so ranking iteration order is reproducible.
type Repo interface {
	ListCareers(ctx context.Context, tenantID string) ([]Career, error)
	ListMajors(ctx context.Context, tenantID string) ([]Major, error)
}
