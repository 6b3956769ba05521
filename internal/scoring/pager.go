package scoring

import (
	"context"

	"assess-backend/internal/assessments"
)

// Pager walks a tenant's submitted assessment ids in stable id order, one
// fixed-size page at a time. It is restartable: construct it with the last
// processed id and it resumes right after.
type Pager struct {
	repo     assessments.Repo
	tenantID string
	cursor   string
	size     int
	done     bool
}

// NewPager constructs a Pager starting after the given cursor ("" for the start).
func NewPager(repo assessments.Repo, tenantID, cursor string, size int) *Pager {
	if size <= 0 {
		size = 50
	}
	return &Pager{repo: repo, tenantID: tenantID, cursor: cursor, size: size}
}

// Next returns the next page of ids, or an empty slice once exhausted.
func (p *Pager) Next(ctx context.Context) ([]string, error) {
	if p.done {
		return []string{}, nil
	}
	ids, err := p.repo.ListSubmittedIDs(ctx, p.tenantID, p.cursor, p.size)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		p.done = true
		return []string{}, nil
	}
	p.cursor = ids[len(ids)-1]
	if len(ids) < p.size {
		p.done = true
	}
	return ids, nil
}

// Cursor reports the last id handed out, for checkpointing.
func (p *Pager) Cursor() string {
	return p.cursor
}
