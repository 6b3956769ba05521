package health

import (
	"context"
	"database/sql"
	"time"
)

// Service reports process liveness and storage reachability.
type Service struct {
	DB *sql.DB
}

// NewService constructs a health service. A nil db means the process runs on
// in-memory repositories and storage checks are skipped.
func NewService(db *sql.DB) *Service {
	return &Service{DB: db}
}

// Status returns the health payload. The process is considered healthy even
// when the database ping fails; the payload just reports it.
func (s *Service) Status(ctx context.Context) map[string]any {
	out := map[string]any{"ok": true}
	if s.DB == nil {
		out["storage"] = "memory"
		return out
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.DB.PingContext(pingCtx); err != nil {
		out["storage"] = "unreachable"
		return out
	}
	out["storage"] = "postgres"
	return out
}
