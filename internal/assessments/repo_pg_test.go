package assessments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoGetByIDScansNullableTimestamps(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "tenant_id", "user_id", "version_id", "status", "submitted_at", "scored_at", "created_at", "updated_at",
	}).AddRow("as-1", "tenant-1", "user-1", "v-1", StatusSubmitted, now, nil, now, now)
	mock.ExpectQuery("SELECT id, tenant_id, user_id").
		WithArgs("as-1", "tenant-1").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	a, err := repo.GetByID(context.Background(), "tenant-1", "as-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if a.SubmittedAt == nil || a.ScoredAt != nil {
		t.Fatalf("timestamps = %v, %v", a.SubmittedAt, a.ScoredAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT id, tenant_id, user_id").
		WithArgs("as-1", "tenant-2").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "tenant_id", "user_id", "version_id", "status", "submitted_at", "scored_at", "created_at", "updated_at",
		}))

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByID(context.Background(), "tenant-2", "as-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListSubmittedIDsUsesCursor(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	rows := sqlmock.NewRows([]string{"id"}).AddRow("as-2").AddRow("as-3")
	mock.ExpectQuery("SELECT id").
		WithArgs("tenant-1", "as-1", 2).
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	ids, err := repo.ListSubmittedIDs(context.Background(), "tenant-1", "as-1", 2)
	if err != nil {
		t.Fatalf("ListSubmittedIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != "as-2" || ids[1] != "as-3" {
		t.Fatalf("ids = %v", ids)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
