package scoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoSaveRunOverwriteTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	run := RunRecord{
		AssessmentID: "as-1",
		Overwrite:    true,
		Scores: []Score{
			{ID: "sc-1", AssessmentID: "as-1", Metric: "analytical", Value: 80, Weight: 1,
				Meta: map[string]any{"raw": 4.0}, CreatedAt: now},
			{ID: "sc-2", AssessmentID: "as-1", Metric: MetricTotalWeight, Value: 4, Weight: 1,
				Meta: map[string]any{"raw": 4.0}, CreatedAt: now},
		},
		Snapshot: ResultSnapshot{
			ID:           "snap-1",
			AssessmentID: "as-1",
			Summary:      map[string]any{"answeredQuestions": 1},
			Scores:       map[string]any{"metrics": map[string]any{}},
		},
		ScoredAt: now,
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM scores").
		WithArgs("as-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO scores").
		WithArgs("sc-1", "as-1", "analytical", 80.0, 1.0, sqlmock.AnyArg(), now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO scores").
		WithArgs("sc-2", "as-1", MetricTotalWeight, 4.0, 1.0, sqlmock.AnyArg(), now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO result_snapshots").
		WithArgs("snap-1", "as-1", sqlmock.AnyArg(), sqlmock.AnyArg(), now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE assessments SET status = 'SCORED'").
		WithArgs("as-1", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := &PGRepo{DB: db}
	if err := repo.SaveRun(context.Background(), run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSaveRunAppendSkipsDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	run := RunRecord{
		AssessmentID: "as-1",
		Overwrite:    false,
		Snapshot:     ResultSnapshot{ID: "snap-1", AssessmentID: "as-1"},
		ScoredAt:     now,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO result_snapshots").
		WithArgs("snap-1", "as-1", sqlmock.AnyArg(), sqlmock.AnyArg(), now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE assessments SET status = 'SCORED'").
		WithArgs("as-1", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := &PGRepo{DB: db}
	if err := repo.SaveRun(context.Background(), run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSaveRunRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM scores").
		WithArgs("as-1").
		WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	repo := &PGRepo{DB: db}
	err = repo.SaveRun(context.Background(), RunRecord{AssessmentID: "as-1", Overwrite: true})
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoLatestSnapshotNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT id, assessment_id, summary, scores").
		WithArgs("as-missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "assessment_id", "summary", "scores", "created_at", "updated_at"}))

	repo := &PGRepo{DB: db}
	if _, err := repo.LatestSnapshot(context.Background(), "as-missing"); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("err = %v, want ErrNoSnapshot", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoLatestSnapshotDecodesDocuments(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "assessment_id", "summary", "scores", "created_at", "updated_at"}).
		AddRow("snap-1", "as-1", `{"answeredQuestions":3}`, `{"metrics":{"analytical":{"value":80}}}`, now, now)
	mock.ExpectQuery("SELECT id, assessment_id, summary, scores").
		WithArgs("as-1").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	snap, err := repo.LatestSnapshot(context.Background(), "as-1")
	if err != nil {
		t.Fatalf("LatestSnapshot: %v", err)
	}
	if snap.ID != "snap-1" || snap.Summary["answeredQuestions"] != 3.0 {
		t.Fatalf("snapshot = %+v", snap)
	}
	values := snap.MetricValues()
	if values["analytical"] != 80 {
		t.Fatalf("metric values = %+v", values)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
