package scoring

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// SaveRun persists a scoring run in one transaction so results are never
// observably half-written.
func (r *PGRepo) SaveRun(ctx context.Context, run RunRecord) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if run.Overwrite {
		if _, err := tx.ExecContext(ctx, `DELETE FROM scores WHERE assessment_id = $1`, run.AssessmentID); err != nil {
			return err
		}
	}

	const insertScore = `
INSERT INTO scores (id, assessment_id, metric, value, weight, meta, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, score := range run.Scores {
		meta, err := marshalJSONB(score.Meta)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, insertScore,
			score.ID,
			score.AssessmentID,
			score.Metric,
			score.Value,
			score.Weight,
			meta,
			score.CreatedAt,
		); err != nil {
			return err
		}
	}

	summary, err := marshalJSONB(run.Snapshot.Summary)
	if err != nil {
		return err
	}
	scoresDoc, err := marshalJSONB(run.Snapshot.Scores)
	if err != nil {
		return err
	}
	const upsertSnapshot = `
INSERT INTO result_snapshots (id, assessment_id, summary, scores, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)
ON CONFLICT (assessment_id)
DO UPDATE SET summary = EXCLUDED.summary, scores = EXCLUDED.scores, updated_at = EXCLUDED.updated_at`
	if _, err := tx.ExecContext(ctx, upsertSnapshot,
		run.Snapshot.ID,
		run.AssessmentID,
		summary,
		scoresDoc,
		run.ScoredAt,
	); err != nil {
		return err
	}

	const markScored = `
UPDATE assessments SET status = 'SCORED', scored_at = $2, updated_at = $2 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, markScored, run.AssessmentID, run.ScoredAt); err != nil {
		return err
	}

	return tx.Commit()
}

// LatestSnapshot returns the assessment's snapshot or ErrNoSnapshot.
func (r *PGRepo) LatestSnapshot(ctx context.Context, assessmentID string) (ResultSnapshot, error) {
	const query = `
SELECT id, assessment_id, summary, scores, created_at, updated_at
FROM result_snapshots
WHERE assessment_id = $1
LIMIT 1`
	var snap ResultSnapshot
	var summary, scores sql.NullString
	err := r.DB.QueryRowContext(ctx, query, assessmentID).Scan(
		&snap.ID,
		&snap.AssessmentID,
		&summary,
		&scores,
		&snap.CreatedAt,
		&snap.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ResultSnapshot{}, ErrNoSnapshot
		}
		return ResultSnapshot{}, err
	}
	if summary.Valid {
		snap.Summary = map[string]any{}
		if err := json.Unmarshal([]byte(summary.String), &snap.Summary); err != nil {
			snap.Summary = nil
		}
	}
	if scores.Valid {
		snap.Scores = map[string]any{}
		if err := json.Unmarshal([]byte(scores.String), &snap.Scores); err != nil {
			snap.Scores = nil
		}
	}
	return snap, nil
}

func marshalJSONB(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
