package assessments

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// GetByID returns an assessment by ID within a tenant.
func (r *PGRepo) GetByID(ctx context.Context, tenantID, assessmentID string) (Assessment, error) {
	const query = `
SELECT id, tenant_id, user_id, version_id, status, submitted_at, scored_at, created_at, updated_at
FROM assessments
WHERE id = $1 AND tenant_id = $2
LIMIT 1`
	var a Assessment
	var submittedAt sql.NullTime
	var scoredAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, assessmentID, tenantID).Scan(
		&a.ID,
		&a.TenantID,
		&a.UserID,
		&a.VersionID,
		&a.Status,
		&submittedAt,
		&scoredAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Assessment{}, ErrNotFound
		}
		return Assessment{}, err
	}
	if submittedAt.Valid {
		a.SubmittedAt = &submittedAt.Time
	}
	if scoredAt.Valid {
		a.ScoredAt = &scoredAt.Time
	}
	return a, nil
}

// GetVersion returns an assessment version by ID.
func (r *PGRepo) GetVersion(ctx context.Context, versionID string) (Version, error) {
	const query = `
SELECT id, name, interpretation_json, created_at
FROM assessment_versions
WHERE id = $1
LIMIT 1`
	var v Version
	var interpretation sql.NullString
	err := r.DB.QueryRowContext(ctx, query, versionID).Scan(
		&v.ID,
		&v.Name,
		&interpretation,
		&v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Version{}, ErrNotFound
		}
		return Version{}, err
	}
	if interpretation.Valid {
		v.InterpretationJSON = []byte(interpretation.String)
	}
	return v, nil
}

// ListQuestions returns a version's questions in position order.
func (r *PGRepo) ListQuestions(ctx context.Context, versionID string) ([]Question, error) {
	const query = `
SELECT id, version_id, type, config, position
FROM questions
WHERE version_id = $1
ORDER BY position, id`
	rows, err := r.DB.QueryContext(ctx, query, versionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Question{}
	for rows.Next() {
		var q Question
		var config sql.NullString
		if err := rows.Scan(&q.ID, &q.VersionID, &q.Type, &config, &q.Position); err != nil {
			return nil, err
		}
		if config.Valid {
			q.Config = []byte(config.String)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// ListOptions returns all options for a version's questions.
func (r *PGRepo) ListOptions(ctx context.Context, versionID string) ([]Option, error) {
	const query = `
SELECT o.id, o.question_id, o.value, o.weight
FROM options o
JOIN questions q ON q.id = o.question_id
WHERE q.version_id = $1
ORDER BY o.question_id, o.id`
	rows, err := r.DB.QueryContext(ctx, query, versionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Option{}
	for rows.Next() {
		var o Option
		if err := rows.Scan(&o.ID, &o.QuestionID, &o.Value, &o.Weight); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListResponses returns all responses recorded for an assessment.
func (r *PGRepo) ListResponses(ctx context.Context, assessmentID string) ([]Response, error) {
	const query = `
SELECT assessment_id, question_id, value
FROM responses
WHERE assessment_id = $1
ORDER BY question_id`
	rows, err := r.DB.QueryContext(ctx, query, assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Response{}
	for rows.Next() {
		var resp Response
		var value sql.NullString
		if err := rows.Scan(&resp.AssessmentID, &resp.QuestionID, &value); err != nil {
			return nil, err
		}
		if value.Valid {
			resp.Value = []byte(value.String)
		}
		out = append(out, resp)
	}
	return out, rows.Err()
}

// ListSubmittedIDs returns submitted assessment ids after the cursor, id-ordered.
func (r *PGRepo) ListSubmittedIDs(ctx context.Context, tenantID, afterID string, limit int) ([]string, error) {
	const query = `
SELECT id
FROM assessments
WHERE tenant_id = $1 AND submitted_at IS NOT NULL AND id > $2
ORDER BY id
LIMIT $3`
	rows, err := r.DB.QueryContext(ctx, query, tenantID, afterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
