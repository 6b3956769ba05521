package recommendations

import (
	"context"
	"database/sql"
	"encoding/json"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Replace deletes rows of the requested types (when overwrite) and inserts
// the fresh set in one transaction.
func (r *PGRepo) Replace(ctx context.Context, tenantID, resultID string, types []Type, recs []Recommendation, overwrite bool) (int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if overwrite {
		const del = `DELETE FROM recommendations WHERE tenant_id = $1 AND result_id = $2 AND type = $3`
		for _, t := range types {
			if _, err := tx.ExecContext(ctx, del, tenantID, resultID, string(t)); err != nil {
				return 0, err
			}
		}
	}

	const insert = `
INSERT INTO recommendations (id, tenant_id, result_id, type, target_id, target_name, confidence, factors, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	created := 0
	for _, rec := range recs {
		factors, err := marshalFactors(rec.Factors)
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, insert,
			rec.ID,
			rec.TenantID,
			rec.ResultID,
			string(rec.Type),
			rec.TargetID,
			rec.TargetName,
			rec.Confidence,
			factors,
			rec.CreatedAt,
		); err != nil {
			return 0, err
		}
		created++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return created, nil
}

// ListByResult returns all rows for a result, highest confidence first.
func (r *PGRepo) ListByResult(ctx context.Context, tenantID, resultID string) ([]Recommendation, error) {
	const query = `
SELECT id, tenant_id, result_id, type, target_id, target_name, confidence, factors, created_at
FROM recommendations
WHERE tenant_id = $1 AND result_id = $2
ORDER BY confidence DESC, target_id`
	rows, err := r.DB.QueryContext(ctx, query, tenantID, resultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Recommendation{}
	for rows.Next() {
		var rec Recommendation
		var typ string
		var factors sql.NullString
		if err := rows.Scan(
			&rec.ID,
			&rec.TenantID,
			&rec.ResultID,
			&typ,
			&rec.TargetID,
			&rec.TargetName,
			&rec.Confidence,
			&factors,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		rec.Type = Type(typ)
		if factors.Valid {
			if err := json.Unmarshal([]byte(factors.String), &rec.Factors); err != nil {
				rec.Factors = nil
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func marshalFactors(factors []Factor) (any, error) {
	if len(factors) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(factors)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
