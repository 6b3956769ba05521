package catalog

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// ListCareers returns the tenant's careers with their skill edges, id-ordered.
func (r *PGRepo) ListCareers(ctx context.Context, tenantID string) ([]Career, error) {
	const query = `
SELECT c.id, c.tenant_id, c.name, s.code, cs.weight
FROM careers c
LEFT JOIN career_skills cs ON cs.career_id = c.id
LEFT JOIN skills s ON s.id = cs.skill_id
WHERE c.tenant_id = $1
ORDER BY c.id, s.code`
	rows, err := r.DB.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Career{}
	index := map[string]int{}
	for rows.Next() {
		var id, tenant, name string
		var code sql.NullString
		var weight sql.NullFloat64
		if err := rows.Scan(&id, &tenant, &name, &code, &weight); err != nil {
			return nil, err
		}
		pos, ok := index[id]
		if !ok {
			pos = len(out)
			index[id] = pos
			out = append(out, Career{ID: id, TenantID: tenant, Name: name})
		}
		if code.Valid {
			out[pos].Skills = append(out[pos].Skills, SkillEdge{SkillCode: code.String, Weight: weight.Float64})
		}
	}
	return out, rows.Err()
}

// ListMajors returns the tenant's majors with their skill edges, id-ordered.
func (r *PGRepo) ListMajors(ctx context.Context, tenantID string) ([]Major, error) {
	const query = `
SELECT m.id, m.tenant_id, m.name, s.code, ms.weight
FROM majors m
LEFT JOIN major_skills ms ON ms.major_id = m.id
LEFT JOIN skills s ON s.id = ms.skill_id
WHERE m.tenant_id = $1
ORDER BY m.id, s.code`
	rows, err := r.DB.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Major{}
	index := map[string]int{}
	for rows.Next() {
		var id, tenant, name string
		var code sql.NullString
		var weight sql.NullFloat64
		if err := rows.Scan(&id, &tenant, &name, &code, &weight); err != nil {
			return nil, err
		}
		pos, ok := index[id]
		if !ok {
			pos = len(out)
			index[id] = pos
			out = append(out, Major{ID: id, TenantID: tenant, Name: name})
		}
		if code.Valid {
			out[pos].Skills = append(out[pos].Skills, SkillEdge{SkillCode: code.String, Weight: weight.Float64})
		}
	}
	return out, rows.Err()
}
