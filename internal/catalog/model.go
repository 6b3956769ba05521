package catalog

// SkillEdge is a weighted association between a catalog entity and a skill.
// The edges form the rule matrix the ranking engine multiplies against metrics.
type SkillEdge struct {
	SkillCode string  `json:"skill"`
	Weight    float64 `json:"weight"`
}

// Career is a catalog entity rankable against a learner's metrics.
type Career struct {
	ID       string      `json:"id"`
	TenantID string      `json:"tenantId"`
	Name     string      `json:"name"`
	Skills   []SkillEdge `json:"skills,omitempty"`
}

// Major is a catalog entity rankable against a learner's metrics.
type Major struct {
	ID       string      `json:"id"`
	TenantID string      `json:"tenantId"`
	Name     string      `json:"name"`
	Skills   []SkillEdge `json:"skills,omitempty"`
}
