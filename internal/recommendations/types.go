package recommendations

import (
	"strings"
	"time"
)

// Type identifies what a recommendation targets.
type Type string

const (
	TypeCareer   Type = "CAREER"
	TypeMajor    Type = "MAJOR"
	TypeLearning Type = "LEARNING"
)

// ParseType normalizes a request string to a known Type.
func ParseType(raw string) (Type, bool) {
	switch Type(strings.ToUpper(strings.TrimSpace(raw))) {
	case TypeCareer:
		return TypeCareer, true
	case TypeMajor:
		return TypeMajor, true
	case TypeLearning:
		return TypeLearning, true
	default:
		return "", false
	}
}

// Factor is one explainability entry justifying a ranking score.
type Factor struct {
	Skill        string  `json:"skill"`
	Weight       float64 `json:"weight"`
	MetricValue  float64 `json:"metricValue"`
	Contribution float64 `json:"contribution"`
}

// Recommendation is a persisted ranked target for a result snapshot.
// Rows are deleted and recreated per generation run, never mutated in place.
type Recommendation struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenantId"`
	ResultID   string    `json:"resultId"`
	Type       Type      `json:"type"`
	TargetID   string    `json:"targetId"`
	TargetName string    `json:"targetName"`
	Confidence float64   `json:"confidence"`
	Factors    []Factor  `json:"factors,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Ranked is one computed ranking entry before persistence.
type Ranked struct {
	TargetID   string   `json:"targetId"`
	TargetName string   `json:"targetName"`
	Confidence float64  `json:"confidence"`
	Factors    []Factor `json:"factors,omitempty"`
}
