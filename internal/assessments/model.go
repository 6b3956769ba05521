package assessments

import (
	"encoding/json"
	"time"
)

// Assessment statuses. An assessment becomes SCORED after a persisting
// scoring run; SUBMITTED is the precondition for scoring.
const (
	StatusInProgress = "IN_PROGRESS"
	StatusSubmitted  = "SUBMITTED"
	StatusScored     = "SCORED"
)

// Question types understood by the scoring engine. Unknown types are legal
// and score zero.
const (
	QuestionSingleChoice   = "SINGLE_CHOICE"
	QuestionMultipleChoice = "MULTIPLE_CHOICE"
	QuestionScale          = "SCALE"
	QuestionMatrix         = "MATRIX"
	QuestionText           = "TEXT"
)

// Assessment is one learner's test-taking session within a tenant.
type Assessment struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenantId"`
	UserID      string     `json:"userId"`
	VersionID   string     `json:"versionId"`
	Status      string     `json:"status"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
	ScoredAt    *time.Time `json:"scoredAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Version is a published assessment definition. InterpretationJSON is an
// optional rule document; when absent, raw metric values pass through
// unmodified and no labels are attached.
type Version struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	InterpretationJSON json.RawMessage `json:"interpretationJson,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// Question belongs to a version. Config is a free-form document; the scoring
// engine reads the optional `metric` and `metricWeight` keys from it.
type Question struct {
	ID        string          `json:"id"`
	VersionID string          `json:"versionId"`
	Type      string          `json:"type"`
	Config    json.RawMessage `json:"config,omitempty"`
	Position  int             `json:"position"`
}

// Option belongs to exactly one question. Value is matched as a string
// against answer payloads; Weight feeds choice-type scoring.
type Option struct {
	ID         string  `json:"id"`
	QuestionID string  `json:"questionId"`
	Value      string  `json:"value"`
	Weight     float64 `json:"weight"`
}

// Response is one answer per question per assessment. Value is a polymorphic
// JSON payload whose shape depends on the question type.
type Response struct {
	AssessmentID string          `json:"assessmentId"`
	QuestionID   string          `json:"questionId"`
	Value        json.RawMessage `json:"value,omitempty"`
}
