package recommendations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"assess-backend/internal/assessments"
	"assess-backend/internal/catalog"
	"assess-backend/internal/scoring"
	"assess-backend/internal/shared/metrics"
	"assess-backend/internal/shared/telemetry"
)

// Service ranks catalog entities against an assessment's scored metrics and
// persists (or previews) the resulting recommendations.
type Service struct {
	Assessments assessments.Repo
	Scoring     scoring.Repo
	Catalog     catalog.Repo
	Repo        Repo
}

// Payload is the preview/generation output: one section per requested type.
type Payload struct {
	AssessmentID string              `json:"assessmentId"`
	ResultID     string              `json:"resultId"`
	Sections     map[string][]Ranked `json:"sections"`
}

// GenerateResult reports a generation run.
type GenerateResult struct {
	Created int     `json:"created"`
	Payload Payload `json:"payload"`
}

// Preview computes all requested sections without touching storage. No
// confidence filtering happens here: preview is meant for inspection.
func (s *Service) Preview(ctx context.Context, tenantID, assessmentID string, types []Type, topN int) (Payload, error) {
	return s.compute(ctx, tenantID, assessmentID, types, topN)
}

// Generate computes the requested sections and persists them. With overwrite
// (the default), only rows of the requested types are deleted first, so
// regenerating CAREER recommendations never disturbs MAJOR ones. Zero created
// rows is a valid outcome.
func (s *Service) Generate(ctx context.Context, tenantID, assessmentID string, types []Type, topN int, minConfidence float64, overwrite bool) (GenerateResult, error) {
	payload, err := s.compute(ctx, tenantID, assessmentID, types, topN)
	if err != nil {
		return GenerateResult{}, err
	}

	now := time.Now().UTC()
	rows := make([]Recommendation, 0)
	for _, t := range types {
		for _, ranked := range payload.Sections[sectionName(t)] {
			confidence := ranked.Confidence
			if t == TypeLearning {
				confidence = ranked.Confidence / 100
			}
			if confidence < minConfidence {
				continue
			}
			rows = append(rows, Recommendation{
				ID:         uuid.NewString(),
				TenantID:   tenantID,
				ResultID:   payload.ResultID,
				Type:       t,
				TargetID:   ranked.TargetID,
				TargetName: ranked.TargetName,
				Confidence: confidence,
				Factors:    ranked.Factors,
				CreatedAt:  now,
			})
		}
	}

	created, err := s.Repo.Replace(ctx, tenantID, payload.ResultID, types, rows, overwrite)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("replace recommendations: %w", err)
	}

	metrics.AddRecommendationsGenerated(created)
	telemetry.Info("recommendations.generated", map[string]any{
		"tenant_id":     tenantID,
		"assessment_id": assessmentID,
		"result_id":     payload.ResultID,
		"types":         typeNames(types),
		"created":       created,
	})
	return GenerateResult{Created: created, Payload: payload}, nil
}

func (s *Service) compute(ctx context.Context, tenantID, assessmentID string, types []Type, topN int) (Payload, error) {
	a, err := s.Assessments.GetByID(ctx, tenantID, assessmentID)
	if err != nil {
		return Payload{}, err
	}

	snap, err := s.Scoring.LatestSnapshot(ctx, assessmentID)
	if err != nil {
		if errors.Is(err, scoring.ErrNoSnapshot) {
			return Payload{}, ErrMissingPrerequisite
		}
		return Payload{}, fmt.Errorf("snapshot lookup: %w", err)
	}

	version, err := s.Assessments.GetVersion(ctx, a.VersionID)
	if err != nil {
		return Payload{}, fmt.Errorf("version lookup id=%s: %w", a.VersionID, err)
	}
	rules := scoring.ParseRules(version.InterpretationJSON)

	values := snap.MetricValues()
	lookup := LookupFromRules(rules, values)

	payload := Payload{
		AssessmentID: assessmentID,
		ResultID:     snap.ID,
		Sections:     map[string][]Ranked{},
	}
	for _, t := range types {
		switch t {
		case TypeCareer:
			careers, err := s.Catalog.ListCareers(ctx, tenantID)
			if err != nil {
				return Payload{}, fmt.Errorf("list careers: %w", err)
			}
			payload.Sections[sectionName(t)] = rank(careerTargets(careers), lookup, topN)
		case TypeMajor:
			majors, err := s.Catalog.ListMajors(ctx, tenantID)
			if err != nil {
				return Payload{}, fmt.Errorf("list majors: %w", err)
			}
			payload.Sections[sectionName(t)] = rank(majorTargets(majors), lookup, topN)
		case TypeLearning:
			payload.Sections[sectionName(t)] = learningTargets(values, topN)
		}
	}
	return payload, nil
}

func sectionName(t Type) string {
	switch t {
	case TypeCareer:
		return "careers"
	case TypeMajor:
		return "majors"
	case TypeLearning:
		return "learning"
	default:
		return ""
	}
}

func typeNames(types []Type) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}
