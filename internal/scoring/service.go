package scoring

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"assess-backend/internal/assessments"
	"assess-backend/internal/shared/metrics"
	"assess-backend/internal/shared/telemetry"
)

// Service contains the scoring engine's business logic: it turns a submitted
// assessment's raw answers into interpreted metric scores and a result
// snapshot, and drives batch recomputation across a tenant.
type Service struct {
	Assessments assessments.Repo
	Repo        Repo
}

// Preview computes scores without persisting anything.
func (s *Service) Preview(ctx context.Context, tenantID, assessmentID string) (Result, error) {
	result, _, err := s.compute(ctx, tenantID, assessmentID)
	return result, err
}

// Run computes scores and persists them: score rows are replaced (or
// appended when overwrite is false), the snapshot is upserted, and the
// assessment transitions to SCORED.
func (s *Service) Run(ctx context.Context, tenantID, assessmentID string, overwrite bool) (Result, error) {
	metrics.IncScoringStarted()
	startedAt := time.Now().UTC()

	result, a, err := s.compute(ctx, tenantID, assessmentID)
	if err != nil {
		metrics.IncScoringFailed()
		return Result{}, err
	}

	scoredAt := time.Now().UTC()
	run := RunRecord{
		AssessmentID: assessmentID,
		Overwrite:    overwrite,
		Scores:       result.Scores,
		Snapshot: ResultSnapshot{
			ID:           uuid.NewString(),
			AssessmentID: assessmentID,
			Summary:      result.Summary,
			Scores:       result.Document,
		},
		ScoredAt: scoredAt,
	}
	if err := s.Repo.SaveRun(ctx, run); err != nil {
		metrics.IncScoringFailed()
		return Result{}, fmt.Errorf("save scoring run: %w", err)
	}

	metrics.IncScoringCompleted()
	metrics.ObserveScoringDurationMs(float64(scoredAt.Sub(startedAt).Microseconds()) / 1000.0)
	telemetry.Info("scoring.completed", map[string]any{
		"tenant_id":     tenantID,
		"assessment_id": assessmentID,
		"user_id":       a.UserID,
		"metric_count":  len(result.Scores),
		"overwrite":     overwrite,
	})
	return result, nil
}

// Recompute re-runs persisting scoring for every submitted assessment in the
// tenant, walking id-ordered pages from the given cursor. Failures are
// isolated per assessment; the returned count covers successful runs only.
func (s *Service) Recompute(ctx context.Context, tenantID string, batchSize int, cursor string) (int, error) {
	pager := NewPager(s.Assessments, tenantID, cursor, batchSize)
	processed := 0
	for {
		ids, err := pager.Next(ctx)
		if err != nil {
			return processed, fmt.Errorf("list submitted assessments: %w", err)
		}
		if len(ids) == 0 {
			return processed, nil
		}
		for _, id := range ids {
			if _, err := s.Run(ctx, tenantID, id, true); err != nil {
				telemetry.Error("scoring.recompute.skip", map[string]any{
					"tenant_id":     tenantID,
					"assessment_id": id,
					"error":         err.Error(),
				})
				continue
			}
			processed++
		}
	}
}

func (s *Service) compute(ctx context.Context, tenantID, assessmentID string) (Result, assessments.Assessment, error) {
	a, err := s.Assessments.GetByID(ctx, tenantID, assessmentID)
	if err != nil {
		return Result{}, assessments.Assessment{}, err
	}
	if a.SubmittedAt == nil {
		return Result{}, a, ErrNotSubmitted
	}

	version, err := s.Assessments.GetVersion(ctx, a.VersionID)
	if err != nil {
		return Result{}, a, fmt.Errorf("version lookup id=%s: %w", a.VersionID, err)
	}
	questions, err := s.Assessments.ListQuestions(ctx, a.VersionID)
	if err != nil {
		return Result{}, a, fmt.Errorf("list questions: %w", err)
	}
	options, err := s.Assessments.ListOptions(ctx, a.VersionID)
	if err != nil {
		return Result{}, a, fmt.Errorf("list options: %w", err)
	}
	responses, err := s.Assessments.ListResponses(ctx, assessmentID)
	if err != nil {
		return Result{}, a, fmt.Errorf("list responses: %w", err)
	}

	rules := ParseRules(version.InterpretationJSON)
	agg := Aggregate(questions, options, responses)
	interpreted := rules.InterpretAll(agg.Metrics)

	names := make([]string, 0, len(interpreted))
	for name := range interpreted {
		names = append(names, name)
	}
	sort.Strings(names)

	now := time.Now().UTC()
	scores := make([]Score, 0, len(interpreted))
	metricsDoc := make(map[string]any, len(interpreted))
	for _, name := range names {
		entry := interpreted[name]
		meta := map[string]any{"raw": entry.Raw}
		doc := map[string]any{"value": entry.Value, "raw": entry.Raw}
		if entry.Label != "" {
			meta["label"] = entry.Label
			doc["label"] = entry.Label
		}
		scores = append(scores, Score{
			ID:           uuid.NewString(),
			AssessmentID: assessmentID,
			Metric:       name,
			Value:        entry.Value,
			Weight:       1,
			Meta:         meta,
			CreatedAt:    now,
		})
		metricsDoc[name] = doc
	}

	breakdown := make([]any, 0, len(agg.Breakdown))
	for _, qs := range agg.Breakdown {
		breakdown = append(breakdown, qs)
	}

	return Result{
		AssessmentID: assessmentID,
		Scores:       scores,
		Summary: map[string]any{
			"submittedAt":       a.SubmittedAt,
			"answeredQuestions": len(responses),
		},
		Document: map[string]any{
			"metrics":   metricsDoc,
			"breakdown": breakdown,
		},
	}, a, nil
}
