package recommendations

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"assess-backend/internal/assessments"
	"assess-backend/internal/catalog"
	"assess-backend/internal/scoring"
)

const testTenant = "tenant-1"

func setupRecommendationService(t *testing.T) (*Service, *scoring.MemoryRepo, *MemoryRepo) {
	t.Helper()
	assessRepo := assessments.NewMemoryRepo()
	scoreRepo := scoring.NewMemoryRepo(assessRepo)
	catalogRepo := catalog.NewMemoryRepo()
	recRepo := NewMemoryRepo()

	submitted := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	assessRepo.PutVersion(assessments.Version{
		ID:                 "v-1",
		InterpretationJSON: json.RawMessage(`{"metricToSkill":{"analytical":"skill-math","verbal":"skill-writing"}}`),
	})
	assessRepo.PutAssessment(assessments.Assessment{
		ID: "as-1", TenantID: testTenant, UserID: "user-1", VersionID: "v-1",
		Status: assessments.StatusScored, SubmittedAt: &submitted,
	})

	catalogRepo.PutCareer(catalog.Career{
		ID: "car-1", TenantID: testTenant, Name: "Data Analyst",
		Skills: []catalog.SkillEdge{{SkillCode: "skill-math", Weight: 1}},
	})
	catalogRepo.PutCareer(catalog.Career{
		ID: "car-2", TenantID: testTenant, Name: "Copywriter",
		Skills: []catalog.SkillEdge{{SkillCode: "skill-writing", Weight: 1}},
	})
	catalogRepo.PutMajor(catalog.Major{
		ID: "maj-1", TenantID: testTenant, Name: "Mathematics",
		Skills: []catalog.SkillEdge{{SkillCode: "skill-math", Weight: 0.8}},
	})

	svc := &Service{
		Assessments: assessRepo,
		Scoring:     scoreRepo,
		Catalog:     catalogRepo,
		Repo:        recRepo,
	}
	return svc, scoreRepo, recRepo
}

func seedSnapshot(t *testing.T, scoreRepo *scoring.MemoryRepo) {
	t.Helper()
	err := scoreRepo.SaveRun(context.Background(), scoring.RunRecord{
		AssessmentID: "as-1",
		Overwrite:    true,
		Snapshot: scoring.ResultSnapshot{
			ID:           "snap-1",
			AssessmentID: "as-1",
			Scores: map[string]any{
				"metrics": map[string]any{
					"analytical":   map[string]any{"value": 90.0, "raw": 4.5},
					"verbal":       map[string]any{"value": 30.0, "raw": 1.5},
					"total_weight": map[string]any{"value": 6.0, "raw": 6.0},
				},
			},
		},
		ScoredAt: time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
}

func allTypes() []Type {
	return []Type{TypeCareer, TypeMajor, TypeLearning}
}

func TestGenerateWithoutSnapshotIsMissingPrerequisite(t *testing.T) {
	svc, _, _ := setupRecommendationService(t)
	_, err := svc.Generate(context.Background(), testTenant, "as-1", allTypes(), 10, 0, true)
	if !errors.Is(err, ErrMissingPrerequisite) {
		t.Fatalf("err = %v, want ErrMissingPrerequisite", err)
	}
}

func TestGenerateUnknownAssessmentIsNotFound(t *testing.T) {
	svc, _, _ := setupRecommendationService(t)
	_, err := svc.Generate(context.Background(), testTenant, "missing", allTypes(), 10, 0, true)
	if !errors.Is(err, assessments.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGeneratePersistsRankedSections(t *testing.T) {
	svc, scoreRepo, recRepo := setupRecommendationService(t)
	seedSnapshot(t, scoreRepo)

	result, err := svc.Generate(context.Background(), testTenant, "as-1", allTypes(), 10, 0, true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	careers := result.Payload.Sections["careers"]
	if len(careers) != 2 || careers[0].TargetID != "car-1" || careers[0].Confidence != 1 {
		t.Fatalf("careers = %+v", careers)
	}
	if careers[1].Confidence != 30.0/90.0 {
		t.Fatalf("copywriter confidence = %v", careers[1].Confidence)
	}
	if got := len(result.Payload.Sections["majors"]); got != 1 {
		t.Fatalf("majors = %d entries, want 1", got)
	}
	learning := result.Payload.Sections["learning"]
	if len(learning) != 3 || learning[0].TargetID != "analytical" {
		t.Fatalf("learning = %+v", learning)
	}

	rows, err := recRepo.ListByResult(context.Background(), testTenant, "snap-1")
	if err != nil {
		t.Fatalf("ListByResult: %v", err)
	}
	if len(rows) != result.Created || len(rows) != 6 {
		t.Fatalf("persisted %d rows, created %d, want 6", len(rows), result.Created)
	}
	for _, row := range rows {
		if row.Type == TypeLearning && row.Confidence > 1 {
			t.Fatalf("learning confidence not scaled: %+v", row)
		}
	}
}

func TestGenerateMinConfidenceFiltersPersistenceOnly(t *testing.T) {
	svc, scoreRepo, recRepo := setupRecommendationService(t)
	seedSnapshot(t, scoreRepo)

	result, err := svc.Generate(context.Background(), testTenant, "as-1", []Type{TypeCareer}, 10, 0.5, true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// Payload still shows both; only rows above the cutoff persist.
	if got := len(result.Payload.Sections["careers"]); got != 2 {
		t.Fatalf("payload careers = %d, want 2", got)
	}
	rows, _ := recRepo.ListByResult(context.Background(), testTenant, "snap-1")
	if len(rows) != 1 || rows[0].TargetID != "car-1" {
		t.Fatalf("persisted rows = %+v", rows)
	}
}

func TestGenerateIsIdempotentWithOverwrite(t *testing.T) {
	svc, scoreRepo, recRepo := setupRecommendationService(t)
	seedSnapshot(t, scoreRepo)

	if _, err := svc.Generate(context.Background(), testTenant, "as-1", allTypes(), 10, 0, true); err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	if _, err := svc.Generate(context.Background(), testTenant, "as-1", allTypes(), 10, 0, true); err != nil {
		t.Fatalf("second Generate: %v", err)
	}

	rows, _ := recRepo.ListByResult(context.Background(), testTenant, "snap-1")
	if len(rows) != 6 {
		t.Fatalf("rows after regenerate = %d, want 6", len(rows))
	}
}

func TestGeneratePerTypeOverwriteKeepsOtherTypes(t *testing.T) {
	svc, scoreRepo, recRepo := setupRecommendationService(t)
	seedSnapshot(t, scoreRepo)

	if _, err := svc.Generate(context.Background(), testTenant, "as-1", allTypes(), 10, 0, true); err != nil {
		t.Fatalf("full Generate: %v", err)
	}
	if _, err := svc.Generate(context.Background(), testTenant, "as-1", []Type{TypeCareer}, 10, 0, true); err != nil {
		t.Fatalf("career Generate: %v", err)
	}

	rows, _ := recRepo.ListByResult(context.Background(), testTenant, "snap-1")
	counts := map[Type]int{}
	for _, row := range rows {
		counts[row.Type]++
	}
	if counts[TypeCareer] != 2 || counts[TypeMajor] != 1 || counts[TypeLearning] != 3 {
		t.Fatalf("counts = %+v", counts)
	}
}

func TestPreviewPersistsNothing(t *testing.T) {
	svc, scoreRepo, recRepo := setupRecommendationService(t)
	seedSnapshot(t, scoreRepo)

	payload, err := svc.Preview(context.Background(), testTenant, "as-1", allTypes(), 10)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if payload.ResultID != "snap-1" || len(payload.Sections) != 3 {
		t.Fatalf("payload = %+v", payload)
	}

	rows, _ := recRepo.ListByResult(context.Background(), testTenant, "snap-1")
	if len(rows) != 0 {
		t.Fatalf("preview persisted %d rows", len(rows))
	}
}
