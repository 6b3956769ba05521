package scoring

import "time"

// MetricTotalWeight is the synthetic metric always computed alongside any
// configured metrics: the unweighted sum of every per-question score. It
// guarantees at least one metric exists even when no question declares one.
const MetricTotalWeight = "total_weight"

// Score is one persisted metric row for an assessment. Value carries the
// interpreted value; Meta keeps the raw average and any assigned label for
// traceability.
type Score struct {
	ID           string         `json:"id"`
	AssessmentID string         `json:"assessmentId"`
	Metric       string         `json:"metric"`
	Value        float64        `json:"value"`
	Weight       float64        `json:"weight"`
	Meta         map[string]any `json:"meta,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// ResultSnapshot is the single denormalized record summarizing the most
// recent scoring run for an assessment. Exactly one exists per assessment.
type ResultSnapshot struct {
	ID           string         `json:"id"`
	AssessmentID string         `json:"assessmentId"`
	Summary      map[string]any `json:"summary"`
	Scores       map[string]any `json:"scores"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// Result is what a scoring run computes; Run persists it, Preview returns it
// without touching storage.
type Result struct {
	AssessmentID string         `json:"assessmentId"`
	Scores       []Score        `json:"scores"`
	Summary      map[string]any `json:"summary"`
	Document     map[string]any `json:"document"`
}

// MetricValues extracts the metric name → interpreted value mapping from a
// snapshot's scores document. Entries with a non-numeric value are skipped.
func (s ResultSnapshot) MetricValues() map[string]float64 {
	out := map[string]float64{}
	metricsDoc, ok := s.Scores["metrics"].(map[string]any)
	if !ok {
		return out
	}
	for name, raw := range metricsDoc {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if v, ok := toFloat(entry["value"]); ok {
			out[name] = v
		}
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
