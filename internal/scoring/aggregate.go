package scoring

import (
	"math"

	"assess-backend/internal/assessments"
)

// QuestionScore is the per-question entry kept in the snapshot breakdown.
type QuestionScore struct {
	QuestionID string  `json:"questionId"`
	Type       string  `json:"type"`
	Metric     string  `json:"metric,omitempty"`
	Score      float64 `json:"score"`
}

// Aggregation holds raw metric averages plus the per-question breakdown.
// Metrics always includes the synthetic total_weight entry.
type Aggregation struct {
	Metrics   map[string]float64
	Breakdown []QuestionScore
}

type metricAccumulator struct {
	rawSum    float64
	weightSum float64
}

// Aggregate scores every response and folds the contributions into named
// metrics using the questions' configured weights. A response whose question
// is missing contributes nothing; a question's metric weight is floored at 1
// on the divisor side so fractional weights cannot blow up the average.
func Aggregate(questions []assessments.Question, options []assessments.Option, responses []assessments.Response) Aggregation {
	byQuestion := make(map[string]assessments.Question, len(questions))
	for _, q := range questions {
		byQuestion[q.ID] = q
	}
	optsByQuestion := groupOptions(options)

	acc := map[string]*metricAccumulator{}
	breakdown := make([]QuestionScore, 0, len(responses))
	var totalSum float64

	for _, resp := range responses {
		q, ok := byQuestion[resp.QuestionID]
		if !ok {
			continue
		}
		score := ScoreAnswer(q.Type, optsByQuestion[q.ID], resp.Value)
		totalSum += score

		metric := metricKey(q)
		if metric != "" {
			mw := metricWeight(q)
			a := acc[metric]
			if a == nil {
				a = &metricAccumulator{}
				acc[metric] = a
			}
			a.rawSum += score * mw
			a.weightSum += math.Max(1, mw)
		}

		breakdown = append(breakdown, QuestionScore{
			QuestionID: q.ID,
			Type:       q.Type,
			Metric:     metric,
			Score:      score,
		})
	}

	metrics := make(map[string]float64, len(acc)+1)
	for name, a := range acc {
		metrics[name] = a.rawSum / math.Max(1, a.weightSum)
	}
	metrics[MetricTotalWeight] = totalSum

	return Aggregation{Metrics: metrics, Breakdown: breakdown}
}
