package scoring

import (
	"github.com/tidwall/gjson"

	"assess-backend/internal/assessments"
)

// metricKey returns the aggregate metric a question feeds, or "" when the
// question is untagged.
func metricKey(q assessments.Question) string {
	if len(q.Config) == 0 {
		return ""
	}
	return gjson.GetBytes(q.Config, "metric").String()
}

// metricWeight returns the question's configured metric weight, defaulting to 1.
func metricWeight(q assessments.Question) float64 {
	if len(q.Config) == 0 {
		return 1
	}
	w := gjson.GetBytes(q.Config, "metricWeight")
	if !w.Exists() || w.Type != gjson.Number {
		return 1
	}
	return w.Num
}

// optionWeights maps an option's value string to its weight. Later duplicates
// win, matching how a row-by-row lookup would behave.
func optionWeights(opts []assessments.Option) map[string]float64 {
	out := make(map[string]float64, len(opts))
	for _, o := range opts {
		out[o.Value] = o.Weight
	}
	return out
}

// groupOptions indexes options by their owning question.
func groupOptions(opts []assessments.Option) map[string][]assessments.Option {
	out := make(map[string][]assessments.Option)
	for _, o := range opts {
		out[o.QuestionID] = append(out[o.QuestionID], o)
	}
	return out
}
