package scoring

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/tidwall/gjson"

	"assess-backend/internal/assessments"
)

// answerScorer converts one raw answer payload into a numeric contribution.
// Scorers never fail: malformed or unmatched payloads degrade to zero.
type answerScorer func(opts []assessments.Option, value gjson.Result) float64

var scorersByType = map[string]answerScorer{
	assessments.QuestionSingleChoice: scoreSingleChoice,
	assessments.QuestionMultipleChoice: func(opts []assessments.Option, value gjson.Result) float64 {
		return sumMatchedWeights(opts, choiceEntries(value, "values"))
	},
	assessments.QuestionScale: scoreScale,
	assessments.QuestionMatrix: func(opts []assessments.Option, value gjson.Result) float64 {
		return sumMatchedWeights(opts, choiceEntries(value, "entries"))
	},
	assessments.QuestionText: scoreNothing,
}

// ScoreAnswer dispatches on question type. Unknown types score zero.
func ScoreAnswer(questionType string, opts []assessments.Option, raw json.RawMessage) float64 {
	scorer, ok := scorersByType[questionType]
	if !ok {
		return 0
	}
	return scorer(opts, gjson.ParseBytes(raw))
}

func scoreSingleChoice(opts []assessments.Option, value gjson.Result) float64 {
	choice := scalarString(pickField(value, "value"))
	if choice == "" {
		return 0
	}
	return optionWeights(opts)[choice]
}

func scoreScale(_ []assessments.Option, value gjson.Result) float64 {
	n, ok := coerceNumber(pickField(value, "value"))
	if !ok {
		return 0
	}
	return n
}

func scoreNothing(_ []assessments.Option, _ gjson.Result) float64 {
	return 0
}

func sumMatchedWeights(opts []assessments.Option, entries []gjson.Result) float64 {
	if len(entries) == 0 {
		return 0
	}
	weights := optionWeights(opts)
	var total float64
	for _, entry := range entries {
		if v := scalarString(pickField(entry, "value")); v != "" {
			total += weights[v]
		}
	}
	return total
}

// pickField returns value[field] when value is an object carrying that field,
// otherwise the value itself.
func pickField(value gjson.Result, field string) gjson.Result {
	if value.IsObject() {
		if inner := value.Get(field); inner.Exists() {
			return inner
		}
	}
	return value
}

// choiceEntries accepts either a bare array or an object wrapping one under key.
func choiceEntries(value gjson.Result, key string) []gjson.Result {
	if value.IsArray() {
		return value.Array()
	}
	if inner := value.Get(key); inner.IsArray() {
		return inner.Array()
	}
	return nil
}

// scalarString renders a scalar answer as the string compared against option
// values. Objects, arrays and nulls render empty, contributing nothing.
func scalarString(value gjson.Result) string {
	switch value.Type {
	case gjson.String:
		return value.Str
	case gjson.Number, gjson.True, gjson.False:
		return value.String()
	default:
		return ""
	}
}

func coerceNumber(value gjson.Result) (float64, bool) {
	var n float64
	switch value.Type {
	case gjson.Number:
		n = value.Num
	case gjson.String:
		parsed, err := strconv.ParseFloat(value.Str, 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
