package recommendations

import (
	"math"
	"sort"

	"assess-backend/internal/catalog"
	"assess-backend/internal/scoring"
)

const defaultTopN = 10

// MetricLookup resolves a skill code to a metric value.
type MetricLookup func(skillCode string) float64

// LookupFromRules builds a MetricLookup over a metrics document. When the
// interpretation rules carry a metricToSkill map, a skill code resolves to
// the metric mapped to it; otherwise the code itself is tried as a metric
// name. Skills that resolve to nothing contribute 0.
func LookupFromRules(rules *scoring.Rules, values map[string]float64) MetricLookup {
	return func(code string) float64 {
		if name, ok := rules.MetricForSkill(code); ok {
			return values[name]
		}
		return values[code]
	}
}

// target is the ranking engine's neutral view of a catalog entity.
type target struct {
	id     string
	name   string
	skills []catalog.SkillEdge
}

func careerTargets(careers []catalog.Career) []target {
	out := make([]target, 0, len(careers))
	for _, c := range careers {
		out = append(out, target{id: c.ID, name: c.Name, skills: c.Skills})
	}
	return out
}

func majorTargets(majors []catalog.Major) []target {
	out := make([]target, 0, len(majors))
	for _, m := range majors {
		out = append(out, target{id: m.ID, name: m.Name, skills: m.Skills})
	}
	return out
}

// rank scores every entity as the weighted dot-product of its skill edges
// against the metrics, normalizes by the maximum score (floored at 1 so an
// all-zero catalog stays at zero instead of dividing by zero), and returns
// the topN in descending order. Ties keep catalog iteration order.
func rank(targets []target, lookup MetricLookup, topN int) []Ranked {
	if topN <= 0 {
		topN = defaultTopN
	}

	ranked := make([]Ranked, 0, len(targets))
	maxScore := 0.0
	scores := make([]float64, 0, len(targets))
	for _, t := range targets {
		var score float64
		var factors []Factor
		for _, edge := range t.skills {
			metricValue := lookup(edge.SkillCode)
			contribution := metricValue * edge.Weight
			score += contribution
			if contribution != 0 {
				factors = append(factors, Factor{
					Skill:        edge.SkillCode,
					Weight:       edge.Weight,
					MetricValue:  metricValue,
					Contribution: contribution,
				})
			}
		}
		if score > maxScore {
			maxScore = score
		}
		scores = append(scores, score)
		ranked = append(ranked, Ranked{TargetID: t.id, TargetName: t.name, Factors: factors})
	}

	denom := math.Max(1, maxScore)
	for i := range ranked {
		ranked[i].Confidence = scores[i] / denom
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// learningTargets ranks the metrics document itself: the strongest metrics
// become learning-target candidates carrying the metric code and its value.
// Ties break on metric name so the ordering is deterministic.
func learningTargets(values map[string]float64, topN int) []Ranked {
	if topN <= 0 || topN > defaultTopN {
		topN = defaultTopN
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if values[names[i]] != values[names[j]] {
			return values[names[i]] > values[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > topN {
		names = names[:topN]
	}
	out := make([]Ranked, 0, len(names))
	for _, name := range names {
		out = append(out, Ranked{TargetID: name, TargetName: name, Confidence: values[name]})
	}
	return out
}
