package scoring

import (
	"encoding/json"
	"sort"
)

// Rules is the versioned interpretation document attached to an assessment
// version. Its three sections are independent: normalization rescales raw
// averages, labels and thresholds attach a textual label. MetricToSkill is
// consumed by the recommendation ranking engine.
type Rules struct {
	Normalization []NormalizationRule     `json:"normalization"`
	Labels        map[string][]LabelRange `json:"labels"`
	Thresholds    []ThresholdRule         `json:"thresholds"`
	MetricToSkill map[string]string       `json:"metricToSkill"`
}

// NormalizationRule linearly rescales a metric. An empty Metric acts as a
// wildcard matching every metric.
type NormalizationRule struct {
	Metric string   `json:"metric"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
	Scale  *float64 `json:"scale"`
}

// LabelRange assigns Label when min <= value < max; either bound may be open.
type LabelRange struct {
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
	Label string   `json:"label"`
}

// ThresholdRule assigns Label when every bound it specifies holds. It is the
// fallback mechanism, consulted only when no label range matched.
type ThresholdRule struct {
	Metric string   `json:"metric"`
	GT     *float64 `json:"gt"`
	GTE    *float64 `json:"gte"`
	LT     *float64 `json:"lt"`
	LTE    *float64 `json:"lte"`
	Label  string   `json:"label"`
}

// Interpreted is the outcome for one metric: the rescaled value, the original
// raw average, and the label if any rule assigned one.
type Interpreted struct {
	Value float64 `json:"value"`
	Raw   float64 `json:"raw"`
	Label string  `json:"label,omitempty"`
}

const (
	defaultMin   = 0
	defaultMax   = 100
	defaultScale = 100
)

// ParseRules decodes an interpretation document. Absent or malformed
// documents yield nil, which interprets as pass-through: raw values keep
// their value and no labels are attached.
func ParseRules(raw json.RawMessage) *Rules {
	if len(raw) == 0 {
		return nil
	}
	var rules Rules
	if err := json.Unmarshal(raw, &rules); err != nil {
		return nil
	}
	return &rules
}

// Interpret applies normalization and label assignment to one raw average.
// A nil receiver passes the raw value through.
func (r *Rules) Interpret(metric string, raw float64) Interpreted {
	if r == nil {
		return Interpreted{Value: raw, Raw: raw}
	}
	value := r.normalize(metric, raw)
	return Interpreted{
		Value: value,
		Raw:   raw,
		Label: r.labelFor(metric, value),
	}
}

// InterpretAll interprets every aggregated metric.
func (r *Rules) InterpretAll(metrics map[string]float64) map[string]Interpreted {
	out := make(map[string]Interpreted, len(metrics))
	for name, raw := range metrics {
		out[name] = r.Interpret(name, raw)
	}
	return out
}

func (r *Rules) normalize(metric string, raw float64) float64 {
	rule, ok := r.normalizationFor(metric)
	if !ok {
		return raw
	}
	min := valueOr(rule.Min, defaultMin)
	max := valueOr(rule.Max, defaultMax)
	scale := valueOr(rule.Scale, defaultScale)
	if max <= min {
		return raw
	}
	ratio := (raw - min) / (max - min)
	return clamp(ratio*scale, 0, scale)
}

// normalizationFor picks the first rule matching the metric in document
// order; a rule without a metric name matches everything.
func (r *Rules) normalizationFor(metric string) (NormalizationRule, bool) {
	for _, rule := range r.Normalization {
		if rule.Metric == metric || rule.Metric == "" {
			return rule, true
		}
	}
	return NormalizationRule{}, false
}

// labelFor checks range labels first; thresholds only apply when no range
// matched. Within each mechanism the first match in document order wins.
func (r *Rules) labelFor(metric string, value float64) string {
	for _, rng := range r.Labels[metric] {
		if rng.Min != nil && value < *rng.Min {
			continue
		}
		if rng.Max != nil && value >= *rng.Max {
			continue
		}
		return rng.Label
	}
	for _, rule := range r.Thresholds {
		if rule.Metric != metric {
			continue
		}
		if thresholdHolds(rule, value) {
			return rule.Label
		}
	}
	return ""
}

func thresholdHolds(rule ThresholdRule, value float64) bool {
	if rule.GT != nil && !(value > *rule.GT) {
		return false
	}
	if rule.GTE != nil && !(value >= *rule.GTE) {
		return false
	}
	if rule.LT != nil && !(value < *rule.LT) {
		return false
	}
	if rule.LTE != nil && !(value <= *rule.LTE) {
		return false
	}
	return true
}

// MetricForSkill reverse-looks-up a metric mapped to the given skill code.
// Metric names are scanned in sorted order so the result is deterministic
// when several metrics map to the same skill.
func (r *Rules) MetricForSkill(code string) (string, bool) {
	if r == nil || len(r.MetricToSkill) == 0 {
		return "", false
	}
	names := make([]string, 0, len(r.MetricToSkill))
	for name := range r.MetricToSkill {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if r.MetricToSkill[name] == code {
			return name, true
		}
	}
	return "", false
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
