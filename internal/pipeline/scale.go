package pipeline

import (
	"fmt"
	"math"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/betjuliano/sefa-dashboard/internal/model"
)

// DefaultLikertMapping returns the 5-point agreement scale used by the
// questionnaire forms, with normalized keys.
func DefaultLikertMapping() model.ScaleMapping {
	return model.ScaleMapping{
		Kind: model.ScaleLikert5,
		Values: map[string]int{
			"discordo totalmente":      1,
			"discordo":                 2,
			"nao sei":                  3,
			"neutro":                   3,
			"indiferente":              3,
			"nem concordo nem discordo": 3,
			"concordo":                 4,
			"concordo totalmente":      5,
		},
		Aliases: map[string]string{
			"discordo completamente":  "discordo totalmente",
			"totalmente em desacordo": "discordo totalmente",
			"em desacordo":            "discordo",
			"nao concordo":            "discordo",
			"nao tenho opiniao":       "nao sei",
			"sem opiniao":             "nao sei",
			"indeciso":                "nao sei",
			"imparcial":               "neutro",
			"de acordo":               "concordo",
			"em acordo":               "concordo",
			"concordo completamente":  "concordo totalmente",
			"totalmente de acordo":    "concordo totalmente",
		},
	}
}

// DefaultSatisfactionMapping returns the 5-point satisfaction scale
func DefaultSatisfactionMapping() model.ScaleMapping {
	return model.ScaleMapping{
		Kind: model.ScaleSatisfaction5,
		Values: map[string]int{
			"muito insatisfeito": 1,
			"insatisfeito":       2,
			"indiferente":        3,
			"neutro":             3,
			"satisfeito":         4,
			"muito satisfeito":   5,
		},
		Aliases: map[string]string{
			"totalmente insatisfeito":   "muito insatisfeito",
			"extremamente insatisfeito": "muito insatisfeito",
			"pouco satisfeito":          "insatisfeito",
			"nao satisfeito":            "insatisfeito",
			"bem satisfeito":            "satisfeito",
			"totalmente satisfeito":     "muito satisfeito",
			"extremamente satisfeito":   "muito satisfeito",
		},
	}
}

// ScaleConverter maps response tokens to numeric scores in [1,5].
// In default mode unknown tokens resolve to model.MissingScore; strict mode
// turns them into ErrInvalidScaleValue instead.
type ScaleConverter struct {
	normalizer *Normalizer
	mappings   map[model.ScaleKind]model.ScaleMapping
	strict     bool
}

// NewScaleConverter creates a converter with the default likert5 and
// satisfaction5 mappings.
func NewScaleConverter(normalizer *Normalizer) *ScaleConverter {
	return &ScaleConverter{
		normalizer: normalizer,
		mappings: map[model.ScaleKind]model.ScaleMapping{
			model.ScaleLikert5:       DefaultLikertMapping(),
			model.ScaleSatisfaction5: DefaultSatisfactionMapping(),
		},
	}
}

// WithMapping replaces the mapping for one scale kind
func (c *ScaleConverter) WithMapping(mapping model.ScaleMapping) *ScaleConverter {
	c.mappings[mapping.Kind] = mapping
	return c
}

// Strict switches unknown non-empty tokens from missing to a hard error
func (c *ScaleConverter) Strict(strict bool) *ScaleConverter {
	c.strict = strict
	return c
}

// Mapping returns the active mapping for a scale kind
func (c *ScaleConverter) Mapping(kind model.ScaleKind) (model.ScaleMapping, bool) {
	m, ok := c.mappings[kind]
	return m, ok
}

// Convert resolves a single response token. Resolution order: normalize,
// alias table, numeric mapping, then a longest-contained-token fallback for
// responses that embed a known token in extra prose.
func (c *ScaleConverter) Convert(token string, kind model.ScaleKind) (int, error) {
	mapping, ok := c.mappings[kind]
	if !ok {
		return model.MissingScore, fmt.Errorf("unknown scale kind %q", kind)
	}

	normalized := c.normalizer.Normalize(token)
	if normalized == "" {
		return model.MissingScore, nil
	}

	if canonical, ok := mapping.Aliases[normalized]; ok {
		normalized = canonical
	}
	if score, ok := mapping.Values[normalized]; ok {
		return score, nil
	}

	// Longest known token contained in the response wins; short tokens are
	// skipped to avoid matching fragments like "sei".
	bestScore := model.MissingScore
	bestLen := 0
	for key, score := range mapping.Values {
		if len(key) > 3 && len(key) > bestLen && containsToken(normalized, key) {
			bestScore = score
			bestLen = len(key)
		}
	}
	if bestLen > 0 {
		return bestScore, nil
	}

	if c.strict {
		return model.MissingScore, fmt.Errorf("%w: %q for scale %s", ErrInvalidScaleValue, token, kind)
	}
	return model.MissingScore, nil
}

// containsToken matches needle inside haystack on word boundaries
func containsToken(haystack, needle string) bool {
	return strings.Contains(" "+haystack+" ", " "+needle+" ")
}

// ColumnStats summarizes one resolved column. Missing values are excluded
// from mean and stddev but counted in InvalidCount.
type ColumnStats struct {
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"stdDev"`
	ValidCount   int     `json:"validCount"`
	InvalidCount int     `json:"invalidCount"`
}

// ColumnStatistics computes stats over a sequence of resolved values
func (c *ScaleConverter) ColumnStatistics(values []int) ColumnStats {
	var valid []float64
	invalid := 0
	for _, v := range values {
		if model.IsMissing(v) {
			invalid++
			continue
		}
		valid = append(valid, float64(v))
	}

	cs := ColumnStats{ValidCount: len(valid), InvalidCount: invalid}
	if len(valid) == 0 {
		return cs
	}
	if mean, err := stats.Mean(valid); err == nil {
		cs.Mean = mean
	}
	if len(valid) > 1 {
		if sd, err := stats.StandardDeviationSample(valid); err == nil {
			cs.StdDev = sd
		}
	}
	return cs
}

// RunningStats accumulates per-question statistics incrementally as
// (sum, sum-of-squares, count) so chunked callers can merge partial results
// instead of holding all rows in memory.
type RunningStats struct {
	Sum     float64 `json:"sum"`
	SumSq   float64 `json:"sumSq"`
	Count   int     `json:"count"`
	Invalid int     `json:"invalid"`
}

// Add feeds one resolved value into the accumulator
func (r *RunningStats) Add(score int) {
	if model.IsMissing(score) {
		r.Invalid++
		return
	}
	v := float64(score)
	r.Sum += v
	r.SumSq += v * v
	r.Count++
}

// Merge folds another accumulator into this one
func (r *RunningStats) Merge(other RunningStats) {
	r.Sum += other.Sum
	r.SumSq += other.SumSq
	r.Count += other.Count
	r.Invalid += other.Invalid
}

// Mean returns the mean of valid values, or 0 when none were seen
func (r *RunningStats) Mean() float64 {
	if r.Count == 0 {
		return 0
	}
	return r.Sum / float64(r.Count)
}

// StdDev returns the sample standard deviation of valid values
func (r *RunningStats) StdDev() float64 {
	if r.Count < 2 {
		return 0
	}
	n := float64(r.Count)
	variance := (r.SumSq - r.Sum*r.Sum/n) / (n - 1)
	if variance < 0 {
		variance = 0 // floating point guard
	}
	return math.Sqrt(variance)
}
