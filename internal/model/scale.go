package model

// ScaleKind selects which response scale a token belongs to
type ScaleKind string

const (
	ScaleLikert5       ScaleKind = "likert5"
	ScaleSatisfaction5 ScaleKind = "satisfaction5"
)

// ScaleMapping maps normalized response tokens to scores in [1,5].
// Aliases map normalized surface variants to a canonical token that must
// exist in Values. Unknown or empty tokens resolve to missing, never zero.
type ScaleMapping struct {
	Kind    ScaleKind         `json:"kind" yaml:"kind"`
	Values  map[string]int    `json:"values" yaml:"values"`
	Aliases map[string]string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// MissingScore marks an unresolvable response cell. Distinct from any
// valid score so it can never be confused with a real answer.
const MissingScore = -1

// IsMissing reports whether a resolved score is the missing marker
func IsMissing(score int) bool {
	return score == MissingScore
}
