package model

// QuestionSet identifies one of the fixed questionnaire schema variants
type QuestionSet string

const (
	QuestionSetBase20 QuestionSet = "base20" // 26-item form (QS 10, QI 7, QO 9)
	QuestionSetBase8  QuestionSet = "base8"  // 8-item transparency portal form (QS 4, QI 3, QO 1)
)

// Valid reports whether the question set is one of the known variants
func (q QuestionSet) Valid() bool {
	return q == QuestionSetBase20 || q == QuestionSetBase8
}

// DimensionCode identifies a quality dimension
type DimensionCode string

const (
	DimensionSystem      DimensionCode = "QS" // Qualidade do Sistema
	DimensionInformation DimensionCode = "QI" // Qualidade da Informação
	DimensionOperation   DimensionCode = "QO" // Qualidade da Operação
)

// Question is a single schema question, immutable once loaded
type Question struct {
	Code           string   `json:"code" bson:"code" yaml:"code"` // e.g. "QS1"
	Text           string   `json:"text" bson:"text" yaml:"text"` // canonical wording from the form
	NormalizedText string   `json:"normalizedText" bson:"normalizedText" yaml:"-"`
	Aliases        []string `json:"aliases,omitempty" bson:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// Dimension groups an ordered set of questions under one quality category
type Dimension struct {
	Code      DimensionCode `json:"code" bson:"code" yaml:"code"`
	Name      string        `json:"name" bson:"name" yaml:"name"`
	Questions []Question    `json:"questions" bson:"questions" yaml:"questions"`
}

// Schema is a full questionnaire configuration for one question set.
// Loaded once at startup, validated, then treated as read-only.
type Schema struct {
	Set                  QuestionSet `json:"set" bson:"set" yaml:"set"`
	Dimensions           []Dimension `json:"dimensions" bson:"dimensions" yaml:"dimensions"`
	SatisfactionQuestion string      `json:"satisfactionQuestion" bson:"satisfactionQuestion" yaml:"satisfactionQuestion"`
	ProfileCandidates    []string    `json:"profileCandidates" bson:"profileCandidates" yaml:"profileCandidates"`
}

// Questions returns all questions across dimensions in schema order
func (s *Schema) Questions() []Question {
	var out []Question
	for _, d := range s.Dimensions {
		out = append(out, d.Questions...)
	}
	return out
}

// QuestionCount returns the total number of questions in the schema
func (s *Schema) QuestionCount() int {
	n := 0
	for _, d := range s.Dimensions {
		n += len(d.Questions)
	}
	return n
}

// DimensionOf returns the dimension containing the given question code
func (s *Schema) DimensionOf(code string) (Dimension, bool) {
	for _, d := range s.Dimensions {
		for _, q := range d.Questions {
			if q.Code == code {
				return d, true
			}
		}
	}
	return Dimension{}, false
}
