package model

// MatchConfidence records how a header was resolved to a question code
type MatchConfidence string

const (
	ConfidenceExact MatchConfidence = "exact"
	ConfidenceFuzzy MatchConfidence = "fuzzy"
)

// HeaderMatch is one resolved raw-header-to-question assignment
type HeaderMatch struct {
	Header       string          `json:"header" bson:"header"`
	QuestionCode string          `json:"questionCode" bson:"questionCode"`
	Confidence   MatchConfidence `json:"confidence" bson:"confidence"`
}

// HeaderMapping is the full outcome of resolving an input table's headers
// against a schema
type HeaderMapping struct {
	Matches          []HeaderMatch `json:"matches" bson:"matches"`
	MissingQuestions []string      `json:"missingQuestions,omitempty" bson:"missingQuestions,omitempty"`
	ExtraHeaders     []string      `json:"extraHeaders,omitempty" bson:"extraHeaders,omitempty"`
	ProfileColumns   map[string]string `json:"profileColumns,omitempty" bson:"profileColumns,omitempty"` // raw header -> profile field
	SatisfactionHeader string          `json:"satisfactionHeader,omitempty" bson:"satisfactionHeader,omitempty"`
}

// ByHeader returns the match for a raw header, if any
func (m *HeaderMapping) ByHeader(header string) (HeaderMatch, bool) {
	for _, match := range m.Matches {
		if match.Header == header {
			return match, true
		}
	}
	return HeaderMatch{}, false
}

// ResolvedRow is one respondent's record after scale conversion
type ResolvedRow struct {
	Scores       map[string]int    `json:"scores" bson:"scores"` // question code -> score or MissingScore
	Profile      map[string]string `json:"profile,omitempty" bson:"profile,omitempty"`
	Satisfaction int               `json:"satisfaction" bson:"satisfaction"` // satisfaction5 score or MissingScore
	ResponseRate float64           `json:"responseRate" bson:"responseRate"`
	Valid        bool              `json:"valid" bson:"valid"` // false when below the response-rate floor
}

// Classification buckets a question mean against the goal threshold
type Classification string

const (
	ClassCritical Classification = "critical" // mean < CriticalThreshold
	ClassNeutral  Classification = "neutral"  // CriticalThreshold <= mean < goal
	ClassPositive Classification = "positive" // mean >= goal
)

// CriticalThreshold is the fixed floor below which a mean is critical,
// independent of the configured goal
const CriticalThreshold = 3.0

// QuestionAggregate holds per-question statistics over valid rows
type QuestionAggregate struct {
	Code           string         `json:"code" bson:"code"`
	Text           string         `json:"text" bson:"text"`
	Mean           float64        `json:"mean" bson:"mean"`
	StdDev         float64        `json:"stdDev" bson:"stdDev"`
	ValidCount     int            `json:"validCount" bson:"validCount"`
	InvalidCount   int            `json:"invalidCount" bson:"invalidCount"`
	Classification Classification `json:"classification" bson:"classification"`
}

// DimensionAggregate holds per-dimension statistics.
// Mean is the arithmetic mean of the dimension's question means, so each
// question carries equal weight regardless of missing-value skew.
type DimensionAggregate struct {
	Code           DimensionCode       `json:"code" bson:"code"`
	Name           string              `json:"name" bson:"name"`
	Mean           float64             `json:"mean" bson:"mean"`
	Classification Classification      `json:"classification,omitempty" bson:"classification,omitempty"`
	Questions      []QuestionAggregate `json:"questions" bson:"questions"`
}

// ProcessingMetadata is the audit summary of one pipeline run
type ProcessingMetadata struct {
	QuestionSet            QuestionSet `json:"questionSet" bson:"questionSet"`
	TotalQuestionsExpected int         `json:"totalQuestionsExpected" bson:"totalQuestionsExpected"`
	TotalQuestionsResolved int         `json:"totalQuestionsResolved" bson:"totalQuestionsResolved"`
	SkippedQuestions       []string    `json:"skippedQuestions,omitempty" bson:"skippedQuestions,omitempty"`
	RowsTotal              int         `json:"rowsTotal" bson:"rowsTotal"`
	RowsValid              int         `json:"rowsValid" bson:"rowsValid"`
	RowsInvalid            int         `json:"rowsInvalid" bson:"rowsInvalid"`
	EncodingUsed           string      `json:"encodingUsed" bson:"encodingUsed"`
	EncodingDegraded       bool        `json:"encodingDegraded" bson:"encodingDegraded"`
	Goal                   float64     `json:"goal" bson:"goal"`
}

// ProcessedData is the immutable result bundle of one pipeline run.
// Owned solely by the caller; the pipeline holds no reference to it.
type ProcessedData struct {
	Rows              []ResolvedRow        `json:"rows" bson:"rows"`
	Mapping           HeaderMapping        `json:"mapping" bson:"mapping"`
	Dimensions        []DimensionAggregate `json:"dimensions" bson:"dimensions"`
	OverallMean       float64              `json:"overallMean" bson:"overallMean"`
	SatisfactionMean  float64              `json:"satisfactionMean" bson:"satisfactionMean"`
	SatisfactionCount int                  `json:"satisfactionCount" bson:"satisfactionCount"`
	Report            ValidationReport     `json:"report" bson:"report"`
	Metadata          ProcessingMetadata   `json:"metadata" bson:"metadata"`
}

// QuestionAggregates returns all question aggregates in dimension order
func (p *ProcessedData) QuestionAggregates() []QuestionAggregate {
	var out []QuestionAggregate
	for _, d := range p.Dimensions {
		out = append(out, d.Questions...)
	}
	return out
}
