package model

// IssueKind classifies a validation finding
type IssueKind string

const (
	IssueMissingQuestion   IssueKind = "missing_question"
	IssueExtraQuestion     IssueKind = "extra_question"
	IssueInvalidScaleValue IssueKind = "invalid_scale_value"
	IssueLowResponseRate   IssueKind = "low_response_rate"
	IssueDuplicateMapping  IssueKind = "duplicate_mapping"
	IssueDuplicateCode     IssueKind = "duplicate_code"
	IssueDimensionCount    IssueKind = "dimension_count"
	IssueAmbiguousText     IssueKind = "ambiguous_text"
	IssueBrokenAlias       IssueKind = "broken_alias"
	IssueVariantInferred   IssueKind = "variant_inferred"
)

// Severity ranks a validation issue
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ValidationIssue is one finding produced during schema validation or processing
type ValidationIssue struct {
	Kind          IssueKind `json:"kind" bson:"kind"`
	Severity      Severity  `json:"severity" bson:"severity"`
	Message       string    `json:"message" bson:"message"`
	AffectedItems []string  `json:"affectedItems,omitempty" bson:"affectedItems,omitempty"`
}

// ValidationReport accumulates issues; severities are preserved verbatim
type ValidationReport struct {
	Issues []ValidationIssue `json:"issues" bson:"issues"`
}

// Add appends an issue to the report
func (r *ValidationReport) Add(kind IssueKind, severity Severity, message string, items ...string) {
	r.Issues = append(r.Issues, ValidationIssue{
		Kind:          kind,
		Severity:      severity,
		Message:       message,
		AffectedItems: items,
	})
}

// Merge appends all issues from another report
func (r *ValidationReport) Merge(other *ValidationReport) {
	if other != nil {
		r.Issues = append(r.Issues, other.Issues...)
	}
}

// HasErrors reports whether any issue carries error severity
func (r *ValidationReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Warnings returns only the warning-level issues
func (r *ValidationReport) Warnings() []ValidationIssue {
	var out []ValidationIssue
	for _, it := range r.Issues {
		if it.Severity == SeverityWarning {
			out = append(out, it)
		}
	}
	return out
}
