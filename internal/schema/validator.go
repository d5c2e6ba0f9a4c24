package schema

import (
	"fmt"

	"github.com/betjuliano/sefa-dashboard/internal/model"
	"github.com/betjuliano/sefa-dashboard/internal/pipeline"
)

// expectedCounts is the declared per-dimension question count of each
// built-in question set. Overrides that deviate still load, but the
// deviation is surfaced so a truncated file does not pass silently.
var expectedCounts = map[model.QuestionSet]map[model.DimensionCode]int{
	model.QuestionSetBase20: {
		model.DimensionSystem:      10,
		model.DimensionInformation: 7,
		model.DimensionOperation:   9,
	},
	model.QuestionSetBase8: {
		model.DimensionSystem:      4,
		model.DimensionInformation: 3,
		model.DimensionOperation:   1,
	},
}

// Validator checks a loaded schema and the scale mappings before any
// processing may use them. Error-level findings make the configuration
// unusable; warnings load but are reported.
type Validator struct {
	normalizer *pipeline.Normalizer
}

// NewValidator creates a schema validator
func NewValidator() *Validator {
	return &Validator{normalizer: pipeline.NewNormalizer()}
}

// Validate runs all structural checks over one schema
func (v *Validator) Validate(s *model.Schema) model.ValidationReport {
	var report model.ValidationReport
	normalizer := v.normalizer

	seenCodes := make(map[string]string)   // code -> dimension
	seenTexts := make(map[string][]string) // normalized text -> codes
	for _, dim := range s.Dimensions {
		for _, q := range dim.Questions {
			if prev, dup := seenCodes[q.Code]; dup {
				report.Add(model.IssueDuplicateCode, model.SeverityError,
					fmt.Sprintf("question code %s appears in both %s and %s", q.Code, prev, dim.Code),
					q.Code)
			}
			seenCodes[q.Code] = string(dim.Code)

			norm := q.NormalizedText
			if norm == "" {
				norm = normalizer.Normalize(q.Text)
			}
			seenTexts[norm] = append(seenTexts[norm], q.Code)

			if q.Text == "" {
				report.Add(model.IssueBrokenAlias, model.SeverityError,
					fmt.Sprintf("question %s has empty text", q.Code), q.Code)
			}
			for _, alias := range q.Aliases {
				if normalizer.Normalize(alias) == "" {
					report.Add(model.IssueBrokenAlias, model.SeverityError,
						fmt.Sprintf("question %s has an alias that normalizes to nothing", q.Code),
						q.Code, alias)
				}
			}
		}
	}

	for norm, codes := range seenTexts {
		if len(codes) > 1 {
			report.Add(model.IssueAmbiguousText, model.SeverityWarning,
				fmt.Sprintf("questions %v share the same normalized text %q", codes, norm),
				codes...)
		}
	}

	if expected, ok := expectedCounts[s.Set]; ok {
		for _, dim := range s.Dimensions {
			want := expected[dim.Code]
			if got := len(dim.Questions); got != want {
				report.Add(model.IssueDimensionCount, model.SeverityWarning,
					fmt.Sprintf("dimension %s has %d questions, %s declares %d", dim.Code, got, s.Set, want),
					string(dim.Code))
			}
		}
	}

	return report
}

// ValidateScale checks that every alias in a scale mapping points to a
// known canonical value.
func (v *Validator) ValidateScale(m model.ScaleMapping) model.ValidationReport {
	var report model.ValidationReport
	for alias, target := range m.Aliases {
		if _, ok := m.Values[target]; !ok {
			report.Add(model.IssueBrokenAlias, model.SeverityError,
				fmt.Sprintf("scale %s: alias %q points to unknown value %q", m.Kind, alias, target),
				alias, target)
		}
	}
	if len(m.Values) == 0 {
		report.Add(model.IssueBrokenAlias, model.SeverityError,
			fmt.Sprintf("scale %s has no values", m.Kind))
	}
	return report
}
