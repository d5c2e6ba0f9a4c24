package pipeline

import (
	"fmt"
	"sort"

	"github.com/betjuliano/sefa-dashboard/internal/model"
)

const (
	// fuzzyThreshold is the minimum token-overlap ratio to accept a fuzzy match
	fuzzyThreshold = 0.7
	// fuzzyMargin is how far the best candidate must beat the runner-up;
	// near-ties are left unresolved rather than guessed.
	fuzzyMargin = 0.1
)

// MappingManager resolves raw column headers to canonical question codes.
// Matching per header, first success wins: exact canonical text, exact
// normalized text, configured alias, then fuzzy token-overlap. No header
// maps to more than one code and no code is claimed twice; a second
// claimant loses and is reported as a duplicate mapping, first claimant by
// column order wins.
type MappingManager struct {
	normalizer *Normalizer
}

// NewMappingManager creates a new mapping manager
func NewMappingManager(normalizer *Normalizer) *MappingManager {
	return &MappingManager{normalizer: normalizer}
}

// Resolve maps the table's raw headers against the schema. Findings
// (missing questions, extra headers, duplicate claims) are accumulated in
// the returned report; only programmer errors surface as error.
func (m *MappingManager) Resolve(headers []string, schema *model.Schema) (model.HeaderMapping, model.ValidationReport) {
	var (
		mapping model.HeaderMapping
		report  model.ValidationReport
	)
	mapping.ProfileColumns = make(map[string]string)

	questions := schema.Questions()
	exactByText := make(map[string]string, len(questions))
	exactByNorm := make(map[string]string, len(questions))
	exactByAlias := make(map[string]string)
	textByCode := make(map[string]string, len(questions))
	for _, q := range questions {
		exactByText[q.Text] = q.Code
		exactByNorm[m.normalizer.Normalize(q.Text)] = q.Code
		for _, alias := range q.Aliases {
			exactByAlias[m.normalizer.Normalize(alias)] = q.Code
		}
		textByCode[q.Code] = q.Text
	}

	claimed := make(map[string]string) // question code -> claiming header
	satisfactionNorm := m.normalizer.Normalize(schema.SatisfactionQuestion)

	var unresolved []string
	for _, header := range headers {
		norm := m.normalizer.Normalize(header)

		// satisfaction question is matched apart from the dimension questions
		if mapping.SatisfactionHeader == "" && satisfactionNorm != "" &&
			(header == schema.SatisfactionQuestion || norm == satisfactionNorm) {
			mapping.SatisfactionHeader = header
			continue
		}

		code, ok := exactByText[header]
		if !ok {
			code, ok = exactByNorm[norm]
		}
		if !ok {
			code, ok = exactByAlias[norm]
		}
		if !ok {
			unresolved = append(unresolved, header)
			continue
		}
		if first, taken := claimed[code]; taken {
			report.Add(model.IssueDuplicateMapping, model.SeverityError,
				fmt.Sprintf("header %q also matches question %s already claimed by %q", header, code, first),
				header, first, code)
			mapping.ExtraHeaders = append(mapping.ExtraHeaders, header)
			continue
		}
		claimed[code] = header
		mapping.Matches = append(mapping.Matches, model.HeaderMatch{
			Header: header, QuestionCode: code, Confidence: model.ConfidenceExact,
		})
	}

	// fuzzy pass over whatever exact matching left behind
	var stillUnresolved []string
	for _, header := range unresolved {
		code, second, best, margin := m.bestFuzzy(header, questions)
		if code == "" || best < fuzzyThreshold {
			stillUnresolved = append(stillUnresolved, header)
			continue
		}
		if margin < fuzzyMargin {
			// near-tie between two schema questions: surface both for review
			report.Add(model.IssueDuplicateMapping, model.SeverityWarning,
				fmt.Sprintf("header %q fuzzy-matches both %s and %s too closely to decide", header, code, second),
				header, code, second)
			stillUnresolved = append(stillUnresolved, header)
			continue
		}
		if first, taken := claimed[code]; taken {
			report.Add(model.IssueDuplicateMapping, model.SeverityError,
				fmt.Sprintf("header %q also matches question %s already claimed by %q", header, code, first),
				header, first, code)
			stillUnresolved = append(stillUnresolved, header)
			continue
		}
		claimed[code] = header
		mapping.Matches = append(mapping.Matches, model.HeaderMatch{
			Header: header, QuestionCode: code, Confidence: model.ConfidenceFuzzy,
		})
	}

	// satisfaction and profile columns use the same algorithm against their
	// own candidate lists; the ones that still miss are preserved, not
	// discarded
	for _, header := range stillUnresolved {
		if mapping.SatisfactionHeader == "" && satisfactionNorm != "" &&
			m.normalizer.TokenOverlap(header, schema.SatisfactionQuestion) >= fuzzyThreshold {
			mapping.SatisfactionHeader = header
			continue
		}
		if field, ok := m.matchProfile(header, schema.ProfileCandidates); ok {
			mapping.ProfileColumns[header] = field
			continue
		}
		mapping.ExtraHeaders = append(mapping.ExtraHeaders, header)
		mapping.ProfileColumns[header] = header
	}

	for _, q := range questions {
		if _, ok := claimed[q.Code]; !ok {
			mapping.MissingQuestions = append(mapping.MissingQuestions, q.Code)
		}
	}
	sort.Strings(mapping.MissingQuestions)

	if len(mapping.MissingQuestions) > 0 {
		report.Add(model.IssueMissingQuestion, model.SeverityWarning,
			fmt.Sprintf("%d schema questions have no matching header", len(mapping.MissingQuestions)),
			mapping.MissingQuestions...)
	}
	if len(mapping.ExtraHeaders) > 0 {
		report.Add(model.IssueExtraQuestion, model.SeverityInfo,
			fmt.Sprintf("%d headers match no schema question", len(mapping.ExtraHeaders)),
			mapping.ExtraHeaders...)
	}

	return mapping, report
}

// bestFuzzy scores a header against every schema question and returns the
// best candidate code, the runner-up code, the best ratio and the margin
// between them.
func (m *MappingManager) bestFuzzy(header string, questions []model.Question) (best, second string, bestRatio, margin float64) {
	secondRatio := 0.0
	for _, q := range questions {
		ratio := m.normalizer.TokenOverlap(header, q.Text)
		if ratio > bestRatio {
			second, secondRatio = best, bestRatio
			best, bestRatio = q.Code, ratio
		} else if ratio > secondRatio {
			second, secondRatio = q.Code, ratio
		}
	}
	return best, second, bestRatio, bestRatio - secondRatio
}

// matchProfile resolves a header against the profile candidate list
func (m *MappingManager) matchProfile(header string, candidates []string) (string, bool) {
	norm := m.normalizer.Normalize(header)
	for _, cand := range candidates {
		if norm == m.normalizer.Normalize(cand) {
			return cand, true
		}
	}
	best, bestRatio, secondRatio := "", 0.0, 0.0
	for _, cand := range candidates {
		ratio := m.normalizer.TokenOverlap(header, cand)
		if ratio > bestRatio {
			best, secondRatio = cand, bestRatio
			bestRatio = ratio
		} else if ratio > secondRatio {
			secondRatio = ratio
		}
	}
	if best != "" && bestRatio >= fuzzyThreshold && bestRatio-secondRatio >= fuzzyMargin {
		return best, true
	}
	return "", false
}
