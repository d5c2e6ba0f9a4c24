package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betjuliano/sefa-dashboard/internal/model"
)

func testSchema() *model.Schema {
	return &model.Schema{
		Set: model.QuestionSetBase8,
		Dimensions: []model.Dimension{
			{
				Code: model.DimensionSystem,
				Name: "Qualidade do Sistema",
				Questions: []model.Question{
					{Code: "QS1", Text: "O Portal é fácil de usar."},
					{Code: "QS2", Text: "É fácil localizar os dados e as informações no Portal."},
					{Code: "QS3", Text: "A navegação pelo Portal é intuitiva.", Aliases: []string{"Navegar pelo portal é intuitivo"}},
				},
			},
			{
				Code: model.DimensionInformation,
				Name: "Qualidade da Informação",
				Questions: []model.Question{
					{Code: "QI1", Text: "As informações são fáceis de entender."},
					{Code: "QI2", Text: "As informações são precisas."},
				},
			},
		},
		SatisfactionQuestion: "Qual o seu nível de satisfação com o Portal?",
		ProfileCandidates:    []string{"Idade", "Sexo", "Qual a sua idade?"},
	}
}

func TestMappingManager_Resolve_ExactAndNormalized(t *testing.T) {
	m := NewMappingManager(NewNormalizer())
	schema := testSchema()

	headers := []string{
		"O Portal é fácil de usar.",
		"as informacoes sao precisas", // accent-stripped variant of QI2
	}
	mapping, report := m.Resolve(headers, schema)

	require.Len(t, mapping.Matches, 2)
	byCode := map[string]model.HeaderMatch{}
	for _, match := range mapping.Matches {
		byCode[match.QuestionCode] = match
	}
	assert.Equal(t, model.ConfidenceExact, byCode["QS1"].Confidence)
	assert.Equal(t, model.ConfidenceExact, byCode["QI2"].Confidence)
	assert.Contains(t, mapping.MissingQuestions, "QS2")
	assert.False(t, report.HasErrors())
}

func TestMappingManager_Resolve_Alias(t *testing.T) {
	m := NewMappingManager(NewNormalizer())

	mapping, _ := m.Resolve([]string{"Navegar pelo portal é intuitivo"}, testSchema())

	require.Len(t, mapping.Matches, 1)
	assert.Equal(t, "QS3", mapping.Matches[0].QuestionCode)
}

func TestMappingManager_Resolve_Fuzzy(t *testing.T) {
	m := NewMappingManager(NewNormalizer())

	// QI1 wording with an extra word, past the overlap threshold but not exact
	mapping, _ := m.Resolve([]string{"As informações do portal são fáceis de entender"}, testSchema())
	require.Len(t, mapping.Matches, 1)
	assert.Equal(t, "QI1", mapping.Matches[0].QuestionCode)

	mapping, _ = m.Resolve([]string{"Coluna completamente diferente"}, testSchema())
	assert.Empty(t, mapping.Matches)
	assert.Contains(t, mapping.ExtraHeaders, "Coluna completamente diferente")
}

func TestMappingManager_Resolve_DuplicateClaim(t *testing.T) {
	m := NewMappingManager(NewNormalizer())

	headers := []string{
		"As informações são precisas.",
		"as informacoes sao precisas!", // normalizes onto QI2 again
	}
	mapping, report := m.Resolve(headers, testSchema())

	require.Len(t, mapping.Matches, 1)
	assert.Equal(t, "As informações são precisas.", mapping.Matches[0].Header, "first claimant by column order wins")
	assert.True(t, report.HasErrors())

	var dup *model.ValidationIssue
	for i := range report.Issues {
		if report.Issues[i].Kind == model.IssueDuplicateMapping {
			dup = &report.Issues[i]
		}
	}
	require.NotNil(t, dup)
	assert.Equal(t, model.SeverityError, dup.Severity)
}

func TestMappingManager_Resolve_NoHeaderMapsTwice(t *testing.T) {
	m := NewMappingManager(NewNormalizer())
	schema := testSchema()

	headers := []string{
		"O Portal é fácil de usar.",
		"É fácil localizar os dados e as informações no Portal.",
		"A navegação pelo Portal é intuitiva.",
		"As informações são fáceis de entender.",
		"As informações são precisas.",
	}
	mapping, _ := m.Resolve(headers, schema)

	seenHeaders := map[string]bool{}
	seenCodes := map[string]bool{}
	for _, match := range mapping.Matches {
		assert.False(t, seenHeaders[match.Header], "header %q mapped twice", match.Header)
		assert.False(t, seenCodes[match.QuestionCode], "code %s claimed twice", match.QuestionCode)
		seenHeaders[match.Header] = true
		seenCodes[match.QuestionCode] = true
	}
	assert.Len(t, mapping.Matches, 5)
	assert.Empty(t, mapping.MissingQuestions)
}

func TestMappingManager_Resolve_Satisfaction(t *testing.T) {
	m := NewMappingManager(NewNormalizer())

	mapping, _ := m.Resolve([]string{"Qual o seu nível de satisfação com o Portal?"}, testSchema())
	assert.Equal(t, "Qual o seu nível de satisfação com o Portal?", mapping.SatisfactionHeader)
	assert.Empty(t, mapping.Matches)
}

func TestMappingManager_Resolve_SatisfactionFuzzy(t *testing.T) {
	m := NewMappingManager(NewNormalizer())

	// satisfaction wording with a dropped word still resolves
	header := "Qual o nível de satisfação com o Portal?"
	mapping, _ := m.Resolve([]string{header}, testSchema())

	assert.Equal(t, header, mapping.SatisfactionHeader)
	assert.NotContains(t, mapping.ExtraHeaders, header)
	assert.NotContains(t, mapping.ProfileColumns, header)
}

func TestMappingManager_Resolve_ProfileColumns(t *testing.T) {
	m := NewMappingManager(NewNormalizer())

	mapping, _ := m.Resolve([]string{"Idade", "Coluna Livre"}, testSchema())

	assert.Equal(t, "Idade", mapping.ProfileColumns["Idade"])
	// unmatched columns are preserved rather than discarded
	assert.Equal(t, "Coluna Livre", mapping.ProfileColumns["Coluna Livre"])
	assert.Contains(t, mapping.ExtraHeaders, "Coluna Livre")
}
