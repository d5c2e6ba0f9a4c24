package pipeline_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betjuliano/sefa-dashboard/internal/model"
	"github.com/betjuliano/sefa-dashboard/internal/pipeline"
	"github.com/betjuliano/sefa-dashboard/internal/schema"
)

func fiveQuestionSchemas() map[model.QuestionSet]*model.Schema {
	s := &model.Schema{
		Set: model.QuestionSetBase8,
		Dimensions: []model.Dimension{
			{
				Code: model.DimensionSystem,
				Name: "Qualidade do Sistema",
				Questions: []model.Question{
					{Code: "QS1", Text: "O sistema funciona sem falhas."},
					{Code: "QS2", Text: "O sistema é fácil de usar."},
					{Code: "QS3", Text: "A navegação pelo sistema é intuitiva."},
					{Code: "QS4", Text: "O sistema está disponível para uso em qualquer dia e hora."},
					{Code: "QS5", Text: "Acredito que meus dados estão seguros neste sistema."},
				},
			},
		},
	}
	return map[model.QuestionSet]*model.Schema{model.QuestionSetBase8: schema.Prepare(s)}
}

func csvFor(s *model.Schema, rows ...string) []byte {
	texts := make([]string, 0, s.QuestionCount())
	for _, q := range s.Questions() {
		texts = append(texts, q.Text)
	}
	lines := append([]string{strings.Join(texts, ";")}, rows...)
	return []byte(strings.Join(lines, "\n"))
}

func TestProcessor_Process_PartialRowRetained(t *testing.T) {
	schemas := fiveQuestionSchemas()
	p := pipeline.NewProcessor(schemas)

	raw := csvFor(schemas[model.QuestionSetBase8], "Concordo;Concordo;Discordo;;Não sei")
	data, err := p.Process(raw, pipeline.Options{QuestionSet: model.QuestionSetBase8})
	require.NoError(t, err)

	require.Len(t, data.Rows, 1)
	row := data.Rows[0]
	assert.Equal(t, 4, row.Scores["QS1"])
	assert.Equal(t, 4, row.Scores["QS2"])
	assert.Equal(t, 2, row.Scores["QS3"])
	assert.Equal(t, model.MissingScore, row.Scores["QS4"])
	assert.Equal(t, 3, row.Scores["QS5"])
	assert.InDelta(t, 0.8, row.ResponseRate, 1e-9)
	assert.True(t, row.Valid)
	assert.Equal(t, 1, data.Metadata.RowsValid)
	assert.Equal(t, 0, data.Metadata.RowsInvalid)
}

func TestProcessor_Process_LowResponseRateRowExcluded(t *testing.T) {
	schemas := fiveQuestionSchemas()
	p := pipeline.NewProcessor(schemas)

	raw := csvFor(schemas[model.QuestionSetBase8],
		"Concordo;Concordo;Concordo;Concordo;Concordo",
		"Discordo totalmente;;;;", // 1 of 5 answered, rate 0.2
	)
	data, err := p.Process(raw, pipeline.Options{QuestionSet: model.QuestionSetBase8})
	require.NoError(t, err)

	require.Len(t, data.Rows, 2, "invalid rows stay visible for audit")
	assert.True(t, data.Rows[0].Valid)
	assert.False(t, data.Rows[1].Valid)
	assert.Equal(t, 1, data.Metadata.RowsValid)
	assert.Equal(t, 1, data.Metadata.RowsInvalid)

	// the excluded row must not drag question means down
	qs1 := data.Dimensions[0].Questions[0]
	assert.Equal(t, "QS1", qs1.Code)
	assert.Equal(t, 1, qs1.ValidCount)
	assert.InDelta(t, 4.0, qs1.Mean, 1e-9)

	var warned bool
	for _, issue := range data.Report.Issues {
		if issue.Kind == model.IssueLowResponseRate {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestProcessor_Process_DimensionMeanOfMeans(t *testing.T) {
	s := &model.Schema{
		Set: model.QuestionSetBase8,
		Dimensions: []model.Dimension{
			{
				Code: model.DimensionSystem,
				Name: "Qualidade do Sistema",
				Questions: []model.Question{
					{Code: "QS1", Text: "O sistema funciona sem falhas."},
					{Code: "QS2", Text: "O sistema é fácil de usar."},
				},
			},
		},
	}
	schemas := map[model.QuestionSet]*model.Schema{model.QuestionSetBase8: schema.Prepare(s)}
	p := pipeline.NewProcessor(schemas)

	// QS1: three answers, mean 5. QS2: one answer, mean 1.
	raw := csvFor(s,
		"Concordo totalmente;",
		"Concordo totalmente;",
		"Concordo totalmente;",
		";Discordo totalmente",
	)
	data, err := p.Process(raw, pipeline.Options{QuestionSet: model.QuestionSetBase8})
	require.NoError(t, err)

	require.Len(t, data.Dimensions, 1)
	dim := data.Dimensions[0]
	// mean of question means (5+1)/2, not the pooled cell mean 4
	assert.InDelta(t, 3.0, dim.Mean, 1e-9)
	assert.InDelta(t, 3.0, data.OverallMean, 1e-9)
}

func TestProcessor_Process_Classification(t *testing.T) {
	schemas := fiveQuestionSchemas()
	p := pipeline.NewProcessor(schemas)

	raw := csvFor(schemas[model.QuestionSetBase8],
		"Concordo totalmente;Concordo;Neutro;Discordo;Discordo totalmente",
	)
	data, err := p.Process(raw, pipeline.Options{QuestionSet: model.QuestionSetBase8, Goal: 4.0})
	require.NoError(t, err)

	byCode := map[string]model.QuestionAggregate{}
	for _, qa := range data.QuestionAggregates() {
		byCode[qa.Code] = qa
	}
	assert.Equal(t, model.ClassPositive, byCode["QS1"].Classification) // 5 >= goal
	assert.Equal(t, model.ClassPositive, byCode["QS2"].Classification) // 4 >= goal
	assert.Equal(t, model.ClassNeutral, byCode["QS3"].Classification)  // 3
	assert.Equal(t, model.ClassCritical, byCode["QS4"].Classification) // 2
	assert.Equal(t, model.ClassCritical, byCode["QS5"].Classification) // 1
	assert.Equal(t, 4.0, data.Metadata.Goal)
}

func TestProcessor_Process_VariantInference(t *testing.T) {
	p := pipeline.NewProcessor(schema.DefaultSchemas())

	base8 := schema.DefaultBase8()
	raw := csvFor(base8,
		"Concordo;Concordo;Concordo;Concordo;Concordo;Concordo;Concordo;Concordo",
	)
	data, err := p.Process(raw, pipeline.Options{})
	require.NoError(t, err)

	assert.Equal(t, model.QuestionSetBase8, data.Metadata.QuestionSet)
	assert.Equal(t, 8, data.Metadata.TotalQuestionsResolved)

	var inferred bool
	for _, issue := range data.Report.Issues {
		if issue.Kind == model.IssueVariantInferred {
			inferred = true
			assert.Equal(t, model.SeverityInfo, issue.Severity)
		}
	}
	assert.True(t, inferred)
}

func TestProcessor_Process_VariantTieDefaultsToBase20(t *testing.T) {
	p := pipeline.NewProcessor(schema.DefaultSchemas())

	// QI1 and QI2 carry identical wording in both question sets
	raw := []byte("As informações são fáceis de entender.;As informações são precisas.\nConcordo;Concordo")
	data, err := p.Process(raw, pipeline.Options{})
	require.NoError(t, err)

	assert.Equal(t, model.QuestionSetBase20, data.Metadata.QuestionSet)
}

func TestProcessor_Process_NoQuestionsResolved(t *testing.T) {
	p := pipeline.NewProcessor(schema.DefaultSchemas())

	raw := []byte("coluna a;coluna b\n1;2")
	_, err := p.Process(raw, pipeline.Options{QuestionSet: model.QuestionSetBase20})
	assert.ErrorIs(t, err, pipeline.ErrNoQuestionsResolved)
}

func TestProcessor_Process_StrictMode(t *testing.T) {
	schemas := fiveQuestionSchemas()
	p := pipeline.NewProcessor(schemas)

	raw := csvFor(schemas[model.QuestionSetBase8], "Concordo;talvez;Concordo;Concordo;Concordo")

	_, err := p.Process(raw, pipeline.Options{QuestionSet: model.QuestionSetBase8, Strict: true})
	assert.ErrorIs(t, err, pipeline.ErrInvalidScaleValue)

	// default mode downgrades the same token to missing plus a warning
	data, err := p.Process(raw, pipeline.Options{QuestionSet: model.QuestionSetBase8})
	require.NoError(t, err)
	assert.Equal(t, model.MissingScore, data.Rows[0].Scores["QS2"])

	var warned bool
	for _, issue := range data.Report.Issues {
		if issue.Kind == model.IssueInvalidScaleValue {
			warned = true
			assert.Contains(t, issue.AffectedItems, "talvez")
		}
	}
	assert.True(t, warned)
}

func TestProcessor_Process_SatisfactionAndProfile(t *testing.T) {
	p := pipeline.NewProcessor(schema.DefaultSchemas())

	base8 := schema.DefaultBase8()
	header := make([]string, 0, 10)
	for _, q := range base8.Questions() {
		header = append(header, q.Text)
	}
	header = append(header, base8.SatisfactionQuestion, "Idade")

	row := []string{
		"Concordo", "Concordo", "Concordo", "Concordo",
		"Concordo", "Concordo", "Concordo", "Concordo",
		"Muito satisfeito", "34",
	}
	raw := []byte(strings.Join(header, ";") + "\n" + strings.Join(row, ";"))

	data, err := p.Process(raw, pipeline.Options{QuestionSet: model.QuestionSetBase8})
	require.NoError(t, err)

	require.Len(t, data.Rows, 1)
	assert.Equal(t, 5, data.Rows[0].Satisfaction)
	assert.Equal(t, "34", data.Rows[0].Profile["Idade"])
	assert.InDelta(t, 5.0, data.SatisfactionMean, 1e-9)
	assert.Equal(t, 1, data.SatisfactionCount)
}

func TestProcessor_Process_Deterministic(t *testing.T) {
	p := pipeline.NewProcessor(schema.DefaultSchemas())

	base20 := schema.DefaultBase20()
	answers := make([]string, base20.QuestionCount())
	for i := range answers {
		switch i % 3 {
		case 0:
			answers[i] = "Concordo"
		case 1:
			answers[i] = "Discordo"
		default:
			answers[i] = ""
		}
	}
	raw := csvFor(base20, strings.Join(answers, ";"), strings.Join(answers, ";"))

	first, err := p.Process(raw, pipeline.Options{})
	require.NoError(t, err)
	second, err := p.Process(raw, pipeline.Options{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestProcessor_Process_DoesNotMutateInput(t *testing.T) {
	schemas := fiveQuestionSchemas()
	p := pipeline.NewProcessor(schemas)

	raw := csvFor(schemas[model.QuestionSetBase8], "Concordo;Concordo;Concordo;Concordo;Concordo")
	before := string(raw)

	_, err := p.Process(raw, pipeline.Options{QuestionSet: model.QuestionSetBase8})
	require.NoError(t, err)
	assert.Equal(t, before, string(raw))
}
