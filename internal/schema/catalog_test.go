package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betjuliano/sefa-dashboard/internal/model"
)

func TestDefaultBase20_Structure(t *testing.T) {
	s := DefaultBase20()

	assert.Equal(t, model.QuestionSetBase20, s.Set)
	assert.Equal(t, 26, s.QuestionCount())

	counts := map[model.DimensionCode]int{}
	for _, d := range s.Dimensions {
		counts[d.Code] = len(d.Questions)
	}
	assert.Equal(t, 10, counts[model.DimensionSystem])
	assert.Equal(t, 7, counts[model.DimensionInformation])
	assert.Equal(t, 9, counts[model.DimensionOperation])

	dim, ok := s.DimensionOf("QO5")
	require.True(t, ok)
	assert.Equal(t, model.DimensionOperation, dim.Code)
}

func TestDefaultBase8_Structure(t *testing.T) {
	s := DefaultBase8()

	assert.Equal(t, model.QuestionSetBase8, s.Set)
	assert.Equal(t, 8, s.QuestionCount())

	counts := map[model.DimensionCode]int{}
	for _, d := range s.Dimensions {
		counts[d.Code] = len(d.Questions)
	}
	assert.Equal(t, 4, counts[model.DimensionSystem])
	assert.Equal(t, 3, counts[model.DimensionInformation])
	assert.Equal(t, 1, counts[model.DimensionOperation])
}

func TestDefaultSchemas_PreparedAndValid(t *testing.T) {
	schemas := DefaultSchemas()
	require.Len(t, schemas, 2)

	v := NewValidator()
	for set, s := range schemas {
		for _, q := range s.Questions() {
			assert.NotEmpty(t, q.NormalizedText, "%s question %s must be prepared", set, q.Code)
		}
		report := v.Validate(s)
		assert.False(t, report.HasErrors(), "%s: %+v", set, report.Issues)
	}
}
