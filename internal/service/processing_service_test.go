package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betjuliano/sefa-dashboard/internal/model"
	"github.com/betjuliano/sefa-dashboard/internal/pipeline"
	"github.com/betjuliano/sefa-dashboard/internal/schema"
)

func portalCSV(t *testing.T) []byte {
	t.Helper()
	s := schema.DefaultBase8()

	headers := []string{"Idade"}
	for _, dim := range s.Dimensions {
		for _, q := range dim.Questions {
			headers = append(headers, q.Text)
		}
	}
	headers = append(headers, s.SatisfactionQuestion)

	rows := []string{
		strings.Join(headers, ";"),
		"34;Concordo;Concordo totalmente;Concordo;Indiferente;Concordo;Concordo;Concordo totalmente;Concordo;Satisfeito",
		"52;Discordo;Concordo;Indiferente;Concordo;Concordo;Indiferente;Concordo;Concordo;Muito satisfeito",
	}
	return []byte(strings.Join(rows, "\n") + "\n")
}

func newProcessingFixture(t *testing.T) (*ProcessingService, *fakeUploadRepo, *fakeResultCache, *model.UploadRecord) {
	t.Helper()
	repo := newFakeUploadRepo()
	results := newFakeResultCache()
	processor := pipeline.NewProcessor(schema.DefaultSchemas())
	svc := NewProcessingService(processor, repo, results, 4.0)

	raw := portalCSV(t)
	upload := &model.UploadRecord{
		ID:          "up_1",
		UserID:      "user_abc",
		Filename:    "portal.csv",
		Fingerprint: Fingerprint(raw),
		SizeBytes:   len(raw),
		RawData:     raw,
		Delimiter:   ";",
	}
	require.NoError(t, repo.Create(context.Background(), upload))
	return svc, repo, results, upload
}

func TestProcessingService_ProcessCachesAndReplays(t *testing.T) {
	ctx := context.Background()
	svc, _, results, upload := newProcessingFixture(t)

	opts := ProcessingOptions{QuestionSet: model.QuestionSetBase8}
	data, err := svc.Process(ctx, upload, opts)
	require.NoError(t, err)
	assert.Equal(t, model.QuestionSetBase8, data.Metadata.QuestionSet)
	assert.Equal(t, 2, data.Metadata.RowsValid)
	assert.Equal(t, 1, results.sets)

	replay, err := svc.Process(ctx, upload, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, results.sets, "cache hit must not rerun the pipeline")
	assert.Equal(t, data, replay)
}

func TestProcessingService_InferredSetStillCaches(t *testing.T) {
	ctx := context.Background()
	svc, _, results, upload := newProcessingFixture(t)

	data, err := svc.Process(ctx, upload, ProcessingOptions{})
	require.NoError(t, err)
	assert.Equal(t, model.QuestionSetBase8, data.Metadata.QuestionSet)
	assert.Equal(t, 0, results.gets, "unknown variant cannot be looked up before processing")
	assert.Equal(t, 1, results.sets)
}

func TestProcessingService_StrictBypassesCache(t *testing.T) {
	ctx := context.Background()
	svc, _, results, upload := newProcessingFixture(t)

	_, err := svc.Process(ctx, upload, ProcessingOptions{QuestionSet: model.QuestionSetBase8, Strict: true})
	require.NoError(t, err)
	assert.Equal(t, 0, results.gets)
	assert.Equal(t, 0, results.sets)
}

func TestProcessingService_RecordsAuditMetadata(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, upload := newProcessingFixture(t)

	_, err := svc.Process(ctx, upload, ProcessingOptions{QuestionSet: model.QuestionSetBase8, Goal: 4.5})
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, upload.ID)
	require.NoError(t, err)
	assert.Equal(t, model.QuestionSetBase8, stored.LastMetadata.QuestionSet)
	assert.Equal(t, 4.5, stored.LastMetadata.Goal)
	assert.False(t, stored.LastProcessedAt.IsZero())
}
