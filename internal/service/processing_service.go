package service

import (
	"context"
	"log"
	"time"

	"github.com/betjuliano/sefa-dashboard/internal/cache"
	"github.com/betjuliano/sefa-dashboard/internal/model"
	"github.com/betjuliano/sefa-dashboard/internal/pipeline"
	"github.com/betjuliano/sefa-dashboard/internal/repository"
)

// ProcessingOptions select how one upload is scored
type ProcessingOptions struct {
	QuestionSet model.QuestionSet // zero value: infer from headers
	Goal        float64           // zero value: server default
	Strict      bool
}

// ProcessingService runs the scoring pipeline over stored uploads, with a
// cache in front keyed by (fingerprint, question set, goal). A cache hit is
// byte-identical to a fresh run; strict-mode runs bypass the cache.
type ProcessingService struct {
	processor   *pipeline.Processor
	uploads     repository.UploadRepo
	results     cache.ResultCache
	defaultGoal float64
}

// NewProcessingService creates a new processing service
func NewProcessingService(processor *pipeline.Processor, uploads repository.UploadRepo, results cache.ResultCache, defaultGoal float64) *ProcessingService {
	return &ProcessingService{
		processor:   processor,
		uploads:     uploads,
		results:     results,
		defaultGoal: defaultGoal,
	}
}

// Process scores one stored upload and records its audit metadata
func (s *ProcessingService) Process(ctx context.Context, upload *model.UploadRecord, opts ProcessingOptions) (*model.ProcessedData, error) {
	goal := opts.Goal
	if goal == 0 {
		goal = s.defaultGoal
	}

	if !opts.Strict && opts.QuestionSet.Valid() {
		cached, err := s.results.Get(ctx, upload.Fingerprint, opts.QuestionSet, goal)
		if err != nil {
			log.Printf("result cache read failed for %s: %v", upload.ID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	var delimiter rune
	if upload.Delimiter != "" {
		delimiter = rune(upload.Delimiter[0])
	}

	data, err := s.processor.Process(upload.RawData, pipeline.Options{
		QuestionSet: opts.QuestionSet,
		Goal:        goal,
		Delimiter:   delimiter,
		Strict:      opts.Strict,
	})
	if err != nil {
		return nil, err
	}

	upload.LastMetadata = data.Metadata
	upload.LastProcessedAt = time.Now().UTC()
	if err := s.uploads.UpdateMetadata(ctx, upload); err != nil {
		log.Printf("audit metadata update failed for %s: %v", upload.ID, err)
	}

	if !opts.Strict {
		if err := s.results.Set(ctx, upload.Fingerprint, data.Metadata.QuestionSet, goal, data); err != nil {
			log.Printf("result cache write failed for %s: %v", upload.ID, err)
		}
	}
	return data, nil
}
