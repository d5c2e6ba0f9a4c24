package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/betjuliano/sefa-dashboard/internal/cache"
	"github.com/betjuliano/sefa-dashboard/internal/model"
	"github.com/betjuliano/sefa-dashboard/internal/repository"
)

var (
	ErrUploadNotFound = errors.New("upload not found")
	ErrUploadEmpty    = errors.New("upload contains no data")
	ErrUploadTooLarge = errors.New("upload exceeds the size limit")
)

// UploadService manages survey file uploads. Raw bytes are persisted so any
// upload can be reprocessed later under a different question set or goal.
type UploadService struct {
	uploads  repository.UploadRepo
	results  cache.ResultCache
	maxBytes int64
}

// NewUploadService creates a new upload service
func NewUploadService(uploads repository.UploadRepo, results cache.ResultCache, maxBytes int64) *UploadService {
	return &UploadService{uploads: uploads, results: results, maxBytes: maxBytes}
}

// Fingerprint returns the content hash used for dedup and cache keys
func Fingerprint(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Store persists a new upload. A re-upload of identical bytes by the same
// user returns the existing record instead of duplicating it.
func (s *UploadService) Store(ctx context.Context, userID, filename string, raw []byte, delimiter string) (*model.UploadRecord, error) {
	if len(raw) == 0 {
		return nil, ErrUploadEmpty
	}
	if s.maxBytes > 0 && int64(len(raw)) > s.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrUploadTooLarge, len(raw))
	}

	fingerprint := Fingerprint(raw)
	if existing, err := s.uploads.GetByFingerprint(ctx, userID, fingerprint); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	upload := &model.UploadRecord{
		ID:          uuid.New().String(),
		UserID:      userID,
		Filename:    filename,
		Fingerprint: fingerprint,
		SizeBytes:   len(raw),
		RawData:     raw,
		Delimiter:   delimiter,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.uploads.Create(ctx, upload); err != nil {
		return nil, err
	}
	return upload, nil
}

// Get returns one upload with its raw data
func (s *UploadService) Get(ctx context.Context, userID, id string) (*model.UploadRecord, error) {
	upload, err := s.uploads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upload == nil || upload.UserID != userID {
		return nil, ErrUploadNotFound
	}
	return upload, nil
}

// List returns the user's uploads without raw data, newest first
func (s *UploadService) List(ctx context.Context, userID string) ([]*model.UploadRecord, error) {
	return s.uploads.ListByUser(ctx, userID)
}

// Delete removes an upload and any cached results for its content
func (s *UploadService) Delete(ctx context.Context, userID, id string) error {
	upload, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.uploads.Delete(ctx, upload.ID); err != nil {
		return err
	}
	if err := s.results.Invalidate(ctx, upload.Fingerprint); err != nil {
		log.Printf("result cache invalidation failed for %s: %v", upload.ID, err)
	}
	return nil
}
