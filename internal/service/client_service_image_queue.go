package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/notesync/internal/logger"
	"github.com/MKhiriev/notesync/internal/store"
	"github.com/MKhiriev/notesync/internal/utils"
	"github.com/MKhiriev/notesync/models"
)

// ImageBackoff returns min(base·2^retryCount, limit). It never overflows:
// the doubling stops as soon as limit is reached.
func ImageBackoff(retryCount int, base, limit time.Duration) time.Duration {
	if retryCount < 0 {
		retryCount = 0
	}

	d := base
	for i := 0; i < retryCount; i++ {
		if d >= limit {
			return limit
		}
		d *= 2
	}
	return min(d, limit)
}

type imageQueueService struct {
	repo  store.ImageUploadRepository
	ids   *utils.UUIDGenerator
	base  time.Duration
	limit time.Duration
	now   func() time.Time
}

func NewImageQueueService(repo store.ImageUploadRepository, base, limit time.Duration) ImageQueueService {
	return &imageQueueService{
		repo:  repo,
		ids:   utils.NewUUIDGenerator(),
		base:  base,
		limit: limit,
		now:   time.Now,
	}
}

func (s *imageQueueService) Enqueue(ctx context.Context, docID string, blob []byte, contentType string) (models.PendingImageUpload, error) {
	if len(blob) == 0 {
		return models.PendingImageUpload{}, ErrEmptyBlob
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	u := models.PendingImageUpload{
		ID:          s.ids.Generate(),
		ParentDocID: docID,
		Blob:        blob,
		ContentType: contentType,
		Status:      models.UploadPending,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Enqueue(ctx, u); err != nil {
		return models.PendingImageUpload{}, fmt.Errorf("enqueue upload for %s: %w", docID, err)
	}
	return u, nil
}

func (s *imageQueueService) Ready(ctx context.Context, now time.Time) ([]models.PendingImageUpload, error) {
	return s.repo.GetReadyForRetry(ctx, now)
}

func (s *imageQueueService) Claim(ctx context.Context, id string) (bool, error) {
	return s.repo.MarkUploading(ctx, id)
}

func (s *imageQueueService) Fail(ctx context.Context, u models.PendingImageUpload, now time.Time) (models.PendingImageUpload, error) {
	u.RetryCount++
	next := now.Add(ImageBackoff(u.RetryCount, s.base, s.limit))
	u.NextRetryAt = &next
	u.Status = models.UploadFailed

	if err := s.repo.MarkFailed(ctx, u.ID, u.RetryCount, next); err != nil {
		return u, fmt.Errorf("mark upload %s failed: %w", u.ID, err)
	}

	logger.FromContext(ctx).Debug().
		Str("func", "imageQueueService.Fail").
		Str("upload_id", u.ID).
		Int("retry_count", u.RetryCount).
		Time("next_retry_at", next).
		Msg("upload rescheduled")

	return u, nil
}

func (s *imageQueueService) Complete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *imageQueueService) DropForDoc(ctx context.Context, docID string) error {
	return s.repo.DeleteForDoc(ctx, docID)
}

func (s *imageQueueService) Recover(ctx context.Context) (int64, error) {
	n, err := s.repo.ResetUploading(ctx)
	if err != nil {
		return 0, fmt.Errorf("reset uploading uploads: %w", err)
	}
	return n, nil
}

func (s *imageQueueService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
