package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/notesync/internal/logger"
	"github.com/MKhiriev/notesync/internal/store"
	"github.com/MKhiriev/notesync/models"
)

type syncErrorService struct {
	repo store.SyncErrorRepository
	now  func() time.Time
}

func NewSyncErrorService(repo store.SyncErrorRepository) SyncErrorService {
	return &syncErrorService{repo: repo, now: time.Now}
}

func (s *syncErrorService) Record(ctx context.Context, entityID, entityType string, op models.SyncOperation, cause error) (models.SyncError, error) {
	retries, err := s.repo.CountUnresolvedForEntity(ctx, entityID, op)
	if err != nil {
		return models.SyncError{}, fmt.Errorf("count earlier failures of %s: %w", entityID, err)
	}

	code := string(ClassifyError(cause))
	e := models.SyncError{
		EntityID:   entityID,
		EntityType: entityType,
		Operation:  op,
		Message:    cause.Error(),
		Code:       &code,
		RetryCount: retries,
		CreatedAt:  s.now(),
	}
	if err = s.repo.Record(ctx, &e); err != nil {
		return models.SyncError{}, fmt.Errorf("record failure of %s: %w", entityID, err)
	}

	logger.FromContext(ctx).Warn().
		Str("func", "syncErrorService.Record").
		Str("entity_id", entityID).
		Str("operation", string(op)).
		Str("code", code).
		Int("retry_count", retries).
		Msg(e.Message)

	return e, nil
}

func (s *syncErrorService) ResolveForEntity(ctx context.Context, entityID string) error {
	if _, err := s.repo.ResolveForEntity(ctx, entityID, s.now()); err != nil {
		return fmt.Errorf("resolve failures of %s: %w", entityID, err)
	}
	return nil
}

func (s *syncErrorService) Sweep(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := s.now().Add(-time.Duration(retentionDays) * 24 * time.Hour)

	n, err := s.repo.Sweep(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweep resolved errors: %w", err)
	}

	logger.FromContext(ctx).Debug().
		Str("func", "syncErrorService.Sweep").
		Int64("deleted", n).
		Time("cutoff", cutoff).
		Msg("swept resolved sync errors")

	return n, nil
}

func (s *syncErrorService) CountUnresolved(ctx context.Context) (int, error) {
	return s.repo.CountUnresolved(ctx)
}

func (s *syncErrorService) LastUnresolved(ctx context.Context) (*models.SyncError, error) {
	return s.repo.LastUnresolved(ctx)
}

func (s *syncErrorService) ListUnresolved(ctx context.Context) ([]models.SyncError, error) {
	return s.repo.ListUnresolved(ctx)
}
