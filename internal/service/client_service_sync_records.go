package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/MKhiriev/notesync/internal/logger"
	"github.com/MKhiriev/notesync/internal/store"
	"github.com/MKhiriev/notesync/models"
)

type syncRecordService struct {
	repo store.SyncRecordRepository
	now  func() time.Time
}

func NewSyncRecordService(repo store.SyncRecordRepository) SyncRecordService {
	return &syncRecordService{repo: repo, now: time.Now}
}

func (s *syncRecordService) Track(ctx context.Context, localID string, entityType models.EntityType) error {
	if !entityType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidEntityType, entityType)
	}

	return s.repo.Upsert(ctx, models.SyncRecord{
		LocalID:    localID,
		EntityType: entityType,
		SyncStatus: models.StatusPending,
		UpdatedAt:  s.now(),
	})
}

func (s *syncRecordService) MarkPending(ctx context.Context, localID string) error {
	return s.setStatus(ctx, localID, models.StatusPending)
}

func (s *syncRecordService) MarkConflict(ctx context.Context, localID string) error {
	return s.setStatus(ctx, localID, models.StatusConflict)
}

func (s *syncRecordService) MarkError(ctx context.Context, localID string) error {
	return s.setStatus(ctx, localID, models.StatusError)
}

func (s *syncRecordService) setStatus(ctx context.Context, localID string, status models.SyncStatus) error {
	if err := s.repo.UpdateStatus(ctx, localID, status, s.now()); err != nil {
		return fmt.Errorf("set status %s of %s: %w", status, localID, err)
	}
	return nil
}

func (s *syncRecordService) MarkSynced(ctx context.Context, localID string, res models.PushResult, contentHash string, encryptedKeyHeader *string) error {
	err := s.repo.MarkSynced(ctx, localID, res.RemoteID, res.VersionTag, contentHash, encryptedKeyHeader, s.now())
	if err != nil {
		return fmt.Errorf("mark %s synced: %w", localID, err)
	}
	return nil
}

func (s *syncRecordService) Get(ctx context.Context, localID string) (models.SyncRecord, error) {
	return s.repo.GetByLocalID(ctx, localID)
}

func (s *syncRecordService) GetByRemoteID(ctx context.Context, remoteID string) (models.SyncRecord, error) {
	return s.repo.GetByRemoteID(ctx, remoteID)
}

func (s *syncRecordService) Pending(ctx context.Context, entityType *models.EntityType) ([]models.SyncRecord, error) {
	records, err := s.repo.GetPending(ctx, entityType)
	if err != nil {
		return nil, fmt.Errorf("get pending records: %w", err)
	}

	// folders first so that notes never reference an unknown parent remotely
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].EntityType == models.EntityFolder && records[j].EntityType != models.EntityFolder
	})
	return records, nil
}

func (s *syncRecordService) Save(ctx context.Context, r models.SyncRecord) error {
	r.UpdatedAt = s.now()
	return s.repo.Upsert(ctx, r)
}

func (s *syncRecordService) Remove(ctx context.Context, localID string) error {
	return s.repo.Delete(ctx, localID)
}

func (s *syncRecordService) MigrateMissing(ctx context.Context) (int64, error) {
	n, err := s.repo.CreateMissing(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("create missing sync records: %w", err)
	}

	if n > 0 {
		logger.FromContext(ctx).Info().
			Str("func", "syncRecordService.MigrateMissing").
			Int64("created", n).
			Msg("created sync records for untracked entities")
	}
	return n, nil
}

func (s *syncRecordService) CountPending(ctx context.Context) (map[models.EntityType]int, error) {
	return s.repo.CountPending(ctx)
}
