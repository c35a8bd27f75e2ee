package service

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/MKhiriev/notesync/internal/crdt"
	"github.com/MKhiriev/notesync/internal/logger"
	"github.com/MKhiriev/notesync/internal/store"
	"github.com/MKhiriev/notesync/internal/utils"
	"github.com/MKhiriev/notesync/models"
)

type updateLogService struct {
	repo      store.UpdateLogRepository
	threshold int
	now       func() time.Time
}

// NewUpdateLogService returns an [UpdateLogService] that compacts a log once
// it holds more than threshold fragments. A threshold below 1 disables
// automatic compaction.
func NewUpdateLogService(repo store.UpdateLogRepository, threshold int) UpdateLogService {
	return &updateLogService{repo: repo, threshold: threshold, now: time.Now}
}

func (s *updateLogService) Append(ctx context.Context, docID string, fragment []byte) (models.DocUpdate, error) {
	origin, _ := utils.OriginFromContext(ctx)

	u := models.DocUpdate{
		ID:        ksuid.New().String(),
		DocID:     docID,
		Data:      fragment,
		Origin:    origin,
		CreatedAt: s.now(),
	}
	if err := s.repo.Append(ctx, &u); err != nil {
		return models.DocUpdate{}, fmt.Errorf("append update of %s: %w", docID, err)
	}

	if s.threshold > 0 {
		n, err := s.repo.Count(ctx, docID)
		if err == nil && n > s.threshold {
			s.compactQuietly(ctx, docID)
		}
	}

	return u, nil
}

func (s *updateLogService) Load(ctx context.Context, docID string) ([][]byte, error) {
	updates, err := s.repo.Load(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("load updates of %s: %w", docID, err)
	}

	fragments := make([][]byte, 0, len(updates))
	for _, u := range updates {
		fragments = append(fragments, u.Data)
	}

	if s.threshold > 0 && len(updates) > s.threshold {
		s.compactUpdates(ctx, docID, updates)
	}

	return fragments, nil
}

func (s *updateLogService) Reconstruct(ctx context.Context, docID, replica string) (*crdt.Doc, error) {
	fragments, err := s.Load(ctx, docID)
	if err != nil {
		return nil, err
	}

	doc, err := crdt.Reconstruct(replica, fragments)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "updateLogService.Reconstruct").
			Str("doc_id", docID).
			Msg("failed to merge document updates")
		return nil, fmt.Errorf("reconstruct %s: %w", docID, err)
	}
	return doc, nil
}

func (s *updateLogService) Compact(ctx context.Context, docID string) error {
	updates, err := s.repo.Load(ctx, docID)
	if err != nil {
		return fmt.Errorf("load updates of %s: %w", docID, err)
	}
	return s.replace(ctx, docID, updates)
}

func (s *updateLogService) Delete(ctx context.Context, docID string) error {
	if err := s.repo.DeleteDoc(ctx, docID); err != nil {
		return fmt.Errorf("delete updates of %s: %w", docID, err)
	}
	return nil
}

func (s *updateLogService) compactQuietly(ctx context.Context, docID string) {
	if err := s.Compact(ctx, docID); err != nil {
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "updateLogService.compactQuietly").
			Str("doc_id", docID).
			Msg("compaction failed, will retry on next threshold crossing")
	}
}

func (s *updateLogService) compactUpdates(ctx context.Context, docID string, updates []models.DocUpdate) {
	if err := s.replace(ctx, docID, updates); err != nil {
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "updateLogService.compactUpdates").
			Str("doc_id", docID).
			Msg("compaction on load failed")
	}
}

// replace merges updates into one snapshot and swaps it in for every
// fragment up to the last loaded seq. Fragments appended concurrently have a
// higher seq and survive.
func (s *updateLogService) replace(ctx context.Context, docID string, updates []models.DocUpdate) error {
	if len(updates) < 2 {
		return nil
	}

	fragments := make([][]byte, 0, len(updates))
	for _, u := range updates {
		fragments = append(fragments, u.Data)
	}

	merged, err := crdt.MergeUpdates(fragments...)
	if err != nil {
		return fmt.Errorf("merge updates of %s: %w", docID, err)
	}

	last := updates[len(updates)-1]
	snapshot := &models.DocUpdate{
		ID:        ksuid.New().String(),
		DocID:     docID,
		Data:      merged,
		Origin:    last.Origin,
		CreatedAt: s.now(),
	}
	if err = s.repo.Replace(ctx, docID, last.Seq, snapshot); err != nil {
		return fmt.Errorf("replace updates of %s: %w", docID, err)
	}

	logger.FromContext(ctx).Debug().
		Str("func", "updateLogService.replace").
		Str("doc_id", docID).
		Int("fragments", len(updates)).
		Msg("document log compacted")

	return nil
}
