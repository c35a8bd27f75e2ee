package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/notesync/internal/logger"
	"github.com/MKhiriev/notesync/models"
)

type updateLogRepository struct {
	*DB
}

func NewUpdateLogRepository(db *DB) UpdateLogRepository {
	return &updateLogRepository{DB: db}
}

func (r *updateLogRepository) Append(ctx context.Context, u *models.DocUpdate) error {
	log := logger.FromContext(ctx)

	result, err := r.conn(ctx).ExecContext(ctx, appendDocUpdate, u.ID, u.DocID, u.Data, u.Origin, toMillis(u.CreatedAt))
	if err != nil {
		log.Err(err).
			Str("func", "updateLogRepository.Append").
			Str("doc_id", u.DocID).
			Msg("failed to append document update")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrUpdateNotSaved
	}

	seq, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	u.Seq = seq

	return nil
}

func (r *updateLogRepository) Load(ctx context.Context, docID string) ([]models.DocUpdate, error) {
	log := logger.FromContext(ctx)

	rows, err := r.conn(ctx).QueryContext(ctx, loadDocUpdates, docID)
	if err != nil {
		log.Err(err).
			Str("func", "updateLogRepository.Load").
			Str("doc_id", docID).
			Msg("failed to query document updates")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var updates []models.DocUpdate
	for rows.Next() {
		var (
			u         models.DocUpdate
			createdAt int64
		)
		if err := rows.Scan(&u.Seq, &u.ID, &u.DocID, &u.Data, &u.Origin, &createdAt); err != nil {
			log.Err(err).
				Str("func", "updateLogRepository.Load").
				Str("doc_id", docID).
				Msg("failed to scan document update row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		u.CreatedAt = fromMillis(createdAt)
		updates = append(updates, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return updates, nil
}

func (r *updateLogRepository) Count(ctx context.Context, docID string) (int, error) {
	var n int
	if err := r.conn(ctx).QueryRowContext(ctx, countDocUpdates, docID).Scan(&n); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "updateLogRepository.Count").
			Str("doc_id", docID).
			Msg("failed to count document updates")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return n, nil
}

func (r *updateLogRepository) Replace(ctx context.Context, docID string, upToSeq int64, snapshot *models.DocUpdate) error {
	log := logger.FromContext(ctx)

	return r.WithTx(ctx, func(ctx context.Context) error {
		result, err := r.conn(ctx).ExecContext(ctx, deleteDocUpdatesUpTo, docID, upToSeq)
		if err != nil {
			log.Err(err).
				Str("func", "updateLogRepository.Replace").
				Str("doc_id", docID).
				Int64("up_to_seq", upToSeq).
				Msg("failed to delete compacted updates")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		deleted, _ := result.RowsAffected()
		log.Debug().
			Str("func", "updateLogRepository.Replace").
			Str("doc_id", docID).
			Int64("deleted", deleted).
			Msg("replacing document updates with snapshot")

		return r.Append(ctx, snapshot)
	})
}

func (r *updateLogRepository) DeleteDoc(ctx context.Context, docID string) error {
	if _, err := r.conn(ctx).ExecContext(ctx, deleteDocUpdates, docID); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "updateLogRepository.DeleteDoc").
			Str("doc_id", docID).
			Msg("failed to delete document updates")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}
