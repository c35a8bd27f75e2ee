package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/notesync/internal/logger"
	"github.com/MKhiriev/notesync/models"
)

type syncErrorRepository struct {
	*DB
}

func NewSyncErrorRepository(db *DB) SyncErrorRepository {
	return &syncErrorRepository{DB: db}
}

func scanSyncError(row rowScanner) (models.SyncError, error) {
	var (
		e                       models.SyncError
		operation               string
		code                    sql.NullString
		nextRetryAt, resolvedAt sql.NullInt64
		createdAt               int64
	)

	err := row.Scan(&e.ID, &e.EntityID, &e.EntityType, &operation, &e.Message, &code, &e.RetryCount, &nextRetryAt, &resolvedAt, &createdAt)
	if err != nil {
		return models.SyncError{}, err
	}

	e.Operation = models.SyncOperation(operation)
	e.Code = fromNullString(code)
	e.NextRetryAt = fromNullMillis(nextRetryAt)
	e.ResolvedAt = fromNullMillis(resolvedAt)
	e.CreatedAt = fromMillis(createdAt)

	return e, nil
}

func (r *syncErrorRepository) Record(ctx context.Context, e *models.SyncError) error {
	result, err := r.conn(ctx).ExecContext(ctx, recordSyncError,
		e.EntityID,
		e.EntityType,
		string(e.Operation),
		e.Message,
		e.Code,
		e.RetryCount,
		nullMillis(e.NextRetryAt),
		toMillis(e.CreatedAt),
	)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncErrorRepository.Record").
			Str("entity_id", e.EntityID).
			Msg("failed to record sync error")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	e.ID = id

	return nil
}

func (r *syncErrorRepository) ResolveForEntity(ctx context.Context, entityID string, at time.Time) (int64, error) {
	result, err := r.conn(ctx).ExecContext(ctx, resolveSyncErrors, toMillis(at), entityID)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncErrorRepository.ResolveForEntity").
			Str("entity_id", entityID).
			Msg("failed to resolve sync errors")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

func (r *syncErrorRepository) Sweep(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.conn(ctx).ExecContext(ctx, sweepSyncErrors, toMillis(cutoff))
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncErrorRepository.Sweep").
			Msg("failed to sweep resolved sync errors")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

func (r *syncErrorRepository) CountUnresolved(ctx context.Context) (int, error) {
	var n int
	if err := r.conn(ctx).QueryRowContext(ctx, countUnresolvedSyncErrors).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return n, nil
}

func (r *syncErrorRepository) CountUnresolvedForEntity(ctx context.Context, entityID string, op models.SyncOperation) (int, error) {
	var n int
	if err := r.conn(ctx).QueryRowContext(ctx, countUnresolvedSyncErrorsForEntity, entityID, string(op)).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return n, nil
}

func (r *syncErrorRepository) LastUnresolved(ctx context.Context) (*models.SyncError, error) {
	e, err := scanSyncError(r.conn(ctx).QueryRowContext(ctx, lastUnresolvedSyncError))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return &e, nil
}

func (r *syncErrorRepository) ListUnresolved(ctx context.Context) ([]models.SyncError, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, listUnresolvedSyncErrors)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var list []models.SyncError
	for rows.Next() {
		e, err := scanSyncError(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		list = append(list, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return list, nil
}
