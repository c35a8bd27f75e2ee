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

type syncRecordRepository struct {
	*DB
}

func NewSyncRecordRepository(db *DB) SyncRecordRepository {
	return &syncRecordRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSyncRecord(row rowScanner) (models.SyncRecord, error) {
	var (
		r                                         models.SyncRecord
		remoteID, versionTag, contentHash, header sql.NullString
		entityType, status                        string
		updatedAt                                 int64
	)

	err := row.Scan(&r.LocalID, &entityType, &remoteID, &versionTag, &status, &contentHash, &header, &updatedAt)
	if err != nil {
		return models.SyncRecord{}, err
	}

	r.EntityType = models.EntityType(entityType)
	r.SyncStatus = models.SyncStatus(status)
	r.RemoteID = fromNullString(remoteID)
	r.VersionTag = fromNullString(versionTag)
	r.ContentHash = fromNullString(contentHash)
	r.EncryptedKeyHeader = fromNullString(header)
	r.UpdatedAt = fromMillis(updatedAt)

	return r, nil
}

func (r *syncRecordRepository) Upsert(ctx context.Context, rec models.SyncRecord) error {
	_, err := r.conn(ctx).ExecContext(ctx, upsertSyncRecord,
		rec.LocalID,
		string(rec.EntityType),
		rec.RemoteID,
		rec.VersionTag,
		string(rec.SyncStatus),
		rec.ContentHash,
		rec.EncryptedKeyHeader,
		toMillis(rec.UpdatedAt),
	)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncRecordRepository.Upsert").
			Str("local_id", rec.LocalID).
			Msg("failed to upsert sync record")
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %w", ErrAlreadyExists, err)
		}
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (r *syncRecordRepository) GetByLocalID(ctx context.Context, localID string) (models.SyncRecord, error) {
	return r.getOne(ctx, "syncRecordRepository.GetByLocalID", getSyncRecordByLocalID, localID)
}

func (r *syncRecordRepository) GetByRemoteID(ctx context.Context, remoteID string) (models.SyncRecord, error) {
	return r.getOne(ctx, "syncRecordRepository.GetByRemoteID", getSyncRecordByRemoteID, remoteID)
}

func (r *syncRecordRepository) getOne(ctx context.Context, fn, query, id string) (models.SyncRecord, error) {
	rec, err := scanSyncRecord(r.conn(ctx).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.SyncRecord{}, ErrSyncRecordNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", fn).
			Str("id", id).
			Msg("failed to get sync record")
		return models.SyncRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return rec, nil
}

func (r *syncRecordRepository) GetPending(ctx context.Context, entityType *models.EntityType) ([]models.SyncRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetPendingQuery(entityType)
	if err != nil {
		log.Err(err).Str("func", "syncRecordRepository.GetPending").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "syncRecordRepository.GetPending").Msg("failed to query pending sync records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var records []models.SyncRecord
	for rows.Next() {
		rec, err := scanSyncRecord(rows)
		if err != nil {
			log.Err(err).Str("func", "syncRecordRepository.GetPending").Msg("failed to scan sync record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return records, nil
}

func (r *syncRecordRepository) MarkSynced(ctx context.Context, localID, remoteID, versionTag, contentHash string, encryptedKeyHeader *string, at time.Time) error {
	result, err := r.conn(ctx).ExecContext(ctx, markSyncRecordSynced, remoteID, versionTag, contentHash, encryptedKeyHeader, toMillis(at), localID)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncRecordRepository.MarkSynced").
			Str("local_id", localID).
			Msg("failed to mark sync record synced")
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %w", ErrAlreadyExists, err)
		}
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return affectedOrNotFound(result, ErrSyncRecordNotFound)
}

func (r *syncRecordRepository) UpdateStatus(ctx context.Context, localID string, status models.SyncStatus, at time.Time) error {
	result, err := r.conn(ctx).ExecContext(ctx, updateSyncRecordStatus, string(status), toMillis(at), localID)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncRecordRepository.UpdateStatus").
			Str("local_id", localID).
			Str("status", string(status)).
			Msg("failed to update sync record status")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return affectedOrNotFound(result, ErrSyncRecordNotFound)
}

func (r *syncRecordRepository) Delete(ctx context.Context, localID string) error {
	if _, err := r.conn(ctx).ExecContext(ctx, deleteSyncRecord, localID); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncRecordRepository.Delete").
			Str("local_id", localID).
			Msg("failed to delete sync record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (r *syncRecordRepository) CreateMissing(ctx context.Context, at time.Time) (int64, error) {
	result, err := r.conn(ctx).ExecContext(ctx, createMissingSyncRecords, toMillis(at))
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncRecordRepository.CreateMissing").
			Msg("failed to create missing sync records")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

func (r *syncRecordRepository) CountPending(ctx context.Context) (map[models.EntityType]int, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildCountPendingQuery()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "syncRecordRepository.CountPending").Msg("failed to count pending sync records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	counts := make(map[models.EntityType]int)
	for rows.Next() {
		var (
			entityType string
			n          int
		)
		if err := rows.Scan(&entityType, &n); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		counts[models.EntityType(entityType)] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return counts, nil
}

func affectedOrNotFound(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
