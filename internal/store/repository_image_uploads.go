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

type imageUploadRepository struct {
	*DB
}

func NewImageUploadRepository(db *DB) ImageUploadRepository {
	return &imageUploadRepository{DB: db}
}

func scanImageUpload(row rowScanner) (models.PendingImageUpload, error) {
	var (
		u           models.PendingImageUpload
		status      string
		nextRetryAt sql.NullInt64
		createdAt   int64
	)

	if err := row.Scan(&u.ID, &u.ParentDocID, &u.Blob, &u.ContentType, &status, &u.RetryCount, &nextRetryAt, &createdAt); err != nil {
		return models.PendingImageUpload{}, err
	}

	u.Status = models.UploadStatus(status)
	u.NextRetryAt = fromNullMillis(nextRetryAt)
	u.CreatedAt = fromMillis(createdAt)

	return u, nil
}

func (r *imageUploadRepository) Enqueue(ctx context.Context, u models.PendingImageUpload) error {
	_, err := r.conn(ctx).ExecContext(ctx, enqueueImageUpload,
		u.ID,
		u.ParentDocID,
		u.Blob,
		u.ContentType,
		string(u.Status),
		u.RetryCount,
		nullMillis(u.NextRetryAt),
		toMillis(u.CreatedAt),
	)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "imageUploadRepository.Enqueue").
			Str("upload_id", u.ID).
			Str("doc_id", u.ParentDocID).
			Msg("failed to enqueue image upload")
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %w", ErrAlreadyExists, err)
		}
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (r *imageUploadRepository) Get(ctx context.Context, id string) (models.PendingImageUpload, error) {
	u, err := scanImageUpload(r.conn(ctx).QueryRowContext(ctx, getImageUpload, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.PendingImageUpload{}, ErrUploadNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "imageUploadRepository.Get").
			Str("upload_id", id).
			Msg("failed to get image upload")
		return models.PendingImageUpload{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return u, nil
}

func (r *imageUploadRepository) GetReadyForRetry(ctx context.Context, now time.Time) ([]models.PendingImageUpload, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildReadyForRetryQuery(now)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "imageUploadRepository.GetReadyForRetry").Msg("failed to query ready uploads")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var uploads []models.PendingImageUpload
	for rows.Next() {
		u, err := scanImageUpload(rows)
		if err != nil {
			log.Err(err).Str("func", "imageUploadRepository.GetReadyForRetry").Msg("failed to scan upload row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		uploads = append(uploads, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return uploads, nil
}

func (r *imageUploadRepository) MarkUploading(ctx context.Context, id string) (bool, error) {
	result, err := r.conn(ctx).ExecContext(ctx, claimImageUpload, id)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "imageUploadRepository.MarkUploading").
			Str("upload_id", id).
			Msg("failed to claim image upload")
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	n, _ := result.RowsAffected()
	return n == 1, nil
}

func (r *imageUploadRepository) MarkFailed(ctx context.Context, id string, retryCount int, nextRetryAt time.Time) error {
	result, err := r.conn(ctx).ExecContext(ctx, failImageUpload, retryCount, toMillis(nextRetryAt), id)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "imageUploadRepository.MarkFailed").
			Str("upload_id", id).
			Msg("failed to schedule image upload retry")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return affectedOrNotFound(result, ErrUploadNotFound)
}

func (r *imageUploadRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.conn(ctx).ExecContext(ctx, deleteImageUpload, id); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "imageUploadRepository.Delete").
			Str("upload_id", id).
			Msg("failed to delete image upload")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (r *imageUploadRepository) DeleteForDoc(ctx context.Context, docID string) error {
	if _, err := r.conn(ctx).ExecContext(ctx, deleteImageUploadsForDoc, docID); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "imageUploadRepository.DeleteForDoc").
			Str("doc_id", docID).
			Msg("failed to delete image uploads of document")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (r *imageUploadRepository) ResetUploading(ctx context.Context) (int64, error) {
	result, err := r.conn(ctx).ExecContext(ctx, resetUploadingImageUploads)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "imageUploadRepository.ResetUploading").
			Msg("failed to reset stuck uploads")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

func (r *imageUploadRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.conn(ctx).QueryRowContext(ctx, countImageUploads).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return n, nil
}
