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

type entityRepository struct {
	*DB
}

func NewEntityRepository(db *DB) EntityRepository {
	return &entityRepository{DB: db}
}

func scanEntity(row rowScanner) (models.Entity, error) {
	var (
		e                    models.Entity
		entityType           string
		parentID             sql.NullString
		createdAt, updatedAt int64
	)

	if err := row.Scan(&e.ID, &entityType, &parentID, &e.Deleted, &createdAt, &updatedAt); err != nil {
		return models.Entity{}, err
	}

	e.Type = models.EntityType(entityType)
	e.ParentID = fromNullString(parentID)
	e.CreatedAt = fromMillis(createdAt)
	e.UpdatedAt = fromMillis(updatedAt)

	return e, nil
}

func (r *entityRepository) Create(ctx context.Context, e models.Entity) error {
	_, err := r.conn(ctx).ExecContext(ctx, createEntity,
		e.ID,
		string(e.Type),
		e.ParentID,
		e.Deleted,
		toMillis(e.CreatedAt),
		toMillis(e.UpdatedAt),
	)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "entityRepository.Create").
			Str("local_id", e.ID).
			Msg("failed to create entity")
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %w", ErrAlreadyExists, err)
		}
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (r *entityRepository) Get(ctx context.Context, id string) (models.Entity, error) {
	e, err := scanEntity(r.conn(ctx).QueryRowContext(ctx, getEntity, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entity{}, ErrEntityNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "entityRepository.Get").
			Str("local_id", id).
			Msg("failed to get entity")
		return models.Entity{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return e, nil
}

func (r *entityRepository) List(ctx context.Context) ([]models.Entity, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, listEntities)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var list []models.Entity
	for rows.Next() {
		e, err := scanEntity(rows)
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

func (r *entityRepository) SetDeleted(ctx context.Context, id string, at time.Time) error {
	return r.exec(ctx, "entityRepository.SetDeleted", id, setEntityDeleted, toMillis(at), id)
}

func (r *entityRepository) SetParent(ctx context.Context, id string, parentID *string, at time.Time) error {
	return r.exec(ctx, "entityRepository.SetParent", id, setEntityParent, parentID, toMillis(at), id)
}

func (r *entityRepository) Touch(ctx context.Context, id string, at time.Time) error {
	return r.exec(ctx, "entityRepository.Touch", id, touchEntity, toMillis(at), id)
}

func (r *entityRepository) Purge(ctx context.Context, id string) error {
	if _, err := r.conn(ctx).ExecContext(ctx, purgeEntity, id); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (r *entityRepository) exec(ctx context.Context, fn, id, query string, args ...any) error {
	result, err := r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", fn).
			Str("local_id", id).
			Msg("failed to update entity")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return affectedOrNotFound(result, ErrEntityNotFound)
}
