package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/notesync/internal/logger"
)

// Keys of the app_state table.
const (
	KeyPullCursor = "pull_cursor"
	KeyReplicaID  = "replica_id"
	KeyLastSyncAt = "last_sync_at"
)

type appStateRepository struct {
	*DB
}

func NewAppStateRepository(db *DB) AppStateRepository {
	return &appStateRepository{DB: db}
}

func (r *appStateRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.conn(ctx).QueryRowContext(ctx, getAppState, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "appStateRepository.Get").
			Str("key", key).
			Msg("failed to read app state")
		return "", false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return value, true, nil
}

func (r *appStateRepository) Set(ctx context.Context, key, value string) error {
	if _, err := r.conn(ctx).ExecContext(ctx, setAppState, key, value); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "appStateRepository.Set").
			Str("key", key).
			Msg("failed to write app state")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}
