package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/notesync/internal/config"
	"github.com/MKhiriev/notesync/internal/logger"
)

// ClientStorages groups all local repositories behind one shared [DB] handle
// so that they can be injected into the service layer together.
type ClientStorages struct {
	DB *DB

	Transactor  Transactor
	UpdateLog   UpdateLogRepository
	SyncRecords SyncRecordRepository
	ImageQueue  ImageUploadRepository
	SyncErrors  SyncErrorRepository
	AppState    AppStateRepository
	Entities    EntityRepository
}

// NewClientStorages initialises the client storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens an SQLite connection to the file path specified in cfg.DB.DSN,
//     creating the database file if it does not yet exist.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Wires every repository to the shared handle.
//
// Returns an error if the database connection cannot be established or if
// migration fails.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return NewClientStoragesFromDB(db), nil
}

// NewClientStoragesFromDB wires the repositories to an already migrated db.
func NewClientStoragesFromDB(db *DB) *ClientStorages {
	return &ClientStorages{
		DB:          db,
		Transactor:  db,
		UpdateLog:   NewUpdateLogRepository(db),
		SyncRecords: NewSyncRecordRepository(db),
		ImageQueue:  NewImageUploadRepository(db),
		SyncErrors:  NewSyncErrorRepository(db),
		AppState:    NewAppStateRepository(db),
		Entities:    NewEntityRepository(db),
	}
}

// Close releases the database handle.
func (s *ClientStorages) Close() error {
	return s.DB.Close()
}
