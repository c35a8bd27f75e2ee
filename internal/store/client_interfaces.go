package store

import (
	"context"
	"time"

	"github.com/MKhiriev/notesync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// Transactor runs a function inside one local transaction. Repository calls
// made with the context handed to fn join that transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UpdateLogRepository stores the append-only update fragments of documents.
type UpdateLogRepository interface {
	// Append inserts u and sets u.Seq.
	Append(ctx context.Context, u *models.DocUpdate) error
	// Load returns the fragments of docID in insertion order.
	Load(ctx context.Context, docID string) ([]models.DocUpdate, error)
	Count(ctx context.Context, docID string) (int, error)
	// Replace deletes the fragments of docID with seq <= upToSeq and inserts
	// snapshot in the same transaction.
	Replace(ctx context.Context, docID string, upToSeq int64, snapshot *models.DocUpdate) error
	DeleteDoc(ctx context.Context, docID string) error
}

// SyncRecordRepository maps local entities to their remote counterparts.
type SyncRecordRepository interface {
	Upsert(ctx context.Context, r models.SyncRecord) error
	GetByLocalID(ctx context.Context, localID string) (models.SyncRecord, error)
	GetByRemoteID(ctx context.Context, remoteID string) (models.SyncRecord, error)
	// GetPending returns pending records, optionally of one entity type.
	GetPending(ctx context.Context, entityType *models.EntityType) ([]models.SyncRecord, error)
	MarkSynced(ctx context.Context, localID, remoteID, versionTag, contentHash string, encryptedKeyHeader *string, at time.Time) error
	UpdateStatus(ctx context.Context, localID string, status models.SyncStatus, at time.Time) error
	Delete(ctx context.Context, localID string) error
	// CreateMissing inserts pending records for live entities that have
	// none and returns how many were created.
	CreateMissing(ctx context.Context, at time.Time) (int64, error)
	CountPending(ctx context.Context) (map[models.EntityType]int, error)
}

// ImageUploadRepository is the durable queue of attachment uploads.
type ImageUploadRepository interface {
	Enqueue(ctx context.Context, u models.PendingImageUpload) error
	Get(ctx context.Context, id string) (models.PendingImageUpload, error)
	// GetReadyForRetry returns pending or failed uploads whose retry time
	// has passed or is unset, oldest first.
	GetReadyForRetry(ctx context.Context, now time.Time) ([]models.PendingImageUpload, error)
	// MarkUploading claims the upload; false means it was already claimed.
	MarkUploading(ctx context.Context, id string) (bool, error)
	MarkFailed(ctx context.Context, id string, retryCount int, nextRetryAt time.Time) error
	Delete(ctx context.Context, id string) error
	DeleteForDoc(ctx context.Context, docID string) error
	// ResetUploading returns uploads stuck in uploading to pending.
	ResetUploading(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int, error)
}

// SyncErrorRepository is the append-only log of per-entity failures.
type SyncErrorRepository interface {
	Record(ctx context.Context, e *models.SyncError) error
	ResolveForEntity(ctx context.Context, entityID string, at time.Time) (int64, error)
	// Sweep deletes resolved rows resolved before cutoff.
	Sweep(ctx context.Context, cutoff time.Time) (int64, error)
	CountUnresolved(ctx context.Context) (int, error)
	CountUnresolvedForEntity(ctx context.Context, entityID string, op models.SyncOperation) (int, error)
	LastUnresolved(ctx context.Context) (*models.SyncError, error)
	ListUnresolved(ctx context.Context) ([]models.SyncError, error)
}

// AppStateRepository is a small key/value table for engine state.
type AppStateRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// EntityRepository stores local notes and folders.
type EntityRepository interface {
	Create(ctx context.Context, e models.Entity) error
	Get(ctx context.Context, id string) (models.Entity, error)
	List(ctx context.Context) ([]models.Entity, error)
	SetDeleted(ctx context.Context, id string, at time.Time) error
	SetParent(ctx context.Context, id string, parentID *string, at time.Time) error
	Touch(ctx context.Context, id string, at time.Time) error
	// Purge removes the row; used after a confirmed remote delete.
	Purge(ctx context.Context, id string) error
}
