package service

import (
	"context"
	"time"

	"github.com/MKhiriev/notesync/internal/crdt"
	"github.com/MKhiriev/notesync/models"
)

// UpdateLogService owns the durable, append-only update log of every
// document. Every fragment produced by a local mutation passes through Append
// before the mutating call returns.
type UpdateLogService interface {
	// Append persists one fragment of docID. The fragment origin is taken from
	// the context (see utils.WithOrigin). When the log of docID grows past the
	// compaction threshold it is compacted; compaction failures are logged and
	// retried on the next crossing.
	Append(ctx context.Context, docID string, fragment []byte) (models.DocUpdate, error)

	// Load returns the fragments of docID in insertion order.
	Load(ctx context.Context, docID string) ([][]byte, error)

	// Reconstruct merges the fragments of docID into a document whose local
	// edits are attributed to replica.
	Reconstruct(ctx context.Context, docID, replica string) (*crdt.Doc, error)

	// Compact replaces the log of docID with one fragment holding its full
	// state, in one transaction.
	Compact(ctx context.Context, docID string) error

	// Delete drops the whole log of docID.
	Delete(ctx context.Context, docID string) error
}

// SyncRecordService tracks which local entities still have to be pushed.
type SyncRecordService interface {
	// Track creates a pending record for a freshly created entity.
	Track(ctx context.Context, localID string, entityType models.EntityType) error

	// MarkPending moves the record of localID to pending. Called after every
	// local mutation that may change canonical content.
	MarkPending(ctx context.Context, localID string) error

	MarkSynced(ctx context.Context, localID string, res models.PushResult, contentHash string, encryptedKeyHeader *string) error
	MarkConflict(ctx context.Context, localID string) error
	MarkError(ctx context.Context, localID string) error

	Get(ctx context.Context, localID string) (models.SyncRecord, error)
	GetByRemoteID(ctx context.Context, remoteID string) (models.SyncRecord, error)

	// Pending returns pending records, folders first.
	Pending(ctx context.Context, entityType *models.EntityType) ([]models.SyncRecord, error)

	// Save writes r as is.
	Save(ctx context.Context, r models.SyncRecord) error
	Remove(ctx context.Context, localID string) error

	// MigrateMissing creates pending records for entities that predate sync
	// tracking. Safe to run on every start.
	MigrateMissing(ctx context.Context) (int64, error)

	CountPending(ctx context.Context) (map[models.EntityType]int, error)
}

// ImageQueueService is the durable retry queue of attachment uploads.
type ImageQueueService interface {
	// Enqueue stores blob as a pending upload owned by docID.
	Enqueue(ctx context.Context, docID string, blob []byte, contentType string) (models.PendingImageUpload, error)

	// Ready returns uploads whose retry time has passed or is unset, oldest
	// first.
	Ready(ctx context.Context, now time.Time) ([]models.PendingImageUpload, error)

	// Claim moves the upload to uploading. False means another cycle owns it.
	Claim(ctx context.Context, id string) (bool, error)

	// Fail increments the retry counter of u and schedules the next attempt
	// using [ImageBackoff]. It returns the updated upload.
	Fail(ctx context.Context, u models.PendingImageUpload, now time.Time) (models.PendingImageUpload, error)

	// Complete deletes an upload the remote accepted.
	Complete(ctx context.Context, id string) error

	DropForDoc(ctx context.Context, docID string) error

	// Recover returns uploads left in uploading by a crash to pending.
	Recover(ctx context.Context) (int64, error)

	Count(ctx context.Context) (int, error)
}

// SyncErrorService is the bookkeeping of per-entity failures.
type SyncErrorService interface {
	// Record classifies err and appends it for entityID. The retry counter is
	// the number of earlier unresolved failures of the same operation.
	Record(ctx context.Context, entityID, entityType string, op models.SyncOperation, err error) (models.SyncError, error)

	// ResolveForEntity marks every unresolved row of entityID resolved.
	ResolveForEntity(ctx context.Context, entityID string) error

	// Sweep deletes rows resolved more than retentionDays ago.
	Sweep(ctx context.Context, retentionDays int) (int64, error)

	CountUnresolved(ctx context.Context) (int, error)
	LastUnresolved(ctx context.Context) (*models.SyncError, error)
	ListUnresolved(ctx context.Context) ([]models.SyncError, error)
}

// EntityService creates, moves and deletes notes and folders, and opens
// their documents for editing.
type EntityService interface {
	// CreateNote creates a note with title inside parentID (nil for root).
	// The entity row, its pending sync record and its first fragment are
	// written in one transaction.
	CreateNote(ctx context.Context, parentID *string, title string) (models.Entity, error)

	// CreateFolder creates a folder named name inside parentID.
	CreateFolder(ctx context.Context, parentID *string, name string) (models.Entity, error)

	Get(ctx context.Context, id string) (models.Entity, error)
	List(ctx context.Context) ([]models.Entity, error)

	// Move sets the parent folder of id.
	Move(ctx context.Context, id string, parentID *string) error

	// Delete soft-deletes id. The entity is purged after the remote delete
	// is confirmed.
	Delete(ctx context.Context, id string) error

	// Open returns an editing session over the document of id.
	Open(ctx context.Context, id string) (*DocumentSession, error)
}

// SyncEngine runs reconciliation cycles between the local store and the
// remote backend.
type SyncEngine interface {
	// Start performs crash recovery and the one-time record migration.
	Start(ctx context.Context) error

	// Stop cancels the retry timer.
	Stop()

	// Sync runs one cycle unless the engine is offline, a cycle is already in
	// flight, or the last attempt is inside the debounce window. A dropped
	// request returns a result with Skipped set. Calling Sync cancels a
	// pending retry timer.
	Sync(ctx context.Context) (models.SyncResult, error)

	// SetOnline records a connectivity change. Going offline cancels the
	// retry timer; coming online triggers a cycle.
	SetOnline(online bool)

	// Subscribe registers fn for progress reports and returns a function
	// removing it.
	Subscribe(fn func(models.SyncProgress)) (unsubscribe func())

	// Status returns counters derived from the local store.
	Status(ctx context.Context) (models.SyncStatusSnapshot, error)
}

// ClientSyncJob runs the background workers of the client.
type ClientSyncJob interface {
	// Start launches the sync trigger and the error sweeper. A running job
	// is stopped first.
	Start(ctx context.Context)

	// Stop stops the workers and waits for them to exit.
	Stop()
}
