package models

import "time"

// SyncStatus is the lifecycle state of a [SyncRecord].
type SyncStatus string

const (
	// StatusPending means the local content may differ from the remote copy.
	StatusPending SyncStatus = "pending"

	// StatusSynced means the last pushed or pulled content hash matches the
	// local content.
	StatusSynced SyncStatus = "synced"

	// StatusConflict means the remote refused the pushed version. The next
	// pull merges the newer remote version and moves the record back to
	// pending.
	StatusConflict SyncStatus = "conflict"

	// StatusError means the entity failed validation and will not be retried
	// until it changes again.
	StatusError SyncStatus = "error"
)

// SyncRecord maps a local entity to its remote counterpart.
//
// Any local mutation that changes the canonical content moves SyncStatus to
// [StatusPending]; a record never stays [StatusSynced] while its content
// has drifted.
type SyncRecord struct {
	// LocalID is the identifier of the local entity (and its document).
	LocalID string `json:"local_id"`

	// EntityType is the kind of the local entity.
	EntityType EntityType `json:"entity_type"`

	// RemoteID is assigned by the remote backend on the first successful push.
	RemoteID *string `json:"remote_id,omitempty"`

	// VersionTag is the opaque remote revision last seen by this client.
	VersionTag *string `json:"version_tag,omitempty"`

	// SyncStatus is the current lifecycle state.
	SyncStatus SyncStatus `json:"sync_status"`

	// ContentHash is the hash of the content at the last successful push or
	// pull. Pending records with an unchanged hash are skipped on push.
	ContentHash *string `json:"content_hash,omitempty"`

	// EncryptedKeyHeader is the wrapped per-entity content key used to seal
	// pushed updates.
	EncryptedKeyHeader *string `json:"encrypted_key_header,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the table holding sync records.
func (r *SyncRecord) TableName() string {
	return "sync_records"
}
