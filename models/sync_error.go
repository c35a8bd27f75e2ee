package models

import "time"

// SyncOperation names the engine operation that failed.
type SyncOperation string

const (
	OperationPush   SyncOperation = "push"
	OperationPull   SyncOperation = "pull"
	OperationUpload SyncOperation = "upload"
)

// SyncErrorCode classifies a failure.
type SyncErrorCode string

const (
	// CodeTransientNetwork is retried through backoff and never surfaced as fatal.
	CodeTransientNetwork SyncErrorCode = "transient_network"

	// CodeConflictRejected means the remote refused the pushed version.
	CodeConflictRejected SyncErrorCode = "conflict_rejected"

	// CodeStorage is a local store failure isolated to one entity.
	CodeStorage SyncErrorCode = "storage"

	// CodeValidation is a malformed entity; it is not retried automatically.
	CodeValidation SyncErrorCode = "validation"

	// CodeUnknown is anything the classifier did not recognise.
	CodeUnknown SyncErrorCode = "unknown"
)

// SyncError is one recorded per-entity failure. Rows are append-only:
// resolution sets ResolvedAt, and only the periodic sweep deletes rows.
type SyncError struct {
	ID          int64         `json:"id"`
	EntityID    string        `json:"entity_id"`
	EntityType  string        `json:"entity_type"`
	Operation   SyncOperation `json:"operation"`
	Message     string        `json:"message"`
	Code        *string       `json:"code,omitempty"`
	RetryCount  int           `json:"retry_count"`
	NextRetryAt *time.Time    `json:"next_retry_at,omitempty"`
	ResolvedAt  *time.Time    `json:"resolved_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}
