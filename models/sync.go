package models

import "time"

// SyncPhase is a step of a reconciliation cycle.
type SyncPhase string

const (
	PhasePull   SyncPhase = "pull"
	PhasePush   SyncPhase = "push"
	PhaseImages SyncPhase = "images"
	PhaseDone   SyncPhase = "done"
)

// SyncProgress is emitted to subscribers after each phase.
type SyncProgress struct {
	Phase   SyncPhase `json:"phase"`
	Current int       `json:"current"`
	Total   int       `json:"total"`
	Message string    `json:"message,omitempty"`
}

// SkipReason tells why a sync request did not start a cycle.
type SkipReason string

const (
	SkipNone      SkipReason = ""
	SkipOffline   SkipReason = "offline"
	SkipInFlight  SkipReason = "in_flight"
	SkipDebounced SkipReason = "debounced"
)

// EntityFailure is one per-entity failure collected during a cycle.
type EntityFailure struct {
	EntityID  string        `json:"entity_id"`
	Operation SyncOperation `json:"operation"`
	Code      SyncErrorCode `json:"code"`
	Err       error         `json:"-"`
}

// SyncResult summarises one call to Sync.
type SyncResult struct {
	// Skipped is set when the request was dropped by the gate.
	Skipped    bool       `json:"skipped"`
	SkipReason SkipReason `json:"skip_reason,omitempty"`

	Pulled       int `json:"pulled"`
	Pushed       int `json:"pushed"`
	PushSkipped  int `json:"push_skipped"`
	Deleted      int `json:"deleted"`
	Uploaded     int `json:"uploaded"`
	UploadFailed int `json:"upload_failed"`

	Failures []EntityFailure `json:"failures,omitempty"`

	// RetryScheduled is set when the cycle aborted and armed the retry timer.
	RetryScheduled bool `json:"retry_scheduled"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// PendingCounts is derived from sync records and the upload queue on every
// read; it is never stored.
type PendingCounts struct {
	Notes   int `json:"notes"`
	Folders int `json:"folders"`
	Images  int `json:"images"`
}

// Total returns the sum of all pending counters.
func (c PendingCounts) Total() int {
	return c.Notes + c.Folders + c.Images
}

// SyncStatusSnapshot is the read-only status object exposed for passive
// display.
type SyncStatusSnapshot struct {
	Pending          PendingCounts `json:"pending"`
	UnresolvedErrors int           `json:"unresolved_errors"`
	LastError        string        `json:"last_error,omitempty"`
	LastSyncAt       *time.Time    `json:"last_sync_at,omitempty"`
	Online           bool          `json:"online"`
	Syncing          bool          `json:"syncing"`
}
