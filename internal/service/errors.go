package service

import "errors"

var (
	ErrInvalidEntityType = errors.New("invalid entity type")
	ErrParentNotFolder   = errors.New("parent is not a folder")
	ErrEntityDeleted     = errors.New("entity is deleted")
	ErrEmptyBlob         = errors.New("empty image blob")
	ErrSessionClosed     = errors.New("document session is closed")

	// ErrLocalEditsDiscarded is logged when a remote delete removed an entity
	// that still had unpushed local edits.
	ErrLocalEditsDiscarded = errors.New("local edits discarded by remote delete")

	// ErrCycleAborted is returned by Sync when the remote could not be
	// reached and the remaining phases were skipped.
	ErrCycleAborted = errors.New("sync cycle aborted")
)
