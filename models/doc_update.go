package models

import "time"

// DocUpdate is one persisted update fragment of a document's log.
type DocUpdate struct {
	// Seq is the insertion order inside the local store.
	Seq int64 `json:"seq"`

	// ID is a time-sortable identifier kept for provenance.
	ID string `json:"id"`

	DocID string `json:"doc_id"`

	// Data is the opaque CRDT update fragment.
	Data []byte `json:"-"`

	// Origin names the context that wrote the fragment.
	Origin string `json:"origin"`

	CreatedAt time.Time `json:"created_at"`
}
