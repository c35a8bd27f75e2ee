package models

import "time"

// EntityType names the kind of local entity tracked by the sync engine.
type EntityType string

const (
	// EntityNote is a note; its content lives in the note's update log.
	EntityNote EntityType = "note"

	// EntityFolder is a folder; its name lives in the folder's update log
	// and notes reference it through ParentID.
	EntityFolder EntityType = "folder"
)

// Valid reports whether t is one of the known entity types.
func (t EntityType) Valid() bool {
	return t == EntityNote || t == EntityFolder
}

// Entity is a locally created note or folder. The document that belongs to
// the entity shares its identifier: Entity.ID is also the docId of the update
// log.
type Entity struct {
	// ID is the client-side identifier (UUID v7).
	ID string `json:"id"`

	// Type is either [EntityNote] or [EntityFolder].
	Type EntityType `json:"type"`

	// ParentID is the folder the entity lives in, nil for the root.
	ParentID *string `json:"parent_id,omitempty"`

	// Deleted marks a local soft delete that still has to be pushed.
	Deleted bool `json:"deleted"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
