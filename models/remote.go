package models

// RemoteEntity is one entity returned by the remote change feed.
type RemoteEntity struct {
	// RemoteID is the identifier assigned by the remote backend.
	RemoteID string `json:"remote_id"`

	// LocalID is the client-side identifier the entity was created with.
	LocalID string `json:"local_id"`

	EntityType EntityType `json:"entity_type"`
	ParentID   *string    `json:"parent_id,omitempty"`
	Deleted    bool       `json:"deleted"`

	// VersionTag identifies this remote revision.
	VersionTag string `json:"version_tag"`

	// ContentHash is the hash the pushing client computed for this revision.
	ContentHash string `json:"content_hash"`

	// Update is the (possibly sealed) CRDT state of the entity's document.
	Update []byte `json:"update,omitempty"`

	// EncryptedKeyHeader is set when Update is sealed.
	EncryptedKeyHeader *string `json:"encrypted_key_header,omitempty"`
}

// ChangeSet is a page of the remote change feed.
type ChangeSet struct {
	Entities []RemoteEntity `json:"entities"`

	// Cursor is the position to resume from on the next pull.
	Cursor string `json:"cursor"`
}

// PushRequest uploads an entity's metadata and binary update.
type PushRequest struct {
	// RemoteID is empty for entities that were never pushed.
	RemoteID string `json:"remote_id,omitempty"`

	LocalID    string     `json:"local_id"`
	EntityType EntityType `json:"entity_type"`
	ParentID   *string    `json:"parent_id,omitempty"`

	// BaseVersion is the version tag the client last saw; the remote may
	// reject the push with a conflict if it moved on.
	BaseVersion string `json:"base_version,omitempty"`

	ContentHash        string  `json:"content_hash"`
	Update             []byte  `json:"update"`
	EncryptedKeyHeader *string `json:"encrypted_key_header,omitempty"`
}

// PushResult is the remote answer to a [PushRequest].
type PushResult struct {
	RemoteID   string `json:"remote_id"`
	VersionTag string `json:"version_tag"`
}

// BlobResult is the remote answer to a blob upload.
type BlobResult struct {
	// Key is the content reference written into the owning document.
	Key string `json:"key"`
}
