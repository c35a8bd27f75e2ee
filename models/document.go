package models

// DocumentContent is the canonical, semantically meaningful content of a
// document. It is the input of the content hash.
type DocumentContent struct {
	Fields map[string]string `json:"fields"`
	Blocks []string          `json:"blocks"`
}

// HashableEntity is what the content hash is computed over: the entity's
// metadata plus its document content.
type HashableEntity struct {
	Type     EntityType      `json:"type"`
	ParentID *string         `json:"parent_id,omitempty"`
	Deleted  bool            `json:"deleted"`
	Content  DocumentContent `json:"content"`
}
