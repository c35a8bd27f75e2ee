package models

import "time"

// UploadStatus is the lifecycle state of a [PendingImageUpload].
type UploadStatus string

const (
	UploadPending   UploadStatus = "pending"
	UploadUploading UploadStatus = "uploading"
	UploadFailed    UploadStatus = "failed"
)

// PendingImageUpload is a binary attachment waiting to be uploaded.
//
// The row is created when an image is attached to a document and deleted
// only after the remote backend accepted the blob. It is never marked as
// uploaded in place.
type PendingImageUpload struct {
	ID          string       `json:"id"`
	ParentDocID string       `json:"parent_doc_id"`
	Blob        []byte       `json:"-"`
	ContentType string       `json:"content_type"`
	Status      UploadStatus `json:"status"`
	RetryCount  int          `json:"retry_count"`
	NextRetryAt *time.Time   `json:"next_retry_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// TableName returns the name of the table holding pending uploads.
func (p *PendingImageUpload) TableName() string {
	return "pending_image_uploads"
}
