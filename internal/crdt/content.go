package crdt

import (
	"strings"

	"github.com/MKhiriev/notesync/models"
)

// Content returns the canonical semantic content of the document. It does
// not depend on operation ids, so edits that restore earlier content yield
// equal Content.
func (d *Doc) Content() models.DocumentContent {
	return models.DocumentContent{
		Fields: d.Fields(),
		Blocks: d.Blocks(),
	}
}

// Attachments returns the attachment references keyed by upload id.
func (d *Doc) Attachments() map[string]string {
	out := make(map[string]string)
	for k, o := range d.fields {
		if id, ok := strings.CutPrefix(k, AttachmentPrefix); ok {
			out[id] = o.Value
		}
	}
	return out
}
