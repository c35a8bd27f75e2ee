package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/MKhiriev/notesync/internal/broadcast"
	"github.com/MKhiriev/notesync/internal/crdt"
	"github.com/MKhiriev/notesync/internal/logger"
	"github.com/MKhiriev/notesync/internal/store"
	"github.com/MKhiriev/notesync/internal/utils"
	"github.com/MKhiriev/notesync/models"
)

// FieldTitle is the document field holding a note title or a folder name.
const FieldTitle = "title"

// PendingAttachmentRef is the placeholder written into a document until the
// upload has been accepted by the remote.
func PendingAttachmentRef(uploadID string) string {
	return "pending:" + uploadID
}

type sessionDeps struct {
	tx        store.Transactor
	updateLog UpdateLogService
	records   SyncRecordService
	entities  store.EntityRepository
	images    ImageQueueService
	hub       *broadcast.Hub
	logger    *logger.Logger
}

// batch is one group of fragments persisted as a single write.
type batch struct {
	frags [][]byte
	done  chan struct{}
	err   error
}

// DocumentSession is an open document: an in-memory CRDT plus the plumbing
// that persists local edits and merges edits made elsewhere.
//
// Edits are group-committed. The caller whose edit finds no write in progress
// becomes the writer; edits arriving meanwhile are merged into the next write.
// Every edit method returns only after its fragment is durable.
type DocumentSession struct {
	id     string
	docID  string
	entity models.EntityType
	deps   sessionDeps

	mu  sync.Mutex
	doc *crdt.Doc

	wmu     sync.Mutex
	writing bool
	current *batch
	unsaved [][]byte

	unsubscribe func()
	closed      bool
}

func openDocumentSession(ctx context.Context, deps sessionDeps, id, replica string, entity models.Entity) (*DocumentSession, error) {
	doc, err := deps.updateLog.Reconstruct(ctx, entity.ID, replica)
	if err != nil {
		return nil, err
	}

	s := &DocumentSession{
		id:     id,
		docID:  entity.ID,
		entity: entity.Type,
		deps:   deps,
		doc:    doc,
	}
	s.unsubscribe = deps.hub.Subscribe(id, s.handle)

	return s, nil
}

// ID is the origin id of the session's writes.
func (s *DocumentSession) ID() string { return s.id }

// DocID is the id of the entity the session edits.
func (s *DocumentSession) DocID() string { return s.docID }

func (s *DocumentSession) SetTitle(ctx context.Context, title string) error {
	return s.SetField(ctx, FieldTitle, title)
}

func (s *DocumentSession) SetField(ctx context.Context, key, value string) error {
	return s.edit(ctx, func(d *crdt.Doc) ([]byte, error) {
		return d.SetField(key, value), nil
	})
}

func (s *DocumentSession) InsertBlock(ctx context.Context, index int, text string) error {
	return s.edit(ctx, func(d *crdt.Doc) ([]byte, error) {
		return d.InsertBlock(index, text)
	})
}

func (s *DocumentSession) AppendBlock(ctx context.Context, text string) error {
	return s.edit(ctx, func(d *crdt.Doc) ([]byte, error) {
		return d.AppendBlock(text), nil
	})
}

func (s *DocumentSession) DeleteBlock(ctx context.Context, index int) error {
	return s.edit(ctx, func(d *crdt.Doc) ([]byte, error) {
		return d.DeleteBlock(index)
	})
}

func (s *DocumentSession) ReplaceBlock(ctx context.Context, index int, text string) error {
	return s.edit(ctx, func(d *crdt.Doc) ([]byte, error) {
		return d.ReplaceBlock(index, text)
	})
}

// AttachImage queues blob for upload and references it from the document
// with a placeholder. It returns the upload id.
func (s *DocumentSession) AttachImage(ctx context.Context, blob []byte, contentType string) (string, error) {
	if s.isClosed() {
		return "", ErrSessionClosed
	}

	u, err := s.deps.images.Enqueue(ctx, s.docID, blob, contentType)
	if err != nil {
		return "", err
	}

	err = s.edit(ctx, func(d *crdt.Doc) ([]byte, error) {
		return d.SetAttachment(u.ID, PendingAttachmentRef(u.ID)), nil
	})
	if err != nil {
		return "", err
	}
	return u.ID, nil
}

func (s *DocumentSession) Title() string {
	v, _ := s.Field(FieldTitle)
	return v
}

func (s *DocumentSession) Field(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Field(key)
}

func (s *DocumentSession) Blocks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Blocks()
}

func (s *DocumentSession) Content() models.DocumentContent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Content()
}

func (s *DocumentSession) Attachments() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Attachments()
}

// Flush persists fragments whose earlier write failed and waits for a write
// in progress.
func (s *DocumentSession) Flush(ctx context.Context) error {
	return s.commit(ctx, nil)
}

// Reload merges the persisted log into the live document. Unsaved local
// edits are kept.
func (s *DocumentSession) Reload(ctx context.Context) error {
	fragments, err := s.deps.updateLog.Load(ctx, s.docID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range fragments {
		if err = s.doc.Apply(f); err != nil {
			return fmt.Errorf("merge persisted update of %s: %w", s.docID, err)
		}
	}
	return nil
}

// Close flushes and stops listening for notifications.
func (s *DocumentSession) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.unsubscribe()
	return s.Flush(ctx)
}

func (s *DocumentSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *DocumentSession) edit(ctx context.Context, fn func(d *crdt.Doc) ([]byte, error)) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	fragment, err := fn(s.doc)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	return s.commit(ctx, fragment)
}

func (s *DocumentSession) commit(ctx context.Context, fragment []byte) error {
	s.wmu.Lock()
	if s.current == nil {
		s.current = &batch{done: make(chan struct{})}
	}
	b := s.current
	if fragment != nil {
		b.frags = append(b.frags, fragment)
	}

	if s.writing {
		s.wmu.Unlock()
		select {
		case <-b.done:
			return b.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.writing = true
	for s.current != nil {
		next := s.current
		s.current = nil
		s.wmu.Unlock()

		next.err = s.write(ctx, next.frags)
		close(next.done)

		s.wmu.Lock()
	}
	s.writing = false
	s.wmu.Unlock()

	return b.err
}

// write persists frags plus any fragments of an earlier failed write as one
// merged fragment. Only the current writer calls it.
func (s *DocumentSession) write(ctx context.Context, frags [][]byte) error {
	all := make([][]byte, 0, len(s.unsaved)+len(frags))
	all = append(all, s.unsaved...)
	all = append(all, frags...)
	if len(all) == 0 {
		return nil
	}

	merged := all[0]
	if len(all) > 1 {
		var err error
		if merged, err = crdt.MergeUpdates(all...); err != nil {
			return err
		}
	}

	writeCtx := utils.WithOrigin(ctx, s.id)
	err := s.deps.tx.WithTx(writeCtx, func(ctx context.Context) error {
		if _, err := s.deps.updateLog.Append(ctx, s.docID, merged); err != nil {
			return err
		}
		if err := s.deps.records.MarkPending(ctx, s.docID); err != nil {
			return err
		}
		return s.deps.entities.Touch(ctx, s.docID, timeNow())
	})
	if err != nil {
		s.unsaved = all
		s.deps.logger.Err(err).
			Str("func", "DocumentSession.write").
			Str("doc_id", s.docID).
			Int("fragments", len(all)).
			Msg("failed to persist local edits, kept for next flush")
		return err
	}

	s.unsaved = nil
	s.deps.hub.Publish(broadcast.Message{Kind: broadcast.KindUpdate, DocID: s.docID, Origin: s.id})
	return nil
}

func (s *DocumentSession) handle(msg broadcast.Message) {
	ctx := s.deps.logger.WithContext(context.Background())

	switch msg.Kind {
	case broadcast.KindFlush:
		if err := s.Flush(ctx); err != nil {
			s.deps.logger.Err(err).
				Str("func", "DocumentSession.handle").
				Str("doc_id", s.docID).
				Msg("flush failed")
		}
	case broadcast.KindUpdate:
		if msg.DocID != s.docID {
			return
		}
		if err := s.Reload(ctx); err != nil {
			s.deps.logger.Err(err).
				Str("func", "DocumentSession.handle").
				Str("doc_id", s.docID).
				Str("origin", msg.Origin).
				Msg("reload failed")
		}
	}
}
