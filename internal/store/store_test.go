package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/notesync/internal/config"
	"github.com/MKhiriev/notesync/internal/logger"
	"github.com/MKhiriev/notesync/models"
)

func newTestStorages(t *testing.T) *ClientStorages {
	t.Helper()

	cfg := config.ClientStorage{DB: config.ClientDB{DSN: filepath.Join(t.TempDir(), "data", "notes.db")}}
	s, err := NewClientStorages(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func strPtr(s string) *string { return &s }

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestUpdateLog_AppendLoadReplace(t *testing.T) {
	ctx := context.Background()
	s := newTestStorages(t)

	for i, id := range []string{"u1", "u2", "u3"} {
		u := &models.DocUpdate{ID: id, DocID: "doc", Data: []byte{byte(i)}, Origin: "editor", CreatedAt: t0}
		require.NoError(t, s.UpdateLog.Append(ctx, u))
		assert.Positive(t, u.Seq)
	}
	other := &models.DocUpdate{ID: "x1", DocID: "other", Data: []byte("x"), CreatedAt: t0}
	require.NoError(t, s.UpdateLog.Append(ctx, other))

	loaded, err := s.UpdateLog.Load(ctx, "doc")
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, []string{"u1", "u2", "u3"}, []string{loaded[0].ID, loaded[1].ID, loaded[2].ID})
	assert.Equal(t, t0, loaded[0].CreatedAt)

	// a fragment appended after the snapshot was taken survives compaction
	upTo := loaded[1].Seq
	snapshot := &models.DocUpdate{ID: "snap", DocID: "doc", Data: []byte("state"), Origin: "compaction", CreatedAt: t0}
	require.NoError(t, s.UpdateLog.Replace(ctx, "doc", upTo, snapshot))

	loaded, err = s.UpdateLog.Load(ctx, "doc")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "u3", loaded[0].ID)
	assert.Equal(t, "snap", loaded[1].ID)

	n, err := s.UpdateLog.Count(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.UpdateLog.DeleteDoc(ctx, "doc"))
	n, err = s.UpdateLog.Count(ctx, "doc")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateLog_ReplaceRollsBackOnInsertFailure(t *testing.T) {
	ctx := context.Background()
	s := newTestStorages(t)

	u := &models.DocUpdate{ID: "dup", DocID: "doc", Data: []byte("a"), CreatedAt: t0}
	require.NoError(t, s.UpdateLog.Append(ctx, u))
	keep := &models.DocUpdate{ID: "keep", DocID: "other", Data: []byte("b"), CreatedAt: t0}
	require.NoError(t, s.UpdateLog.Append(ctx, keep))

	// the snapshot reuses an id that already exists in another document
	err := s.UpdateLog.Replace(ctx, "doc", u.Seq, &models.DocUpdate{ID: "keep", DocID: "doc", Data: []byte("s"), CreatedAt: t0})
	require.Error(t, err)

	loaded, err := s.UpdateLog.Load(ctx, "doc")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "dup", loaded[0].ID)
}

func TestSyncRecords_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStorages(t)

	rec := models.SyncRecord{LocalID: "n1", EntityType: models.EntityNote, SyncStatus: models.StatusPending, UpdatedAt: t0}
	require.NoError(t, s.SyncRecords.Upsert(ctx, rec))
	require.NoError(t, s.SyncRecords.Upsert(ctx, models.SyncRecord{LocalID: "f1", EntityType: models.EntityFolder, SyncStatus: models.StatusPending, UpdatedAt: t0}))

	got, err := s.SyncRecords.GetByLocalID(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	note := models.EntityNote
	pending, err := s.SyncRecords.GetPending(ctx, &note)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "n1", pending[0].LocalID)

	all, err := s.SyncRecords.GetPending(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, s.SyncRecords.MarkSynced(ctx, "n1", "r-1", "v1", "h1", strPtr("hdr"), t0.Add(time.Minute)))
	got, err = s.SyncRecords.GetByRemoteID(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSynced, got.SyncStatus)
	assert.Equal(t, "v1", *got.VersionTag)
	assert.Equal(t, "h1", *got.ContentHash)
	assert.Equal(t, "hdr", *got.EncryptedKeyHeader)

	// a nil header keeps the stored one
	require.NoError(t, s.SyncRecords.MarkSynced(ctx, "n1", "r-1", "v2", "h2", nil, t0))
	got, err = s.SyncRecords.GetByLocalID(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "hdr", *got.EncryptedKeyHeader)

	// remote ids are unique
	err = s.SyncRecords.MarkSynced(ctx, "f1", "r-1", "v1", "h", nil, t0)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	require.NoError(t, s.SyncRecords.UpdateStatus(ctx, "n1", models.StatusConflict, t0))
	got, err = s.SyncRecords.GetByLocalID(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConflict, got.SyncStatus)

	counts, err := s.SyncRecords.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[models.EntityType]int{models.EntityFolder: 1}, counts)

	require.NoError(t, s.SyncRecords.Delete(ctx, "n1"))
	_, err = s.SyncRecords.GetByLocalID(ctx, "n1")
	assert.ErrorIs(t, err, ErrSyncRecordNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.SyncRecords.UpdateStatus(ctx, "missing", models.StatusError, t0)
	assert.ErrorIs(t, err, ErrSyncRecordNotFound)
}

func TestSyncRecords_CreateMissingIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStorages(t)

	for _, e := range []models.Entity{
		{ID: "a", Type: models.EntityNote, CreatedAt: t0, UpdatedAt: t0},
		{ID: "b", Type: models.EntityFolder, CreatedAt: t0, UpdatedAt: t0},
		{ID: "c", Type: models.EntityNote, Deleted: true, CreatedAt: t0, UpdatedAt: t0},
	} {
		require.NoError(t, s.Entities.Create(ctx, e))
	}
	require.NoError(t, s.SyncRecords.Upsert(ctx, models.SyncRecord{LocalID: "a", EntityType: models.EntityNote, SyncStatus: models.StatusSynced, UpdatedAt: t0}))

	n, err := s.SyncRecords.CreateMissing(ctx, t0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.SyncRecords.CreateMissing(ctx, t0)
	require.NoError(t, err)
	assert.Zero(t, n)

	a, err := s.SyncRecords.GetByLocalID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSynced, a.SyncStatus)

	b, err := s.SyncRecords.GetByLocalID(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, b.SyncStatus)
	assert.Equal(t, models.EntityFolder, b.EntityType)
}

func TestImageQueue_ReadyForRetry(t *testing.T) {
	ctx := context.Background()
	s := newTestStorages(t)

	future := t0.Add(time.Hour)
	past := t0.Add(-time.Minute)
	uploads := []models.PendingImageUpload{
		{ID: "late", ParentDocID: "d", Blob: []byte{1}, ContentType: "image/png", Status: models.UploadFailed, RetryCount: 1, NextRetryAt: &future, CreatedAt: t0},
		{ID: "second", ParentDocID: "d", Blob: []byte{2}, ContentType: "image/png", Status: models.UploadFailed, RetryCount: 2, NextRetryAt: &past, CreatedAt: t0.Add(time.Second)},
		{ID: "first", ParentDocID: "d", Blob: []byte{3}, ContentType: "image/png", Status: models.UploadPending, CreatedAt: t0.Add(-time.Second)},
		{ID: "busy", ParentDocID: "d", Blob: []byte{4}, ContentType: "image/png", Status: models.UploadUploading, CreatedAt: t0},
	}
	for _, u := range uploads {
		require.NoError(t, s.ImageQueue.Enqueue(ctx, u))
	}

	ready, err := s.ImageQueue.GetReadyForRetry(ctx, t0)
	require.NoError(t, err)
	require.Len(t, ready, 2)
	assert.Equal(t, "first", ready[0].ID)
	assert.Equal(t, "second", ready[1].ID)
	assert.Equal(t, []byte{2}, ready[1].Blob)

	claimed, err := s.ImageQueue.MarkUploading(ctx, "first")
	require.NoError(t, err)
	assert.True(t, claimed)
	claimed, err = s.ImageQueue.MarkUploading(ctx, "first")
	require.NoError(t, err)
	assert.False(t, claimed)

	next := t0.Add(40 * time.Second)
	require.NoError(t, s.ImageQueue.MarkFailed(ctx, "first", 3, next))
	got, err := s.ImageQueue.Get(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, models.UploadFailed, got.Status)
	assert.Equal(t, 3, got.RetryCount)
	assert.Equal(t, next, *got.NextRetryAt)

	reset, err := s.ImageQueue.ResetUploading(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reset)

	require.NoError(t, s.ImageQueue.Delete(ctx, "first"))
	_, err = s.ImageQueue.Get(ctx, "first")
	assert.ErrorIs(t, err, ErrUploadNotFound)

	n, err := s.ImageQueue.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, s.ImageQueue.DeleteForDoc(ctx, "d"))
	n, err = s.ImageQueue.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSyncErrors_RecordResolveSweep(t *testing.T) {
	ctx := context.Background()
	s := newTestStorages(t)

	code := string(models.CodeTransientNetwork)
	for i := 0; i < 2; i++ {
		e := &models.SyncError{EntityID: "n1", EntityType: "note", Operation: models.OperationPush, Message: "offline", Code: &code, RetryCount: i, CreatedAt: t0}
		require.NoError(t, s.SyncErrors.Record(ctx, e))
		assert.Positive(t, e.ID)
	}
	require.NoError(t, s.SyncErrors.Record(ctx, &models.SyncError{EntityID: "n2", EntityType: "note", Operation: models.OperationPull, Message: "bad", CreatedAt: t0}))

	n, err := s.SyncErrors.CountUnresolvedForEntity(ctx, "n1", models.OperationPush)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	last, err := s.SyncErrors.LastUnresolved(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "n2", last.EntityID)

	resolved, err := s.SyncErrors.ResolveForEntity(ctx, "n1", t0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resolved)

	total, err := s.SyncErrors.CountUnresolved(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	swept, err := s.SyncErrors.Sweep(ctx, t0)
	require.NoError(t, err)
	assert.Zero(t, swept)

	swept, err = s.SyncErrors.Sweep(ctx, t0.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(2), swept)

	list, err := s.SyncErrors.ListUnresolved(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Code)
}

func TestAppState_GetSet(t *testing.T) {
	ctx := context.Background()
	s := newTestStorages(t)

	_, ok, err := s.AppState.Get(ctx, KeyPullCursor)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.AppState.Set(ctx, KeyPullCursor, "c1"))
	require.NoError(t, s.AppState.Set(ctx, KeyPullCursor, "c2"))

	v, ok, err := s.AppState.Get(ctx, KeyPullCursor)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "c2", v)
}

func TestEntities_CRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestStorages(t)

	require.NoError(t, s.Entities.Create(ctx, models.Entity{ID: "f", Type: models.EntityFolder, CreatedAt: t0, UpdatedAt: t0}))
	require.NoError(t, s.Entities.Create(ctx, models.Entity{ID: "n", Type: models.EntityNote, CreatedAt: t0, UpdatedAt: t0}))

	err := s.Entities.Create(ctx, models.Entity{ID: "n", Type: models.EntityNote, CreatedAt: t0, UpdatedAt: t0})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	require.NoError(t, s.Entities.SetParent(ctx, "n", strPtr("f"), t0.Add(time.Second)))
	require.NoError(t, s.Entities.SetDeleted(ctx, "f", t0.Add(time.Second)))

	n, err := s.Entities.Get(ctx, "n")
	require.NoError(t, err)
	assert.Equal(t, "f", *n.ParentID)
	assert.Equal(t, t0.Add(time.Second), n.UpdatedAt)

	f, err := s.Entities.Get(ctx, "f")
	require.NoError(t, err)
	assert.True(t, f.Deleted)

	list, err := s.Entities.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, s.Entities.Purge(ctx, "f"))
	_, err = s.Entities.Get(ctx, "f")
	assert.ErrorIs(t, err, ErrEntityNotFound)

	assert.ErrorIs(t, s.Entities.Touch(ctx, "f", t0), ErrEntityNotFound)
}

func TestWithTx_RollsBackAcrossRepositories(t *testing.T) {
	ctx := context.Background()
	s := newTestStorages(t)

	boom := errors.New("boom")
	err := s.Transactor.WithTx(ctx, func(ctx context.Context) error {
		require.NoError(t, s.Entities.Create(ctx, models.Entity{ID: "n", Type: models.EntityNote, CreatedAt: t0, UpdatedAt: t0}))
		require.NoError(t, s.SyncRecords.Upsert(ctx, models.SyncRecord{LocalID: "n", EntityType: models.EntityNote, SyncStatus: models.StatusPending, UpdatedAt: t0}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.Entities.Get(ctx, "n")
	assert.ErrorIs(t, err, ErrEntityNotFound)
	_, err = s.SyncRecords.GetByLocalID(ctx, "n")
	assert.ErrorIs(t, err, ErrSyncRecordNotFound)

	err = s.Transactor.WithTx(ctx, func(ctx context.Context) error {
		// nested call joins the outer transaction
		return s.Transactor.WithTx(ctx, func(ctx context.Context) error {
			return s.Entities.Create(ctx, models.Entity{ID: "n", Type: models.EntityNote, CreatedAt: t0, UpdatedAt: t0})
		})
	})
	require.NoError(t, err)

	_, err = s.Entities.Get(ctx, "n")
	assert.NoError(t, err)
}
