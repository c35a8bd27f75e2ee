package adaptertest_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/notesync/internal/adapter"
	"github.com/MKhiriev/notesync/internal/adapter/adaptertest"
	"github.com/MKhiriev/notesync/internal/config"
	"github.com/MKhiriev/notesync/internal/logger"
	"github.com/MKhiriev/notesync/models"
)

func newBackend(t *testing.T, srv *adaptertest.Server) adapter.RemoteBackend {
	t.Helper()
	b, err := adapter.NewHTTPRemoteBackend(
		config.ClientAdapter{HTTPAddress: srv.URL, Token: srv.Token},
		config.ClientApp{HashKey: srv.HashKey},
		logger.Nop(),
	)
	require.NoError(t, err)
	return b
}

func TestServer_PushListDelete(t *testing.T) {
	srv := adaptertest.NewServer(adaptertest.WithToken("tok"), adaptertest.WithHashKey("k"))
	defer srv.Close()

	b := newBackend(t, srv)
	ctx := context.Background()

	res, err := b.PushEntity(ctx, models.PushRequest{LocalID: "n1", EntityType: models.EntityNote, ContentHash: "h1", Update: []byte("u1")})
	require.NoError(t, err)
	assert.NotEmpty(t, res.RemoteID)

	changes, err := b.ListChanges(ctx, "")
	require.NoError(t, err)
	require.Len(t, changes.Entities, 1)
	assert.Equal(t, "h1", changes.Entities[0].ContentHash)

	empty, err := b.ListChanges(ctx, changes.Cursor)
	require.NoError(t, err)
	assert.Empty(t, empty.Entities)

	// stale base version is refused
	_, err = b.PushEntity(ctx, models.PushRequest{RemoteID: res.RemoteID, LocalID: "n1", EntityType: models.EntityNote, Update: []byte("u2"), BaseVersion: "old"})
	assert.ErrorIs(t, err, adapter.ErrConflictRejected)

	next, err := b.PushEntity(ctx, models.PushRequest{RemoteID: res.RemoteID, LocalID: "n1", EntityType: models.EntityNote, Update: []byte("u2"), BaseVersion: res.VersionTag})
	require.NoError(t, err)
	assert.NotEqual(t, res.VersionTag, next.VersionTag)

	require.NoError(t, b.DeleteEntity(ctx, models.EntityNote, res.RemoteID))
	require.NoError(t, b.DeleteEntity(ctx, models.EntityNote, res.RemoteID))

	after, err := b.ListChanges(ctx, changes.Cursor)
	require.NoError(t, err)
	require.Len(t, after.Entities, 1)
	assert.True(t, after.Entities[0].Deleted)
}

func TestServer_Faults(t *testing.T) {
	srv := adaptertest.NewServer()
	defer srv.Close()

	b := newBackend(t, srv)
	ctx := context.Background()

	srv.SetDown(true)
	_, err := b.ListChanges(ctx, "")
	assert.ErrorIs(t, err, adapter.ErrTransientNetwork)
	srv.SetDown(false)

	srv.FailAll(http.StatusServiceUnavailable)
	_, err = b.ListChanges(ctx, "")
	assert.ErrorIs(t, err, adapter.ErrTransientNetwork)
	srv.FailAll(0)

	srv.FailUploads(1, http.StatusInternalServerError)
	_, err = b.UploadBlob(ctx, []byte("img"), "image/png")
	assert.ErrorIs(t, err, adapter.ErrTransientNetwork)

	key, err := b.UploadBlob(ctx, []byte("img"), "image/png")
	require.NoError(t, err)
	blob, ok := srv.Blob(key)
	assert.True(t, ok)
	assert.Equal(t, []byte("img"), blob)
	assert.Equal(t, 2, srv.Calls("blob"))
}

func TestServer_RejectsBadToken(t *testing.T) {
	srv := adaptertest.NewServer(adaptertest.WithToken("right"))
	defer srv.Close()

	b, err := adapter.NewHTTPRemoteBackend(config.ClientAdapter{HTTPAddress: srv.URL, Token: "wrong"}, config.ClientApp{}, logger.Nop())
	require.NoError(t, err)

	_, err = b.ListChanges(context.Background(), "")
	assert.ErrorIs(t, err, adapter.ErrUnauthorized)
}
