package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/notesync/internal/crdt"
	"github.com/MKhiriev/notesync/internal/mock"
	"github.com/MKhiriev/notesync/internal/utils"
	"github.com/MKhiriev/notesync/models"
)

func TestUpdateLogService_AppendReconstruct(t *testing.T) {
	ctx := utils.WithOrigin(context.Background(), "session/1")
	storages := newTestStorages(t)
	svc := NewUpdateLogService(storages.UpdateLog, 50)

	editor := crdt.New("dev/1")
	for _, f := range [][]byte{
		editor.SetField(FieldTitle, "shopping"),
		editor.AppendBlock("milk"),
		editor.AppendBlock("bread"),
	} {
		u, err := svc.Append(ctx, "doc", f)
		require.NoError(t, err)
		assert.Equal(t, "session/1", u.Origin)
		assert.NotEmpty(t, u.ID)
	}

	doc, err := svc.Reconstruct(ctx, "doc", "reader")
	require.NoError(t, err)
	assert.Equal(t, editor.Content(), doc.Content())
	assert.Equal(t, "reader", doc.Replica())
}

func TestUpdateLogService_CompactsAboveThreshold(t *testing.T) {
	ctx := context.Background()
	storages := newTestStorages(t)
	svc := NewUpdateLogService(storages.UpdateLog, 5)

	editor := crdt.New("dev/1")
	for i := 0; i < 5; i++ {
		_, err := svc.Append(ctx, "doc", editor.AppendBlock(fmt.Sprintf("line %d", i)))
		require.NoError(t, err)
	}
	n, err := storages.UpdateLog.Count(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	// the sixth fragment crosses the threshold
	_, err = svc.Append(ctx, "doc", editor.AppendBlock("line 5"))
	require.NoError(t, err)
	n, err = storages.UpdateLog.Count(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	doc, err := svc.Reconstruct(ctx, "doc", "reader")
	require.NoError(t, err)
	assert.Equal(t, editor.Content(), doc.Content())
	assert.Equal(t, editor.Clock(), doc.Clock())
}

func TestUpdateLogService_CompactsOnLoad(t *testing.T) {
	ctx := context.Background()
	storages := newTestStorages(t)

	// written straight to the repository, as if every append-time
	// compaction had failed
	editor := crdt.New("dev/1")
	for i := 0; i < 8; i++ {
		u := &models.DocUpdate{
			ID:        fmt.Sprintf("u%d", i),
			DocID:     "doc",
			Data:      editor.AppendBlock(fmt.Sprintf("line %d", i)),
			CreatedAt: time.Now(),
		}
		require.NoError(t, storages.UpdateLog.Append(ctx, u))
	}

	svc := NewUpdateLogService(storages.UpdateLog, 5)
	fragments, err := svc.Load(ctx, "doc")
	require.NoError(t, err)
	assert.Len(t, fragments, 8)

	n, err := storages.UpdateLog.Count(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	doc, err := svc.Reconstruct(ctx, "doc", "reader")
	require.NoError(t, err)
	assert.Equal(t, editor.Content(), doc.Content())
}

func TestUpdateLogService_CompactKeepsOtherDocs(t *testing.T) {
	ctx := context.Background()
	storages := newTestStorages(t)
	svc := NewUpdateLogService(storages.UpdateLog, 0)

	a, b := crdt.New("a"), crdt.New("b")
	for i := 0; i < 3; i++ {
		_, err := svc.Append(ctx, "doc-a", a.AppendBlock(fmt.Sprint(i)))
		require.NoError(t, err)
		_, err = svc.Append(ctx, "doc-b", b.AppendBlock(fmt.Sprint(i)))
		require.NoError(t, err)
	}

	require.NoError(t, svc.Compact(ctx, "doc-a"))

	fa, err := svc.Load(ctx, "doc-a")
	require.NoError(t, err)
	assert.Len(t, fa, 1)
	fb, err := svc.Load(ctx, "doc-b")
	require.NoError(t, err)
	assert.Len(t, fb, 3)

	require.NoError(t, svc.Delete(ctx, "doc-a"))
	fa, err = svc.Load(ctx, "doc-a")
	require.NoError(t, err)
	assert.Empty(t, fa)
}

func TestUpdateLogService_ReconstructMalformed(t *testing.T) {
	ctx := context.Background()
	storages := newTestStorages(t)
	svc := NewUpdateLogService(storages.UpdateLog, 50)

	_, err := svc.Append(ctx, "doc", []byte("not a fragment"))
	require.NoError(t, err)

	_, err = svc.Reconstruct(ctx, "doc", "r")
	assert.ErrorIs(t, err, crdt.ErrMalformedUpdate)
}

func TestUpdateLogService_Append_Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")

	t.Run("append failure is returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockUpdateLogRepository(ctrl)
		repo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(boom)

		_, err := NewUpdateLogService(repo, 2).Append(ctx, "doc", []byte("x"))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("failed compaction keeps the fragment", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockUpdateLogRepository(ctrl)
		gomock.InOrder(
			repo.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, u *models.DocUpdate) error {
				u.Seq = 3
				return nil
			}),
			repo.EXPECT().Count(gomock.Any(), "doc").Return(3, nil),
			repo.EXPECT().Load(gomock.Any(), "doc").Return(nil, boom),
		)

		u, err := NewUpdateLogService(repo, 2).Append(ctx, "doc", []byte("x"))
		require.NoError(t, err)
		assert.Equal(t, int64(3), u.Seq)
	})

	t.Run("below threshold does not compact", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockUpdateLogRepository(ctrl)
		repo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
		repo.EXPECT().Count(gomock.Any(), "doc").Return(2, nil)

		_, err := NewUpdateLogService(repo, 2).Append(ctx, "doc", []byte("x"))
		require.NoError(t, err)
	})
}
