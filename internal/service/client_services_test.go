package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/notesync/internal/mock"
	"github.com/MKhiriev/notesync/internal/store"
)

func TestResolveReplicaID(t *testing.T) {
	ctx := context.Background()

	t.Run("configured id wins and is saved", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		state := mock.NewMockAppStateRepository(ctrl)
		state.EXPECT().Set(gomock.Any(), store.KeyReplicaID, "laptop").Return(nil)

		id, err := resolveReplicaID(ctx, state, "laptop")
		require.NoError(t, err)
		assert.Equal(t, "laptop", id)
	})

	t.Run("saved id is reused", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		state := mock.NewMockAppStateRepository(ctrl)
		state.EXPECT().Get(gomock.Any(), store.KeyReplicaID).Return("device-1", true, nil)

		id, err := resolveReplicaID(ctx, state, "")
		require.NoError(t, err)
		assert.Equal(t, "device-1", id)
	})

	t.Run("generated on first run", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		state := mock.NewMockAppStateRepository(ctrl)
		var saved string
		gomock.InOrder(
			state.EXPECT().Get(gomock.Any(), store.KeyReplicaID).Return("", false, nil),
			state.EXPECT().Set(gomock.Any(), store.KeyReplicaID, gomock.Any()).DoAndReturn(func(ctx context.Context, key, value string) error {
				saved = value
				return nil
			}),
		)

		id, err := resolveReplicaID(ctx, state, "")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(id, "device-"))
		assert.Equal(t, saved, id)
	})

	t.Run("storage failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		state := mock.NewMockAppStateRepository(ctrl)
		boom := errors.New("locked")
		state.EXPECT().Get(gomock.Any(), store.KeyReplicaID).Return("", false, boom)

		_, err := resolveReplicaID(ctx, state, "")
		assert.ErrorIs(t, err, boom)
	})
}

func TestNewClientServices_PersistsReplica(t *testing.T) {
	srv := newServer(t)
	d := newDevice(t, srv, "")

	assert.True(t, strings.HasPrefix(d.svc.ReplicaID, "device-"))
	assert.Equal(t, d.svc.ReplicaID+".sync", d.engine.replica)

	saved, ok, err := d.storages.AppState.Get(context.Background(), store.KeyReplicaID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, d.svc.ReplicaID, saved)
}
