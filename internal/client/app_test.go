package client

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/notesync/internal/adapter"
	"github.com/MKhiriev/notesync/internal/adapter/adaptertest"
	"github.com/MKhiriev/notesync/internal/broadcast"
	"github.com/MKhiriev/notesync/internal/config"
	"github.com/MKhiriev/notesync/internal/crypto"
	"github.com/MKhiriev/notesync/internal/logger"
	"github.com/MKhiriev/notesync/internal/service"
	"github.com/MKhiriev/notesync/internal/store"
	"github.com/MKhiriev/notesync/models"
)

func newTestServices(t *testing.T, srv *adaptertest.Server) *service.ClientServices {
	t.Helper()
	ctx := context.Background()

	cfg := config.NewClientConfig(config.Defaults())
	cfg.App.ReplicaID = "laptop"
	cfg.Adapter.HTTPAddress = srv.URL
	cfg.Storage.DB.DSN = filepath.Join(t.TempDir(), "notes.db")

	storages, err := store.NewClientStorages(ctx, cfg.Storage, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = storages.Close() })

	remote, err := adapter.NewHTTPRemoteBackend(cfg.Adapter, cfg.App, logger.Nop())
	require.NoError(t, err)

	hub := broadcast.NewHub(logger.Nop())
	t.Cleanup(hub.Close)

	services, err := service.NewClientServices(ctx, storages, remote, crypto.NewSealer("", ""), hub, cfg, logger.Nop())
	require.NoError(t, err)
	return services
}

func TestNewApp_NilServices(t *testing.T) {
	_, err := NewApp(nil, models.AppBuildInfo{}, logger.Nop())
	assert.Error(t, err)
}

func TestApp_Run_SyncsUntilCancelled(t *testing.T) {
	srv := adaptertest.NewServer()
	t.Cleanup(srv.Close)

	services := newTestServices(t, srv)
	note, err := services.Entities.CreateNote(context.Background(), nil, "hello")
	require.NoError(t, err)

	app, err := NewApp(services, models.NewAppBuildInfo("1.0.0", "2026-10-18", "abc"), logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	assert.Eventually(t, func() bool {
		_, ok := srv.Entity(note.ID)
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	rec, err := services.SyncRecords.Get(context.Background(), note.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSynced, rec.SyncStatus)
}
