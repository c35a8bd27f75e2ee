package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/notesync/internal/adapter"
	"github.com/MKhiriev/notesync/internal/adapter/adaptertest"
	"github.com/MKhiriev/notesync/internal/broadcast"
	"github.com/MKhiriev/notesync/internal/config"
	"github.com/MKhiriev/notesync/internal/crypto"
	"github.com/MKhiriev/notesync/internal/logger"
	"github.com/MKhiriev/notesync/internal/store"
	"github.com/MKhiriev/notesync/models"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func testConfig(replica string) *config.ClientConfig {
	return &config.ClientConfig{
		App: config.ClientApp{ReplicaID: replica},
		Adapter: config.ClientAdapter{
			RequestTimeout: 2 * time.Second,
		},
		Workers: config.ClientWorkers{
			SyncInterval:       time.Hour,
			ErrorSweepInterval: time.Hour,
			ErrorRetentionDays: 7,
		},
		Sync: config.ClientSync{
			RetryDelay:          time.Hour,
			CompactionThreshold: 50,
			FlushPollInterval:   time.Millisecond,
			FlushWaitTimeout:    time.Second,
			ImageBackoffBase:    5 * time.Second,
			ImageBackoffMax:     5 * time.Minute,
		},
	}
}

func newTestStorages(t *testing.T) *store.ClientStorages {
	t.Helper()

	cfg := config.ClientStorage{DB: config.ClientDB{DSN: filepath.Join(t.TempDir(), "notes.db")}}
	s, err := store.NewClientStorages(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// device is one client process: its own store, hub and services.
type device struct {
	storages *store.ClientStorages
	hub      *broadcast.Hub
	svc      *ClientServices
	engine   *syncEngine
	clock    *fakeClock
}

// newDevice builds a device talking to srv. mutate may adjust the config
// before the services are built.
func newDevice(t *testing.T, srv *adaptertest.Server, replica string, mutate ...func(*config.ClientConfig)) *device {
	t.Helper()

	cfg := testConfig(replica)
	cfg.Adapter.HTTPAddress = srv.URL
	cfg.Adapter.Token = srv.Token
	cfg.App.HashKey = srv.HashKey
	for _, m := range mutate {
		m(cfg)
	}

	remote, err := adapter.NewHTTPRemoteBackend(cfg.Adapter, cfg.App, logger.Nop())
	require.NoError(t, err)

	return newDeviceWithRemote(t, remote, cfg)
}

func newDeviceWithRemote(t *testing.T, remote adapter.RemoteBackend, cfg *config.ClientConfig) *device {
	t.Helper()
	ctx := context.Background()

	storages := newTestStorages(t)
	hub := broadcast.NewHub(logger.Nop())
	t.Cleanup(hub.Close)

	svc, err := NewClientServices(ctx, storages, remote, crypto.NewSealer(cfg.App.Passphrase, cfg.App.KeySalt), hub, cfg, logger.Nop())
	require.NoError(t, err)

	engine := svc.Engine.(*syncEngine)
	clock := newFakeClock()
	engine.now = clock.Now

	require.NoError(t, engine.Start(ctx))
	t.Cleanup(engine.Stop)

	return &device{storages: storages, hub: hub, svc: svc, engine: engine, clock: clock}
}

func (d *device) sync(t *testing.T) models.SyncResult {
	t.Helper()
	res, err := d.svc.Engine.Sync(context.Background())
	require.NoError(t, err)
	require.False(t, res.Skipped, "sync skipped: %s", res.SkipReason)
	return res
}

func (d *device) record(t *testing.T, localID string) models.SyncRecord {
	t.Helper()
	rec, err := d.svc.SyncRecords.Get(context.Background(), localID)
	require.NoError(t, err)
	return rec
}

func (d *device) open(t *testing.T, id string) *DocumentSession {
	t.Helper()
	s, err := d.svc.Entities.Open(context.Background(), id)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func (d *device) content(t *testing.T, id string) models.DocumentContent {
	t.Helper()
	doc, err := d.svc.UpdateLog.Reconstruct(context.Background(), id, "reader")
	require.NoError(t, err)
	return doc.Content()
}

func newServer(t *testing.T, opts ...adaptertest.Option) *adaptertest.Server {
	t.Helper()
	srv := adaptertest.NewServer(opts...)
	t.Cleanup(srv.Close)
	return srv
}

func strPtr(s string) *string { return &s }
