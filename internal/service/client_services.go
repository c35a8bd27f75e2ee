package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/notesync/internal/adapter"
	"github.com/MKhiriev/notesync/internal/broadcast"
	"github.com/MKhiriev/notesync/internal/config"
	"github.com/MKhiriev/notesync/internal/crypto"
	"github.com/MKhiriev/notesync/internal/logger"
	"github.com/MKhiriev/notesync/internal/store"
	"github.com/MKhiriev/notesync/internal/utils"
)

var timeNow = time.Now

// ClientServices aggregates the services of one client process.
type ClientServices struct {
	ReplicaID string

	UpdateLog   UpdateLogService
	SyncRecords SyncRecordService
	ImageQueue  ImageQueueService
	SyncErrors  SyncErrorService
	Entities    EntityService
	Engine      SyncEngine
	SyncJob     ClientSyncJob
}

func NewClientServices(ctx context.Context, storages *store.ClientStorages, remote adapter.RemoteBackend, sealer crypto.Sealer, hub *broadcast.Hub, cfg *config.ClientConfig, logger *logger.Logger) (*ClientServices, error) {
	replica, err := resolveReplicaID(ctx, storages.AppState, cfg.App.ReplicaID)
	if err != nil {
		return nil, fmt.Errorf("resolve replica id: %w", err)
	}

	updateLog := NewUpdateLogService(storages.UpdateLog, cfg.Sync.CompactionThreshold)
	records := NewSyncRecordService(storages.SyncRecords)
	images := NewImageQueueService(storages.ImageQueue, cfg.Sync.ImageBackoffBase, cfg.Sync.ImageBackoffMax)
	syncErrors := NewSyncErrorService(storages.SyncErrors)

	engine := NewSyncEngine(EngineDeps{
		Storages:   storages,
		Remote:     remote,
		Hub:        hub,
		Sealer:     sealer,
		UpdateLog:  updateLog,
		Records:    records,
		Images:     images,
		SyncErrors: syncErrors,
	}, cfg.Sync, replica, logger)

	return &ClientServices{
		ReplicaID:   replica,
		UpdateLog:   updateLog,
		SyncRecords: records,
		ImageQueue:  images,
		SyncErrors:  syncErrors,
		Entities:    NewEntityService(storages, updateLog, records, images, hub, replica, logger),
		Engine:      engine,
		SyncJob:     NewClientSyncJob(engine, syncErrors, cfg.Workers, logger),
	}, nil
}

// resolveReplicaID returns the configured replica id, or the one persisted by
// an earlier run, or a freshly generated one. The result is persisted.
func resolveReplicaID(ctx context.Context, state store.AppStateRepository, configured string) (string, error) {
	if configured == "" {
		saved, ok, err := state.Get(ctx, store.KeyReplicaID)
		if err != nil {
			return "", err
		}
		if ok && saved != "" {
			return saved, nil
		}
		configured = "device-" + utils.NewUUIDGenerator().Generate()
	}

	if err := state.Set(ctx, store.KeyReplicaID, configured); err != nil {
		return "", err
	}
	return configured, nil
}
