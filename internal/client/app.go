package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/notesync/internal/logger"
	"github.com/MKhiriev/notesync/internal/service"
	"github.com/MKhiriev/notesync/models"
)

// App is the headless sync daemon: it recovers local state, runs an initial
// cycle and keeps the background workers going until ctx is cancelled.
type App struct {
	services  *service.ClientServices
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

func NewApp(services *service.ClientServices, buildInfo models.AppBuildInfo, logger *logger.Logger) (*App, error) {
	if services == nil {
		return nil, errors.New("nil client services")
	}
	return &App{
		services:  services,
		buildInfo: buildInfo,
		logger:    logger,
	}, nil
}

// Run blocks until ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx = a.logger.WithContext(ctx)

	a.logger.Info().
		Str("replica_id", a.services.ReplicaID).
		Str("version", a.buildInfo.BuildVersion()).
		Str("commit", a.buildInfo.BuildCommit()).
		Msg("starting notesync client")

	if err := a.services.Engine.Start(ctx); err != nil {
		return fmt.Errorf("start sync engine: %w", err)
	}
	defer a.services.Engine.Stop()

	unsubscribe := a.services.Engine.Subscribe(func(p models.SyncProgress) {
		a.logger.Debug().
			Str("phase", string(p.Phase)).
			Int("current", p.Current).
			Int("total", p.Total).
			Msg("sync progress")
	})
	defer unsubscribe()

	result, err := a.services.Engine.Sync(ctx)
	if err != nil {
		a.logger.Warn().Err(err).Msg("initial sync failed")
	} else {
		a.logger.Info().
			Bool("skipped", result.Skipped).
			Int("pulled", result.Pulled).
			Int("pushed", result.Pushed).
			Int("uploaded", result.Uploaded).
			Int("failures", len(result.Failures)).
			Msg("initial sync finished")
	}

	a.services.SyncJob.Start(ctx)
	defer a.services.SyncJob.Stop()

	<-ctx.Done()

	a.logStatus()
	return nil
}

func (a *App) logStatus() {
	status, err := a.services.Engine.Status(context.Background())
	if err != nil {
		a.logger.Err(err).Msg("read sync status")
		return
	}

	event := a.logger.Info().
		Int("pending_notes", status.Pending.Notes).
		Int("pending_folders", status.Pending.Folders).
		Int("pending_images", status.Pending.Images).
		Int("unresolved_errors", status.UnresolvedErrors)
	if status.LastSyncAt != nil {
		event = event.Time("last_sync_at", *status.LastSyncAt)
	}
	event.Msg("notesync client stopped")
}
