package service

import (
	"context"
	"sync"

	"github.com/MKhiriev/notesync/internal/config"
	"github.com/MKhiriev/notesync/internal/logger"
	"github.com/MKhiriev/notesync/internal/workers"
)

type clientSyncJob struct {
	workers *workers.Workers

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClientSyncJob creates a job running the periodic sync trigger and the
// resolved-error sweep. The job is idle until Start is called.
func NewClientSyncJob(engine SyncEngine, syncErrors SyncErrorService, cfg config.ClientWorkers, logger *logger.Logger) ClientSyncJob {
	return &clientSyncJob{
		workers: workers.NewWorkers(
			workers.NewSyncTrigger(engine, cfg.SyncInterval, logger),
			workers.NewErrorSweeper(syncErrors, cfg.ErrorSweepInterval, cfg.ErrorRetentionDays, logger),
		),
	}
}

// Start implements ClientSyncJob. It stops any previously running job, then
// runs the workers in the background until ctx is cancelled or Stop is
// called.
func (j *clientSyncJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		j.workers.Run(jobCtx)
	}()
}

// Stop implements ClientSyncJob. It blocks until every worker has exited and
// is a no-op when the job is not running.
func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
