package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/notesync/internal/config"
	"github.com/MKhiriev/notesync/internal/logger"
	"github.com/MKhiriev/notesync/models"
)

type countingEngine struct {
	SyncEngine
	calls atomic.Int32
}

func (e *countingEngine) Sync(ctx context.Context) (models.SyncResult, error) {
	e.calls.Add(1)
	return models.SyncResult{}, nil
}

type countingSweeper struct {
	SyncErrorService
	calls atomic.Int32
}

func (s *countingSweeper) Sweep(ctx context.Context, retentionDays int) (int64, error) {
	s.calls.Add(1)
	return 0, nil
}

func TestClientSyncJob_StartStop(t *testing.T) {
	engine := &countingEngine{}
	sweeper := &countingSweeper{}
	job := NewClientSyncJob(engine, sweeper, config.ClientWorkers{
		SyncInterval:       5 * time.Millisecond,
		ErrorSweepInterval: 5 * time.Millisecond,
		ErrorRetentionDays: 7,
	}, logger.Nop())

	job.Start(context.Background())
	assert.Eventually(t, func() bool {
		return engine.calls.Load() >= 2 && sweeper.calls.Load() >= 2
	}, time.Second, time.Millisecond)

	job.Stop()
	after := engine.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, engine.calls.Load())

	// stopping twice is a no-op
	job.Stop()
}

func TestClientSyncJob_RestartReplacesRunningJob(t *testing.T) {
	engine := &countingEngine{}
	job := NewClientSyncJob(engine, &countingSweeper{}, config.ClientWorkers{
		SyncInterval:       5 * time.Millisecond,
		ErrorSweepInterval: time.Hour,
	}, logger.Nop())

	job.Start(context.Background())
	job.Start(context.Background())
	assert.Eventually(t, func() bool { return engine.calls.Load() >= 1 }, time.Second, time.Millisecond)
	job.Stop()
}

func TestClientSyncJob_StopsWithContext(t *testing.T) {
	engine := &countingEngine{}
	job := NewClientSyncJob(engine, &countingSweeper{}, config.ClientWorkers{SyncInterval: 5 * time.Millisecond}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	job.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		job.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked after context cancellation")
	}
}
