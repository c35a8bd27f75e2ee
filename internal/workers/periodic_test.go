package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/notesync/internal/logger"
	"github.com/MKhiriev/notesync/models"
)

type fakeSyncer struct {
	calls atomic.Int32
	res   models.SyncResult
	err   error
}

func (f *fakeSyncer) Sync(ctx context.Context) (models.SyncResult, error) {
	f.calls.Add(1)
	return f.res, f.err
}

type fakeSweeper struct {
	calls atomic.Int32
	days  atomic.Int32
	err   error
}

func (f *fakeSweeper) Sweep(ctx context.Context, retentionDays int) (int64, error) {
	f.calls.Add(1)
	f.days.Store(int32(retentionDays))
	return 2, f.err
}

func runFor(w Worker, d time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	w.Run(ctx)
}

func TestSyncTrigger_CallsSyncOnEveryTick(t *testing.T) {
	s := &fakeSyncer{}
	runFor(NewSyncTrigger(s, 5*time.Millisecond, logger.Nop()), 60*time.Millisecond)

	assert.GreaterOrEqual(t, s.calls.Load(), int32(3))
}

func TestSyncTrigger_KeepsRunningAfterErrorsAndSkips(t *testing.T) {
	failing := &fakeSyncer{err: errors.New("boom"), res: models.SyncResult{RetryScheduled: true}}
	runFor(NewSyncTrigger(failing, 5*time.Millisecond, logger.Nop()), 40*time.Millisecond)
	assert.GreaterOrEqual(t, failing.calls.Load(), int32(2))

	skipped := &fakeSyncer{res: models.SyncResult{Skipped: true, SkipReason: models.SkipInFlight}}
	runFor(NewSyncTrigger(skipped, 5*time.Millisecond, logger.Nop()), 40*time.Millisecond)
	assert.GreaterOrEqual(t, skipped.calls.Load(), int32(2))
}

func TestSyncTrigger_DefaultInterval(t *testing.T) {
	assert.Equal(t, 5*time.Minute, NewSyncTrigger(&fakeSyncer{}, 0, logger.Nop()).interval)
}

func TestErrorSweeper_PassesRetention(t *testing.T) {
	s := &fakeSweeper{}
	runFor(NewErrorSweeper(s, 5*time.Millisecond, 7, logger.Nop()), 40*time.Millisecond)

	assert.GreaterOrEqual(t, s.calls.Load(), int32(2))
	assert.Equal(t, int32(7), s.days.Load())
}

func TestErrorSweeper_SurvivesErrors(t *testing.T) {
	s := &fakeSweeper{err: errors.New("disk full")}
	runFor(NewErrorSweeper(s, 5*time.Millisecond, 1, logger.Nop()), 40*time.Millisecond)

	assert.GreaterOrEqual(t, s.calls.Load(), int32(2))
}

func TestErrorSweeper_DefaultInterval(t *testing.T) {
	assert.Equal(t, time.Hour, NewErrorSweeper(&fakeSweeper{}, -1, 7, logger.Nop()).interval)
}

func TestWorker_StopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		NewSyncTrigger(&fakeSyncer{}, time.Hour, logger.Nop()).Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
