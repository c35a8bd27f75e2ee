// Package workers provides the background workers of the client process and
// a Workers aggregate that runs them together.
package workers

import (
	"context"

	"github.com/MKhiriev/notesync/models"
)

// Worker is the interface that must be implemented by any background worker.
//
// Run blocks until ctx is cancelled.
//
// Example implementation:
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Run(ctx context.Context) {
//	    <-ctx.Done()
//	}
type Worker interface {
	Run(ctx context.Context)
}

// Syncer runs one reconciliation cycle.
type Syncer interface {
	Sync(ctx context.Context) (models.SyncResult, error)
}

// Sweeper deletes resolved sync errors older than the retention.
type Sweeper interface {
	Sweep(ctx context.Context, retentionDays int) (int64, error)
}
