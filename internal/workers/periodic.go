// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/notesync/internal/logger"
)

// every calls fn on each tick of interval until ctx is cancelled.
func every(ctx context.Context, interval time.Duration, fn func(ctx context.Context)) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			fn(ctx)
		}
	}
}

// SyncTrigger requests a sync cycle on every tick. Requests dropped by the
// engine's gate are only logged.
type SyncTrigger struct {
	syncer   Syncer
	interval time.Duration
	logger   *logger.Logger
}

// NewSyncTrigger returns a SyncTrigger. A non-positive interval defaults to
// 5 minutes.
func NewSyncTrigger(syncer Syncer, interval time.Duration, logger *logger.Logger) *SyncTrigger {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &SyncTrigger{syncer: syncer, interval: interval, logger: logger}
}

func (s *SyncTrigger) Run(ctx context.Context) {
	every(ctx, s.interval, func(ctx context.Context) {
		res, err := s.syncer.Sync(ctx)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("func", "SyncTrigger.Run").
				Bool("retry_scheduled", res.RetryScheduled).
				Msg("periodic sync aborted")
			return
		}
		if res.Skipped {
			s.logger.Debug().
				Str("func", "SyncTrigger.Run").
				Str("reason", string(res.SkipReason)).
				Msg("periodic sync skipped")
		}
	})
}

// ErrorSweeper removes resolved sync errors past their retention on every
// tick.
type ErrorSweeper struct {
	sweeper       Sweeper
	interval      time.Duration
	retentionDays int
	logger        *logger.Logger
}

// NewErrorSweeper returns an ErrorSweeper. A non-positive interval defaults
// to one hour.
func NewErrorSweeper(sweeper Sweeper, interval time.Duration, retentionDays int, logger *logger.Logger) *ErrorSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ErrorSweeper{sweeper: sweeper, interval: interval, retentionDays: retentionDays, logger: logger}
}

func (s *ErrorSweeper) Run(ctx context.Context) {
	every(ctx, s.interval, func(ctx context.Context) {
		n, err := s.sweeper.Sweep(ctx, s.retentionDays)
		if err != nil {
			s.logger.Err(err).Str("func", "ErrorSweeper.Run").Msg("failed to sweep resolved sync errors")
			return
		}
		if n > 0 {
			s.logger.Info().Str("func", "ErrorSweeper.Run").Int64("deleted", n).Msg("swept resolved sync errors")
		}
	})
}
