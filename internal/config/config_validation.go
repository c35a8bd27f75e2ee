// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks that the final merged [StructuredConfig] is internally
// consistent. Per-runtime requirements are checked by [ClientConfig.validate].
func (cfg *StructuredConfig) validate() error {
	if cfg.App.Passphrase != "" && cfg.App.KeySalt == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.SyncInterval <= 0 || cfg.Workers.ErrorSweepInterval <= 0 || cfg.Workers.ErrorRetentionDays <= 0 {
		return ErrInvalidWorkerConfigs
	}

	s := cfg.Sync
	if s.CompactionThreshold < 2 ||
		s.FlushPollInterval <= 0 ||
		s.FlushWaitTimeout < s.FlushPollInterval ||
		s.RetryDelay <= 0 ||
		s.DebounceWindow < 0 ||
		s.ImageBackoffBase <= 0 ||
		s.ImageBackoffMax < s.ImageBackoffBase {
		return ErrInvalidSyncConfigs
	}

	return nil
}
