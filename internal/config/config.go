// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the notesync
// engine. It aggregates all sub-configurations and is populated by merging
// defaults, environment variables, command-line flags, and an optional JSON
// file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds identity and key material of this client.
	App App `envPrefix:"APP_"`

	// Storage holds the local store settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter holds the remote backend endpoint settings.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds the intervals of background workers.
	Workers Workers `envPrefix:"WORKERS_"`

	// Sync holds the reconciliation engine tunables.
	Sync Sync `envPrefix:"SYNC_"`

	// Log holds logging output settings.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// ReplicaID identifies this device in CRDT operation ids. When empty the
	// engine generates one and keeps it in the app state table.
	// Env: APP_REPLICA_ID
	ReplicaID string `env:"REPLICA_ID"`

	// HashKey is the HMAC key used for the request integrity header sent to
	// the remote backend. Optional.
	// Env: APP_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// Passphrase enables sealing of pushed updates. Optional.
	// Env: APP_PASSPHRASE
	Passphrase string `env:"PASSPHRASE"`

	// KeySalt is the salt for deriving the account key from Passphrase.
	// Env: APP_KEY_SALT
	KeySalt string `env:"KEY_SALT"`
}

// Storage groups the configuration of the local store.
type Storage struct {
	// DB holds the SQLite settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database.
type DB struct {
	// DSN is the path of the SQLite database file.
	// Env: STORAGE_DB_DATABASE_PATH
	DSN string `env:"DATABASE_PATH"`
}

// Adapter holds the settings of the remote backend transport.
type Adapter struct {
	// HTTPAddress is the base URL of the remote backend
	// (e.g. "https://notes.example.com" or "localhost:8080").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the transport timeout of a single request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Token is the bearer token obtained by the external auth flow.
	// Env: ADAPTER_TOKEN
	Token string `env:"TOKEN"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// SyncInterval is the period of the throttled sync trigger.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// ErrorSweepInterval is the period of the resolved-error sweep.
	// Env: WORKERS_ERROR_SWEEP_INTERVAL
	ErrorSweepInterval time.Duration `env:"ERROR_SWEEP_INTERVAL"`
}

// Sync holds the tunables of the reconciliation engine.
type Sync struct {
	// DebounceWindow drops sync requests arriving sooner than this after the
	// previous attempt.
	// Env: SYNC_DEBOUNCE_WINDOW
	DebounceWindow time.Duration `env:"DEBOUNCE_WINDOW"`

	// RetryDelay is the fixed delay of the single retry timer armed when a
	// cycle aborts.
	// Env: SYNC_RETRY_DELAY
	RetryDelay time.Duration `env:"RETRY_DELAY"`

	// CompactionThreshold is the fragment count above which a document log
	// is compacted.
	// Env: SYNC_COMPACTION_THRESHOLD
	CompactionThreshold int `env:"COMPACTION_THRESHOLD"`

	// FlushPollInterval is the poll interval of the wait for in-flight
	// flushes before the push phase.
	// Env: SYNC_FLUSH_POLL_INTERVAL
	FlushPollInterval time.Duration `env:"FLUSH_POLL_INTERVAL"`

	// FlushWaitTimeout bounds the flush wait.
	// Env: SYNC_FLUSH_WAIT_TIMEOUT
	FlushWaitTimeout time.Duration `env:"FLUSH_WAIT_TIMEOUT"`

	// ErrorRetentionDays is how long resolved sync errors are kept.
	// Env: SYNC_ERROR_RETENTION_DAYS
	ErrorRetentionDays int `env:"ERROR_RETENTION_DAYS"`

	// ImageBackoffBase and ImageBackoffMax shape the upload retry backoff.
	// Env: SYNC_IMAGE_BACKOFF_BASE, SYNC_IMAGE_BACKOFF_MAX
	ImageBackoffBase time.Duration `env:"IMAGE_BACKOFF_BASE"`
	ImageBackoffMax  time.Duration `env:"IMAGE_BACKOFF_MAX"`
}

// Log holds logging output settings.
type Log struct {
	// FilePath is the rotated log file. Empty means "logs" next to the
	// executable.
	// Env: LOG_FILE
	FilePath string `env:"FILE"`
}

// Defaults returns the configuration used for every field left empty by all
// other sources.
func Defaults() *StructuredConfig {
	return &StructuredConfig{
		Adapter: Adapter{
			RequestTimeout: 15 * time.Second,
		},
		Workers: Workers{
			SyncInterval:       5 * time.Minute,
			ErrorSweepInterval: time.Hour,
		},
		Sync: Sync{
			DebounceWindow:      time.Second,
			RetryDelay:          5 * time.Second,
			CompactionThreshold: 50,
			FlushPollInterval:   10 * time.Millisecond,
			FlushWaitTimeout:    2 * time.Second,
			ErrorRetentionDays:  7,
			ImageBackoffBase:    5 * time.Second,
			ImageBackoffMax:     5 * time.Minute,
		},
	}
}

// GetStructuredConfig loads, merges, and validates the configuration from all
// available sources in the following priority order (later sources override
// earlier non-zero fields):
//  1. Defaults
//  2. Environment variables
//  3. Command-line flags
//  4. JSON file (path resolved from sources 2 and 3)
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(args).
		withJSON().
		build()
}
