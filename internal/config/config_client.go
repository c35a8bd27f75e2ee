package config

import (
	"fmt"
	"time"
)

// ClientApp holds client identity and key material.
type ClientApp struct {
	ReplicaID  string
	HashKey    string
	Passphrase string
	KeySalt    string
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the base URL of the remote backend.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
	// Token is the bearer token attached to every request.
	Token string
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite file path.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// SyncInterval defines how often the sync trigger fires.
	SyncInterval time.Duration
	// ErrorSweepInterval defines how often resolved errors are swept.
	ErrorSweepInterval time.Duration
	// ErrorRetentionDays is passed to the sweep.
	ErrorRetentionDays int
}

// ClientSync contains the reconciliation engine tunables.
type ClientSync struct {
	DebounceWindow      time.Duration
	RetryDelay          time.Duration
	CompactionThreshold int
	FlushPollInterval   time.Duration
	FlushWaitTimeout    time.Duration
	ImageBackoffBase    time.Duration
	ImageBackoffMax     time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains identity and key material.
	App ClientApp
	// Adapter contains client transport addresses and timeouts.
	Adapter ClientAdapter
	// Storage contains client storage settings.
	Storage ClientStorage
	// Workers contains background job settings.
	Workers ClientWorkers
	// Sync contains engine tunables.
	Sync ClientSync
	// LogFile is the rotated log file path.
	LogFile string
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
func GetClientConfig(args []string) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := NewClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

// NewClientConfig maps the fields of cfg relevant to the client runtime.
func NewClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			ReplicaID:  cfg.App.ReplicaID,
			HashKey:    cfg.App.HashKey,
			Passphrase: cfg.App.Passphrase,
			KeySalt:    cfg.App.KeySalt,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			Token:          cfg.Adapter.Token,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Workers: ClientWorkers{
			SyncInterval:       cfg.Workers.SyncInterval,
			ErrorSweepInterval: cfg.Workers.ErrorSweepInterval,
			ErrorRetentionDays: cfg.Sync.ErrorRetentionDays,
		},
		Sync: ClientSync{
			DebounceWindow:      cfg.Sync.DebounceWindow,
			RetryDelay:          cfg.Sync.RetryDelay,
			CompactionThreshold: cfg.Sync.CompactionThreshold,
			FlushPollInterval:   cfg.Sync.FlushPollInterval,
			FlushWaitTimeout:    cfg.Sync.FlushWaitTimeout,
			ImageBackoffBase:    cfg.Sync.ImageBackoffBase,
			ImageBackoffMax:     cfg.Sync.ImageBackoffMax,
		},
		LogFile: cfg.Log.FilePath,
	}
}
