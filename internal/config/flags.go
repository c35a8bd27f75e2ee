package config

import (
	"flag"
	"fmt"
	"time"
)

// parseFlags parses all configuration flags from args (without the program
// name).
//
// Flags:
//
//	-a remote backend address
//	-t bearer token
//	-d SQLite database path
//	-c/-config json file path with configs
//	-replica-id replica id of this device
//	-hash-key request integrity hash key
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-sync-interval period of the sync trigger (e.g., "5m")
//	-log-file log file path
func parseFlags(args []string) (*StructuredConfig, error) {
	var (
		address        string
		token          string
		databasePath   string
		jsonConfigPath string
		replicaID      string
		hashKey        string
		requestTimeout time.Duration
		syncInterval   time.Duration
		logFile        string
	)

	fs := flag.NewFlagSet("notesync", flag.ContinueOnError)
	fs.StringVar(&address, "a", "", "Remote backend address")
	fs.StringVar(&token, "t", "", "Bearer token")
	fs.StringVar(&databasePath, "d", "", "SQLite database path")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&replicaID, "replica-id", "", "Replica id of this device")
	fs.StringVar(&hashKey, "hash-key", "", "Request integrity hash key")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&syncInterval, "sync-interval", 0, "Sync trigger period (e.g., 5m)")
	fs.StringVar(&logFile, "log-file", "", "Log file path")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			ReplicaID: replicaID,
			HashKey:   hashKey,
		},
		Storage: Storage{
			DB: DB{
				DSN: databasePath,
			},
		},
		Adapter: Adapter{
			HTTPAddress:    address,
			RequestTimeout: requestTimeout,
			Token:          token,
		},
		Workers: Workers{
			SyncInterval: syncInterval,
		},
		Log: Log{
			FilePath: logFile,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}
