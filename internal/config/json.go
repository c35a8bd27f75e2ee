package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for JSON files; durations
// are written as strings like "30s".
type StructuredJSONConfig struct {
	App struct {
		ReplicaID  string `json:"replica_id"`
		HashKey    string `json:"hash_key"`
		Passphrase string `json:"passphrase"`
		KeySalt    string `json:"key_salt"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		Token          string   `json:"token"`
	} `json:"adapter,omitempty"`

	Workers struct {
		SyncInterval       Duration `json:"sync_interval"`
		ErrorSweepInterval Duration `json:"error_sweep_interval"`
	} `json:"workers,omitempty"`

	Sync struct {
		DebounceWindow      Duration `json:"debounce_window"`
		RetryDelay          Duration `json:"retry_delay"`
		CompactionThreshold int      `json:"compaction_threshold"`
		FlushPollInterval   Duration `json:"flush_poll_interval"`
		FlushWaitTimeout    Duration `json:"flush_wait_timeout"`
		ErrorRetentionDays  int      `json:"error_retention_days"`
		ImageBackoffBase    Duration `json:"image_backoff_base"`
		ImageBackoffMax     Duration `json:"image_backoff_max"`
	} `json:"sync,omitempty"`

	Log struct {
		FilePath string `json:"file"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			ReplicaID:  jsonCfg.App.ReplicaID,
			HashKey:    jsonCfg.App.HashKey,
			Passphrase: jsonCfg.App.Passphrase,
			KeySalt:    jsonCfg.App.KeySalt,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			Token:          jsonCfg.Adapter.Token,
		},
		Workers: Workers{
			SyncInterval:       time.Duration(jsonCfg.Workers.SyncInterval),
			ErrorSweepInterval: time.Duration(jsonCfg.Workers.ErrorSweepInterval),
		},
		Sync: Sync{
			DebounceWindow:      time.Duration(jsonCfg.Sync.DebounceWindow),
			RetryDelay:          time.Duration(jsonCfg.Sync.RetryDelay),
			CompactionThreshold: jsonCfg.Sync.CompactionThreshold,
			FlushPollInterval:   time.Duration(jsonCfg.Sync.FlushPollInterval),
			FlushWaitTimeout:    time.Duration(jsonCfg.Sync.FlushWaitTimeout),
			ErrorRetentionDays:  jsonCfg.Sync.ErrorRetentionDays,
			ImageBackoffBase:    time.Duration(jsonCfg.Sync.ImageBackoffBase),
			ImageBackoffMax:     time.Duration(jsonCfg.Sync.ImageBackoffMax),
		},
		Log: Log{
			FilePath: jsonCfg.Log.FilePath,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
