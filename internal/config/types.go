package config

import (
	"errors"
	"fmt"
	"strings"

	"minikv/pkg/duration"
)

// Config is the root minikv configuration.
//
// All duration-valued fields use the readable duration format
// (e.g. "500ms", "10s", "1h30m"); see pkg/duration.
type Config struct {
	Logging LoggingConfig `json:"logging"`
	Storage StorageConfig `json:"storage"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
	// RatePerSec caps log lines written to the file per second. 0 = no cap.
	RatePerSec int `json:"rate_per_sec,omitempty"`
}

// StorageConfig controls the key-value store.
//
// Driver values:
//   - "file": dependency-free file backend (snapshot + jsonl journal)
//   - "sqlite": SQLite database file (build with -tags sqlite)
//   - "" or "none": storage disabled
type StorageConfig struct {
	Driver string `json:"driver"`
	Path   string `json:"path"`

	// BusyTimeout is handed to sqlite's busy_timeout pragma. sqlite only.
	BusyTimeout duration.Duration `json:"busy_timeout,omitempty"`

	// FlushInterval batches journal fsyncs on the file driver.
	// "0s" syncs on every write.
	FlushInterval duration.Duration `json:"flush_interval,omitempty"`

	// SnapshotEvery compacts the journal into the snapshot after this many
	// writes. 0 keeps the driver default.
	SnapshotEvery int `json:"snapshot_every,omitempty"`

	// CompactSchedule is an optional cron spec (e.g. "0 3 * * *") for
	// background compaction. Empty disables scheduled compaction.
	CompactSchedule string `json:"compact_schedule,omitempty"`
}

// Validate rejects configs that would fail later at open/startup time.
// Duration fields are already validated by the decoder; their parse errors
// surface verbatim to whoever is loading the config.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	driver := strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch driver {
	case "", "none", "file", "sqlite", "sqlite3":
	default:
		return fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver)
	}
	if driver != "" && driver != "none" && strings.TrimSpace(c.Storage.Path) == "" {
		return errors.New("storage.path is required when storage is enabled")
	}
	if c.Storage.SnapshotEvery < 0 {
		return errors.New("storage.snapshot_every must be >= 0")
	}
	if c.Logging.File.RatePerSec < 0 {
		return errors.New("logging.file.rate_per_sec must be >= 0")
	}
	return nil
}
