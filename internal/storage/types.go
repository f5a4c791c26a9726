package storage

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures storage.
//
// Driver values:
//   - "file": dependency-free file backend (snapshot + jsonl journal)
//   - "sqlite": SQLite database file (optional build tag)
//
// If Driver is empty or "none", storage is disabled.
type Config struct {
	Driver string
	Path   string

	// BusyTimeout feeds sqlite's busy_timeout pragma; 0 means default.
	BusyTimeout time.Duration

	// FlushInterval batches journal fsyncs on the file driver;
	// 0 syncs every write.
	FlushInterval time.Duration

	// SnapshotEvery compacts the journal after this many writes;
	// 0 keeps the driver default.
	SnapshotEvery int
}
