package storage

import (
	"context"
	"errors"
	"os"
	"strings"

	logx "minikv/pkg/logx"
)

// Store is the key-value API used by the app.
type Store interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Delete(ctx context.Context, key string) error

	// Compact reclaims space (journal -> snapshot on the file driver,
	// vacuum on sqlite).
	Compact(ctx context.Context) error

	Close() error
}

// Open initializes the configured store.
// It returns (nil, nil) if storage is disabled.
func Open(cfg Config, log logx.Logger) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" || driver == "none" {
		return nil, nil
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	switch driver {
	case "file":
		return openFile(cfg, log)
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, errors.New("unknown storage driver: " + driver)
	}
}

// Destroy removes the on-disk state for the configured store.
// The store must be closed first.
func Destroy(cfg Config) error {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", "none":
		return nil
	case "file":
		return destroyFile(cfg)
	case "sqlite", "sqlite3":
		return destroySQLite(cfg)
	default:
		return errors.New("unknown storage driver: " + driver)
	}
}

// destroySQLite removes the database plus WAL side files. It deliberately
// works without the sqlite build tag so Destroy can clean up leftovers.
func destroySQLite(cfg Config) error {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil
	}
	var firstErr error
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
