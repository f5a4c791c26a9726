package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"minikv/pkg/duration"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "config.json", `{
		"logging": {"level": "debug", "console": true, "file": {"enabled": false, "path": ""}},
		"storage": {
			"driver": "file",
			"path": "./store",
			"busy_timeout": "1.5s",
			"flush_interval": "500ms",
			"snapshot_every": 100,
			"compact_schedule": "0 3 * * *"
		}
	}`)

	m := NewManager(path)
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.BusyTimeout != duration.FromMillis(1500) {
		t.Fatalf("BusyTimeout = %v, want 1.5s", cfg.Storage.BusyTimeout.Std())
	}
	if cfg.Storage.FlushInterval.Std() != 500*time.Millisecond {
		t.Fatalf("FlushInterval = %v, want 500ms", cfg.Storage.FlushInterval.Std())
	}
	if got := m.Get(); got != cfg {
		t.Fatal("Get() did not return the committed config")
	}
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "config.yaml", `
logging:
  level: info
  console: true
storage:
  driver: file
  path: ./store
  flush_interval: 1h30m
`)

	m := NewManager(path)
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.FlushInterval != duration.FromMinutes(90) {
		t.Fatalf("FlushInterval = %v, want 90m", cfg.Storage.FlushInterval.Std())
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "config.json", `{"storage": {"driver": "file", "path": "x", "nope": 1}}`)
	if _, err := NewManager(path).Load(); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoadSurfacesDurationErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"out of order", `"1m2h"`, duration.ErrUnitOrder},
		{"negative", `"-5s"`, duration.ErrNegative},
		{"garbage", `"10s!"`, duration.ErrInvalidEncoding},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "config.json",
				`{"storage": {"driver": "file", "path": "x", "busy_timeout": `+tt.raw+`}}`)
			_, err := NewManager(path).Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadRejectsTrailingData(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "config.json", `{"storage": {"driver": "none", "path": ""}} {"extra": true}`)
	if _, err := NewManager(path).Load(); err == nil {
		t.Fatal("expected error for trailing data")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"disabled storage", Config{}, true},
		{"file driver with path", Config{Storage: StorageConfig{Driver: "file", Path: "x"}}, true},
		{"file driver without path", Config{Storage: StorageConfig{Driver: "file"}}, false},
		{"unknown driver", Config{Storage: StorageConfig{Driver: "redis", Path: "x"}}, false},
		{"negative snapshot_every", Config{Storage: StorageConfig{Driver: "file", Path: "x", SnapshotEvery: -1}}, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok && err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestSubscribePublish(t *testing.T) {
	t.Parallel()
	m := NewManager("unused")
	ch := m.Subscribe(1)
	defer m.Unsubscribe(ch)

	cfg := &Config{}
	m.publish(cfg)
	select {
	case got := <-ch:
		if got != cfg {
			t.Fatal("received wrong config")
		}
	default:
		t.Fatal("no config published")
	}
}
