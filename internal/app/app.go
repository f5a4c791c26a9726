// Package app wires the minikv pieces together: config loading with hot
// reload, the logging service, the key-value store, and the optional
// cron-driven compaction job.
package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"minikv/internal/config"
	"minikv/internal/storage"
	logx "minikv/pkg/logx"
)

type App struct {
	cfgPath string

	cfgm *config.Manager
	logs *logx.Service
	log  logx.Logger

	store storage.Store

	cron *cron.Cron

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}

	logSvc, log := logx.New(logxConfig(cfg))
	log = log.With(logx.String("comp", "app"))
	cfgm.SetLogger(logSvc.Logger().With(logx.String("comp", "config")))
	cfgm.SetValidator(func(ctx context.Context, c *config.Config) error {
		_ = ctx
		return validateSchedule(c)
	})

	st, err := storage.Open(storageConfig(cfg), logSvc.Logger().With(logx.String("comp", "storage")))
	if err != nil {
		_ = logSvc.Close()
		return nil, err
	}

	if err := validateSchedule(cfg); err != nil {
		if st != nil {
			_ = st.Close()
		}
		_ = logSvc.Close()
		return nil, err
	}

	return &App{
		cfgPath: cfgPath,
		cfgm:    cfgm,
		logs:    logSvc,
		log:     log,
		store:   st,
	}, nil
}

// Store returns the opened store, or nil when storage is disabled.
func (a *App) Store() storage.Store { return a.store }

func (a *App) Log() logx.Logger { return a.log }

// Start launches the config watcher, the reload loop and the compaction
// schedule. It returns immediately; Stop tears everything down.
func (a *App) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	cfg := a.cfgm.Get()
	if cfg != nil && a.store != nil && strings.TrimSpace(cfg.Storage.CompactSchedule) != "" {
		c := cron.New()
		spec := strings.TrimSpace(cfg.Storage.CompactSchedule)
		_, err := c.AddFunc(spec, func() {
			cctx, ccancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer ccancel()
			if err := a.store.Compact(cctx); err != nil {
				a.log.Warn("scheduled compaction failed", logx.Any("err", err))
			}
		})
		if err != nil {
			cancel()
			return fmt.Errorf("storage.compact_schedule: %w", err)
		}
		c.Start()
		a.cron = c
		a.log.Info("compaction scheduled", logx.String("spec", spec))
	}

	updates := a.cfgm.Subscribe(4)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		_ = a.cfgm.Watch(runCtx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer a.cfgm.Unsubscribe(updates)
		old := cfg
		for {
			select {
			case <-runCtx.Done():
				return
			case next, ok := <-updates:
				if !ok {
					return
				}
				a.applyUpdate(old, next)
				old = next
			}
		}
	}()

	a.log.Info("minikv started", logx.String("config", a.cfgPath))
	return nil
}

// applyUpdate applies what can change at runtime (logging) and calls out
// what cannot (storage wiring needs a restart).
func (a *App) applyUpdate(old, next *config.Config) {
	if next == nil {
		return
	}
	a.logs.Apply(logxConfig(next))

	changed := diffSections(old, next)
	if len(changed) == 0 {
		return
	}
	a.log.Info("config reloaded", logx.String("changed", strings.Join(changed, ",")))
	for _, section := range changed {
		if section == "storage" {
			a.log.Warn("storage config changed; restart to apply")
		}
	}
}

func (a *App) Stop(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
	}
	if a.cron != nil {
		stopCtx := a.cron.Stop()
		select {
		case <-stopCtx.Done():
		case <-ctx.Done():
		}
		a.cron = nil
	}
	a.wg.Wait()

	var err error
	if a.store != nil {
		err = a.store.Close()
		a.store = nil
	}
	_ = a.logs.Close()
	return err
}

// DestroyStorage removes the store's on-disk state. Call after Stop.
func (a *App) DestroyStorage() error {
	cfg := a.cfgm.Get()
	if cfg == nil {
		return nil
	}
	return storage.Destroy(storageConfig(cfg))
}

func logxConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled:    cfg.Logging.File.Enabled,
			Path:       cfg.Logging.File.Path,
			RatePerSec: cfg.Logging.File.RatePerSec,
		},
	}
}

func storageConfig(cfg *config.Config) storage.Config {
	return storage.Config{
		Driver:        cfg.Storage.Driver,
		Path:          cfg.Storage.Path,
		BusyTimeout:   cfg.Storage.BusyTimeout.Std(),
		FlushInterval: cfg.Storage.FlushInterval.Std(),
		SnapshotEvery: cfg.Storage.SnapshotEvery,
	}
}

// validateSchedule rejects a config whose compaction spec can't be parsed.
// Runs on initial load and on every hot reload.
func validateSchedule(cfg *config.Config) error {
	spec := strings.TrimSpace(cfg.Storage.CompactSchedule)
	if spec == "" {
		return nil
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("storage.compact_schedule: %w", err)
	}
	return nil
}

// diffSections reports which top-level config sections differ.
// Adding a section here keeps reload logging honest; nothing else keys
// off the result.
func diffSections(old, next *config.Config) []string {
	if old == nil {
		old = &config.Config{}
	}
	if next == nil {
		next = &config.Config{}
	}
	var changed []string
	if old.Logging != next.Logging {
		changed = append(changed, "logging")
	}
	if old.Storage != next.Storage {
		changed = append(changed, "storage")
	}
	return changed
}
