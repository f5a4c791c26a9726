package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"minikv/internal/app"
	logx "minikv/pkg/logx"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "./config.json", "path to config file (json or yaml)")
	flag.Parse()

	mode := flag.Arg(0)
	if mode == "" {
		mode = "run"
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(cfgPath)
	if err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}

	switch mode {
	case "run":
		if err := a.Start(ctx); err != nil {
			fmt.Println("fatal start:", err)
			os.Exit(1)
		}
		<-ctx.Done()
		_ = a.Stop(context.Background())
	case "demo":
		err := demo(ctx, a)
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		_ = a.Stop(stopCtx)
		stopCancel()
		if err == nil {
			err = a.DestroyStorage()
		}
		if err != nil {
			fmt.Println("demo failed:", err)
			os.Exit(1)
		}
	default:
		fmt.Println("unknown mode:", mode)
		os.Exit(2)
	}
}

// demo runs a single put/get/delete round against the configured store and
// tears the store's files down afterwards.
func demo(ctx context.Context, a *app.App) error {
	st := a.Store()
	if st == nil {
		return fmt.Errorf("storage is disabled; enable a driver in the config")
	}
	log := a.Log().With(logx.String("comp", "demo"))

	if err := st.Put(ctx, "my key", []byte("my value")); err != nil {
		return fmt.Errorf("put: %w", err)
	}

	v, ok, err := st.Get(ctx, "my key")
	switch {
	case err != nil:
		return fmt.Errorf("get: %w", err)
	case !ok:
		log.Warn("value not found")
	default:
		log.Info("retrieved value", logx.String("value", string(v)))
	}

	if err := st.Delete(ctx, "my key"); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}
