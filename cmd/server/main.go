package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/technocare/internal/app"
	"github.com/Skotchmaster/technocare/internal/storage"
	"github.com/Skotchmaster/technocare/pkg/config"
	"github.com/Skotchmaster/technocare/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.ServiceName, cfg.LogLevel)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	backend, err := storage.Open(initCtx, cfg.Storage)
	cancel()
	if err != nil {
		log.Fatalf("storage open: %v", err)
	}

	a := app.New(cfg, logger, backend, app.NewPublisher(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Serve(ctx, cfg.Addr(), logger); err != nil {
		log.Fatalf("listen: %v", err)
	}
}
