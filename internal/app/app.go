package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/technocare/internal/events"
	"github.com/Skotchmaster/technocare/internal/httpserver"
	"github.com/Skotchmaster/technocare/internal/metrics"
	"github.com/Skotchmaster/technocare/internal/ratelimit"
	"github.com/Skotchmaster/technocare/internal/service"
	"github.com/Skotchmaster/technocare/internal/storage"
	"github.com/Skotchmaster/technocare/pkg/config"
	loggingmw "github.com/Skotchmaster/technocare/pkg/middleware/logging"
)

type App struct {
	Echo      *echo.Echo
	Backend   *storage.Backend
	Publisher events.Publisher
	Accounts  *service.AccountService
	Catalog   *service.CatalogService
}

func NewPublisher(cfg config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.Nop{}
	}
	return events.NewProducer(cfg.KafkaBrokers)
}

// New wires both stores onto the one shared backend handle.
func New(cfg config.Config, logger *slog.Logger, backend *storage.Backend, pub events.Publisher) *App {
	accounts := &service.AccountService{Repo: backend.Accounts, Publisher: pub}
	catalog := &service.CatalogService{Repo: backend.Products, Publisher: pub}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	e.Use(metrics.Middleware())
	e.Use(loggingmw.RequestLogger(logger, loggingmw.Config{
		Storage:   backend.Driver,
		KeyParams: []string{"subjectId", "sku", "pathname", "brand", "category"},
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSOrigins}))
	if cfg.Redis.Addr != "" && cfg.Redis.PerMinute > 0 {
		lim := ratelimit.NewFixedWindow(ratelimit.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		}, cfg.Redis.PerMinute, time.Minute)
		e.Use(ratelimit.Middleware(lim))
	}

	httpserver.Register(e, &httpserver.Deps{
		AccountHandler: &httpserver.AccountHTTP{Svc: accounts},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalog},
		Ready:          backend.Ping,
	})

	return &App{
		Echo:      e,
		Backend:   backend,
		Publisher: pub,
		Accounts:  accounts,
		Catalog:   catalog,
	}
}

// Serve blocks until ctx is cancelled, then drains in-flight requests.
// The backend handle is left open; it lives as long as the process.
func (a *App) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Echo,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "storage", a.Backend.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	_ = a.Publisher.Close()

	logger.Info("shutdown complete")
	return nil
}
