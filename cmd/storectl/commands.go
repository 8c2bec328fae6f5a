package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/technocare/internal/app"
	"github.com/Skotchmaster/technocare/internal/models"
	"github.com/Skotchmaster/technocare/internal/storage"
	"github.com/Skotchmaster/technocare/pkg/config"
	"github.com/Skotchmaster/technocare/pkg/logging"
)

// boot loads config and opens the shared backend handle.
func boot(ctx context.Context) (config.Config, *slog.Logger, *storage.Backend, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	logger := logging.New(cfg.ServiceName, cfg.LogLevel)
	slog.SetDefault(logger)

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	backend, err := storage.Open(openCtx, cfg.Storage)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("storage open: %w", err)
	}
	return cfg, logger, backend, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, logger, backend, err := boot(ctx)
		if err != nil {
			return err
		}
		return app.New(cfg, logger, backend, app.NewPublisher(cfg)).Serve(ctx, cfg.Addr(), logger)
	},
}

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the non-unique lookup indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, backend, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		if err := backend.EnsureIndexes(cmd.Context()); err != nil {
			return err
		}
		logger.Info("indexes ensured", "storage", backend.Driver)
		return nil
	},
}

var (
	seedProducts string
	seedUsers    string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert products and users from JSON array files",
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedProducts == "" && seedUsers == "" {
			return fmt.Errorf("nothing to seed: pass --products and/or --users")
		}
		cfg, logger, backend, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		a := app.New(cfg, logger, backend, app.NewPublisher(cfg))
		defer a.Publisher.Close()

		ctx := logging.IntoContext(cmd.Context(), logger)

		if seedProducts != "" {
			var items []models.Product
			if err := readJSON(seedProducts, &items); err != nil {
				return err
			}
			for i := range items {
				if _, err := a.Catalog.CreateProduct(ctx, &items[i]); err != nil {
					return fmt.Errorf("product sku=%d: %w", items[i].SKU, err)
				}
			}
			logger.Info("products seeded", "count", len(items))
		}

		if seedUsers != "" {
			var items []models.Account
			if err := readJSON(seedUsers, &items); err != nil {
				return err
			}
			for i := range items {
				if _, err := a.Accounts.CreateAccount(ctx, &items[i]); err != nil {
					return fmt.Errorf("user %s: %w", items[i].Email, err)
				}
			}
			logger.Info("users seeded", "count", len(items))
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedProducts, "products", "", "JSON file with an array of products")
	seedCmd.Flags().StringVar(&seedUsers, "users", "", "JSON file with an array of users")
}

func readJSON(path string, dest any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
