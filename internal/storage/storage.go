// Package storage opens the document backend once per process and exposes the
// two collections the stores work on. The handle is never closed: its
// lifetime is the lifetime of the process.
package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/Skotchmaster/technocare/internal/models"
	"github.com/Skotchmaster/technocare/internal/repo"
	"github.com/Skotchmaster/technocare/pkg/config"
	"github.com/Skotchmaster/technocare/pkg/db"
)

type Backend struct {
	Driver   string
	Accounts repo.Collection[models.Account]
	Products repo.Collection[models.Product]

	ensureIndexes func(ctx context.Context) error
	ping          func(ctx context.Context) error
}

func Open(ctx context.Context, cfg config.Storage) (*Backend, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		client, database, err := db.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return NewMongo(client, database), nil
	case config.DriverPostgres, config.DriverSQLite:
		gdb, err := db.Open(ctx, cfg.Driver, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return NewGorm(gdb)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

func NewMongo(client *mongo.Client, database *mongo.Database) *Backend {
	users := repo.NewMongoCollection[models.Account](database, models.UsersCollection)
	products := repo.NewMongoCollection[models.Product](database, models.ProductsCollection)

	return &Backend{
		Driver:   config.DriverMongo,
		Accounts: repo.Instrument[models.Account](users, models.UsersCollection),
		Products: repo.Instrument[models.Product](products, models.ProductsCollection),
		ensureIndexes: func(ctx context.Context) error {
			if err := users.EnsureIndexes(ctx, models.FieldEmail, models.FieldSubjectID); err != nil {
				return err
			}
			return products.EnsureIndexes(ctx,
				models.FieldSKU, models.FieldPathname, models.FieldBrand, models.FieldCategory)
		},
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
	}
}

// NewGorm migrates both tables so a fresh database is usable immediately.
func NewGorm(gdb *gorm.DB) (*Backend, error) {
	users, err := repo.NewGormCollection[models.Account](gdb)
	if err != nil {
		return nil, fmt.Errorf("users collection: %w", err)
	}
	products, err := repo.NewGormCollection[models.Product](gdb)
	if err != nil {
		return nil, fmt.Errorf("products collection: %w", err)
	}

	migrate := func(context.Context) error {
		if err := users.Migrate(); err != nil {
			return fmt.Errorf("migrate users: %w", err)
		}
		if err := products.Migrate(); err != nil {
			return fmt.Errorf("migrate products: %w", err)
		}
		return nil
	}
	if err := migrate(context.Background()); err != nil {
		return nil, err
	}

	return &Backend{
		Driver:        gdb.Dialector.Name(),
		Accounts:      repo.Instrument[models.Account](users, models.UsersCollection),
		Products:      repo.Instrument[models.Product](products, models.ProductsCollection),
		ensureIndexes: migrate,
		ping: func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}, nil
}

// EnsureIndexes creates the non-unique lookup indexes.
func (b *Backend) EnsureIndexes(ctx context.Context) error {
	return b.ensureIndexes(ctx)
}

func (b *Backend) Ping(ctx context.Context) error {
	return b.ping(ctx)
}
