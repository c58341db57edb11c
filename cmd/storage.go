package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/frahmantamala/timesheet/internal/storage"
	"github.com/frahmantamala/timesheet/internal/storage/filestore"
	"github.com/frahmantamala/timesheet/internal/storage/gormstore"
	"github.com/frahmantamala/timesheet/internal/storage/redisstore"
)

// openDocumentStore returns the backend selected by storage.driver. SQL
// drivers expect the documents table from the migrate command.
func openDocumentStore(ctx context.Context, cfg internal.StorageConfig) (storage.DocumentStore, error) {
	switch cfg.Driver {
	case internal.StorageDriverFile:
		return filestore.NewOS(cfg.DataDir)

	case internal.StorageDriverSQLite, internal.StorageDriverPostgres, internal.StorageDriverMySQL:
		db, err := gormstore.Open(cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, err
		}
		store := gormstore.New(db)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
		}
		return store, nil

	case internal.StorageDriverRedis:
		return redisstore.Open(ctx, redisstore.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
