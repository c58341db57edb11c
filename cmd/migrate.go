package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/frahmantamala/timesheet/db"
	"github.com/frahmantamala/timesheet/internal"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the embedded sql migrations against the configured SQL storage",
	}
	migrateRollback bool
	migrateStatus   bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.Flags().BoolVarP(&migrateStatus, "status", "s", false, "to print the migration status and exit")
}

// migrationDriver maps a storage driver onto the database/sql driver name and
// the goose dialect.
func migrationDriver(storageDriver string) (driver, dialect string, err error) {
	switch storageDriver {
	case internal.StorageDriverSQLite:
		return "sqlite3", "sqlite3", nil
	case internal.StorageDriverPostgres:
		return "pgx", "postgres", nil
	case internal.StorageDriverMySQL:
		return "mysql", "mysql", nil
	default:
		return "", "", fmt.Errorf("storage driver %q has no sql migrations", storageDriver)
	}
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	initLogger(cfg)

	driver, dialect, err := migrationDriver(cfg.Storage.Driver)
	if err != nil {
		return err
	}

	conn, err := sql.Open(driver, cfg.Storage.DSN)
	if err != nil {
		return fmt.Errorf("goose: failed to open DB: %w", err)
	}
	defer conn.Close()

	goose.SetBaseFS(db.Migrations)
	goose.SetTableName("schema_migrations")
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose: %w", err)
	}

	command := "up"
	switch {
	case migrateStatus:
		command = "status"
	case migrateRollback:
		command = "down"
	}

	if err := goose.RunContext(ctx, command, conn, "migrations"); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
