package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx driver with database/sql
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const migrationsDir = "migrations"

// MigrateUp applies all pending migrations.
func MigrateUp(ctx context.Context, log *slog.Logger, dsn string) error {
	return withMigrator(ctx, dsn, func(db *sql.DB) error {
		log.Info("running database migrations (up)")
		if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("database migrations completed")
		return nil
	})
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(ctx context.Context, log *slog.Logger, dsn string) error {
	return withMigrator(ctx, dsn, func(db *sql.DB) error {
		log.Info("rolling back database migration (down)")
		if err := goose.DownContext(ctx, db, migrationsDir); err != nil {
			return fmt.Errorf("failed to rollback migration: %w", err)
		}
		log.Info("database migration rollback completed")
		return nil
	})
}

// MigrateStatus prints the state of every migration.
func MigrateStatus(ctx context.Context, log *slog.Logger, dsn string) error {
	return withMigrator(ctx, dsn, func(db *sql.DB) error {
		log.Info("database migration status")
		if err := goose.StatusContext(ctx, db, migrationsDir); err != nil {
			return fmt.Errorf("failed to get migration status: %w", err)
		}
		return nil
	})
}

func withMigrator(ctx context.Context, dsn string, fn func(*sql.DB) error) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return fn(db)
}
