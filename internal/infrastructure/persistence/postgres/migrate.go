package postgres

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/MiguelMtzP/crm-restaurant-backend/pkg/database"
)

// Migrate applies pending NNN_name.sql files under dir, one transaction each
func (db *DB) Migrate(ctx context.Context, fsys fs.FS, dir string) error {
	db.logger.Info("Starting database migrations", zap.String("dir", dir))

	_, err := db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			checksum TEXT NOT NULL DEFAULT '',
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	rows, err := db.Pool.Query(ctx, `SELECT version, checksum FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}
	applied, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (database.AppliedMigration, error) {
		var a database.AppliedMigration
		var version int32
		err := row.Scan(&version, &a.Checksum)
		a.Version = int(version)
		return a, err
	})
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	all, err := database.LoadMigrations(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	pending, err := database.Pending(all, applied)
	if err != nil {
		return err
	}

	for _, m := range pending {
		db.logger.Info("Applying migration", zap.Int("version", m.Version), zap.String("name", m.Name))

		err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.SQL); err != nil {
				return fmt.Errorf("failed to execute migration SQL: %w", err)
			}
			_, err := tx.Exec(ctx,
				`INSERT INTO schema_migrations (version, name, checksum) VALUES ($1, $2, $3)`,
				m.Version, m.Name, m.Checksum)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", m.Version, err)
		}
	}

	db.logger.Info("Database migrations completed", zap.Int("applied", len(pending)))
	return nil
}
