package models

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

//go:embed migrations
var migrations embed.FS

const schemaMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version VARCHAR(255) PRIMARY KEY,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

func migrationDir(db *bun.DB) (string, error) {
	switch db.Dialect().Name() {
	case dialect.PG:
		return "migrations/postgres", nil
	case dialect.SQLite:
		return "migrations/sqlite", nil
	default:
		return "", fmt.Errorf("no migrations for dialect %s", db.Dialect().Name())
	}
}

// InitSchema applies every embedded migration for the database dialect that has not been
// recorded in schema_migrations yet. Each migration runs in its own transaction.
func InitSchema(ctx context.Context, db *bun.DB) error {
	dir, err := migrationDir(db)
	if err != nil {
		return err
	}

	entries, err := fs.ReadDir(migrations, dir)
	if err != nil {
		return err
	}

	ups := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			ups = append(ups, e.Name())
		}
	}
	sort.Strings(ups)

	if _, err := db.ExecContext(ctx, schemaMigrationsTable); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := make([]string, 0)
	if err := db.NewSelect().Table("schema_migrations").Column("version").Scan(ctx, &applied); err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("read schema_migrations: %w", err)
	}

	for _, name := range ups {
		version := strings.TrimSuffix(name, ".up.sql")
		if isApplied(version, applied) {
			continue
		}

		data, err := migrations.ReadFile(path.Join(dir, name))
		if err != nil {
			return err
		}

		err = db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, string(data)); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %s: %w", version, err)
		}

		log.Info().Str("version", version).Msg("Applied migration")
	}

	return nil
}

func isApplied(version string, applied []string) bool {
	for _, v := range applied {
		if v == version {
			return true
		}
	}
	return false
}
