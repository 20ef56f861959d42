package utils

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	_ "modernc.org/sqlite"
)

const (
	DriverPg     = "pg"
	DriverPq     = "pq"
	DriverSqlite = "sqlite"
)

type DatabaseConfig struct {
	Driver       string `env:"DB_DRIVER" envDefault:"pg"`
	Dsn          string `env:"DSN"`
	IsProduction bool   `env:"PRODUCTION"`
}

// ProvideDatabase opens the configured database and pings it. Outside production every
// query is logged through bundebug.
func ProvideDatabase(config *DatabaseConfig) (*bun.DB, error) {
	db, err := openDatabase(config)
	if err != nil {
		return nil, err
	}

	if !config.IsProduction {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
		log.Info().Msg("Enabled bun debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Info().Str("driver", config.Driver).Msg("Connected to database")
	return db, nil
}

func openDatabase(config *DatabaseConfig) (*bun.DB, error) {
	switch config.Driver {
	case DriverPg, "":
		pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(config.Dsn)))
		return bun.NewDB(pgdb, pgdialect.New()), nil
	case DriverPq:
		pqdb, err := sql.Open("postgres", config.Dsn)
		if err != nil {
			return nil, err
		}
		return bun.NewDB(pqdb, pgdialect.New()), nil
	case DriverSqlite:
		dsn := config.Dsn
		if len(dsn) == 0 {
			dsn = ":memory:"
		}
		sqldb, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, err
		}
		sqldb.SetMaxOpenConns(1)
		db := bun.NewDB(sqldb, sqlitedialect.New())
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", config.Driver)
	}
}
