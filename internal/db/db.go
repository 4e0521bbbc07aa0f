package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"mindbloom/internal/analytics"
	"mindbloom/internal/logger"
	"mindbloom/internal/training"

	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB stores training sessions and users in PostgreSQL.
type DB struct {
	conn *sql.DB
	log  *logger.Logger
}

func Connect(ctx context.Context, dsn string, log *logger.Logger) (*DB, error) {
	if log == nil {
		log = logger.NewNop()
	}
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	log = log.With("service", "PostgresStore")
	log.Info("connected to PostgreSQL")
	return &DB{conn: conn, log: log}, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) Ping(ctx context.Context) error {
	return d.conn.PingContext(ctx)
}

func (d *DB) Migrate(ctx context.Context) error {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations dir: %w", err)
	}

	for _, entry := range entries {
		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}
		if _, err := d.conn.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", entry.Name(), err)
		}
		d.log.Info("applied migration", "name", entry.Name())
	}
	return nil
}

var (
	_ analytics.SessionStore = (*DB)(nil)
	_ analytics.UserStore    = (*DB)(nil)
	_ training.Store         = (*DB)(nil)
)
