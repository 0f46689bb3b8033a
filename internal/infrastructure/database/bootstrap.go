package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"github.com/nerrad567/fleetsim/internal/infrastructure/config"
)

// EnsureDatabase creates the target database if it does not exist.
//
// It connects to the pre-existing administrative database (cfg.AdminDB),
// never the target itself, which may not exist yet. The single
// connection runs in autocommit mode, as CREATE DATABASE cannot execute
// inside a transaction block. The operation is idempotent: an existing
// database is left untouched.
//
// Parameters:
//   - ctx: Context for the bootstrap connection
//   - cfg: Database configuration (Name is the database to ensure)
//
// Returns:
//   - bool: true if the database was created, false if it already existed
//   - error: Wrapped ErrBootstrapFailed on any failure
func EnsureDatabase(ctx context.Context, cfg config.DatabaseConfig) (bool, error) {
	if !config.ValidIdentifier(cfg.Name) {
		return false, fmt.Errorf("%w: database %q", ErrInvalidIdentifier, cfg.Name)
	}
	if !config.ValidIdentifier(cfg.AdminDB) {
		return false, fmt.Errorf("%w: admin database %q", ErrInvalidIdentifier, cfg.AdminDB)
	}

	connCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	conn, err := pgx.Connect(connCtx, connString(cfg, cfg.AdminDB))
	if err != nil {
		return false, fmt.Errorf("%w: connecting to admin database %q: %w", ErrBootstrapFailed, cfg.AdminDB, err)
	}
	defer conn.Close(ctx)

	var one int
	err = conn.QueryRow(ctx, "SELECT 1 FROM pg_database WHERE datname = $1", cfg.Name).Scan(&one)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, pgx.ErrNoRows):
		// Identifier already allow-listed above; interpolation is the
		// only option since CREATE DATABASE cannot bind its name.
		if _, err := conn.Exec(ctx, "CREATE DATABASE "+cfg.Name); err != nil {
			return false, fmt.Errorf("%w: creating database %q: %w", ErrBootstrapFailed, cfg.Name, err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("%w: checking for database %q: %w", ErrBootstrapFailed, cfg.Name, err)
	}
}

// EnsureTable creates the samples table if it does not exist.
//
// The schema matches the persisted contract:
//
//	id          SERIAL PRIMARY KEY
//	signal_type VARCHAR(50) NOT NULL
//	value       FLOAT NOT NULL
//	timestamp   TIMESTAMP NOT NULL
//
// The operation is idempotent; running it against an existing table is
// a no-op. Failure is fatal to startup: the scheduler must not begin
// generation until the table is confirmed ready.
func (db *DB) EnsureTable(ctx context.Context) error {
	conn, err := db.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: acquiring connection: %w", ErrBootstrapFailed, err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, tableSchema(db.table)); err != nil {
		return fmt.Errorf("%w: creating table %q: %w", ErrBootstrapFailed, db.table, err)
	}
	return nil
}

// tableSchema returns the idempotent DDL for the samples table.
// The caller must have validated the identifier already.
func tableSchema(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id SERIAL PRIMARY KEY,
	signal_type VARCHAR(50) NOT NULL,
	value FLOAT NOT NULL,
	timestamp TIMESTAMP NOT NULL
)`, table)
}
