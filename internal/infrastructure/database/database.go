package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/nerrad567/fleetsim/internal/infrastructure/config"
)

// Database configuration constants.
const (
	// connectionTimeout is the timeout for verifying database connectivity.
	connectionTimeout = 5 * time.Second

	// connMaxIdleTime is how long idle connections are kept open.
	connMaxIdleTime = 30 * time.Minute

	// connMaxLifetime refreshes connections periodically.
	connMaxLifetime = time.Hour
)

// DB wraps a pgx connection pool with FleetSim-specific functionality.
//
// The pool enforces a hard upper bound on concurrently open connections
// (cfg.Pool.MaxConns); acquisition beyond the bound blocks until a
// connection is released or the context is cancelled. All methods are
// safe for concurrent use from multiple goroutines, so the three signal
// streams may share one DB even when run as independent tasks.
type DB struct {
	pool  *pgxpool.Pool
	table string

	// insertSQL is built once at connect time, after the table
	// identifier has passed the allow-list check.
	insertSQL string
}

// Connect opens a connection pool to the target database.
//
// It performs the following setup:
//  1. Validates the table identifier against the allow-list
//  2. Configures pool bounds (MinConns, MaxConns) from config
//  3. Opens the pool and verifies connectivity with a ping
//
// The target database must already exist; run EnsureDatabase first if
// it may not (the bootstrap path in cmd/fleetsim does this).
//
// Parameters:
//   - ctx: Context for connection establishment
//   - cfg: Database configuration
//
// Returns:
//   - *DB: Connected pool wrapper
//   - error: If validation, connection, or ping fails
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	if !config.ValidIdentifier(cfg.Table) {
		return nil, fmt.Errorf("%w: table %q", ErrInvalidIdentifier, cfg.Table)
	}

	poolCfg, err := pgxpool.ParseConfig(connString(cfg, cfg.Name))
	if err != nil {
		return nil, fmt.Errorf("parsing pool config: %w", err)
	}

	// Pool bounds: minimum idle connections kept warm, hard cap on
	// concurrently open connections.
	poolCfg.MinConns = int32(cfg.Pool.MinConns)
	poolCfg.MaxConns = int32(cfg.Pool.MaxConns)
	poolCfg.MaxConnIdleTime = connMaxIdleTime
	poolCfg.MaxConnLifetime = connMaxLifetime

	pool, err := pgxpool.ConnectConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	db := &DB{
		pool:      pool,
		table:     cfg.Table,
		insertSQL: insertStatement(cfg.Table),
	}

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping failed: %w", ErrConnectionFailed, err)
	}

	return db, nil
}

// Close closes all pool connections gracefully.
// It should be called when the application shuts down; in-flight
// acquires are allowed to finish before the pool is destroyed.
func (db *DB) Close() {
	if db.pool == nil {
		return
	}
	db.pool.Close()
}

// HealthCheck verifies the database connection is alive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (db *DB) HealthCheck(ctx context.Context) error {
	checkCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	if err := db.pool.Ping(checkCtx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// Table returns the validated target table name.
func (db *DB) Table() string {
	return db.table
}

// AcquiredConns reports the number of connections currently checked out
// of the pool. Exposed for diagnostics; never exceeds cfg.Pool.MaxConns.
func (db *DB) AcquiredConns() int32 {
	return db.pool.Stat().AcquiredConns()
}

// TotalConns reports the total number of connections currently held by
// the pool, idle and acquired.
func (db *DB) TotalConns() int32 {
	return db.pool.Stat().TotalConns()
}

// connString builds a libpq keyword/value connection string for the
// given database name. Values are single-quoted with backslash escaping
// so hosts and passwords may contain arbitrary characters.
func connString(cfg config.DatabaseConfig, dbname string) string {
	quote := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	pairs := []struct{ k, v string }{
		{"host", cfg.Host},
		{"port", fmt.Sprintf("%d", cfg.Port)},
		{"user", cfg.User},
		{"password", cfg.Password},
		{"dbname", dbname},
		{"sslmode", cfg.SSLMode},
	}

	var b strings.Builder
	for _, p := range pairs {
		if p.v == "" {
			continue
		}
		b.WriteString(p.k)
		b.WriteString("='")
		b.WriteString(quote.Replace(p.v))
		b.WriteString("' ")
	}
	return strings.TrimSpace(b.String())
}
