package database

import (
	"context"
	"fmt"
	"time"

	"github.com/nerrad567/fleetsim/internal/signal"
)

// writeTimeout bounds a single insert statement. The statement context
// is detached from the caller's cancellation, so this is the only thing
// that can interrupt an in-flight write.
const writeTimeout = 10 * time.Second

// WriteSample persists one sample as one row.
//
// Steps: acquire a connection from the pool, execute a parameterized
// insert, release the connection unconditionally. The insert is a
// single autocommitted statement, so a nil return means the row is
// durably committed; there is no batching or deferred flush.
//
// Cancellation semantics: ctx governs the pool wait only. Once a
// connection is held, the statement runs on a detached context so a
// shutdown arriving mid-insert lets the row finish committing rather
// than cancelling it on the wire.
//
// The sample timestamp is stamped at write time when zero. Failures
// (pool exhaustion, connectivity, constraint violation) are returned as
// wrapped ErrWriteFailed for the caller to log; one dropped sample must
// not halt the stream, so the scheduler treats these as diagnostics,
// not control flow.
func (db *DB) WriteSample(ctx context.Context, s signal.Sample) error {
	conn, err := db.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: acquiring connection: %w", ErrWriteFailed, err)
	}
	// Release must run on every path so the connection returns to the
	// pool rather than leaking, success or not.
	defer conn.Release()

	ts := s.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	execCtx, cancel := writeContext(ctx)
	defer cancel()

	if _, err := conn.Exec(execCtx, db.insertSQL, string(s.Type), s.Value, ts); err != nil {
		return fmt.Errorf("%w: inserting %s sample: %w", ErrWriteFailed, s.Type, err)
	}
	return nil
}

// writeContext derives the statement context: detached from the
// caller's cancellation, bounded by writeTimeout. An in-flight insert
// must be allowed to complete during shutdown; a hung server must not
// block shutdown indefinitely.
func writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
}

// insertStatement returns the parameterized insert for the samples
// table. Only the table identifier is interpolated, and only after the
// allow-list check in Connect.
func insertStatement(table string) string {
	return fmt.Sprintf("INSERT INTO %s (signal_type, value, timestamp) VALUES ($1, $2, $3)", table)
}
