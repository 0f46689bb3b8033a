package database

import "errors"

// Sentinel errors for database operations.
//
// These errors can be checked using errors.Is() for specific handling:
//
//	if errors.Is(err, database.ErrWriteFailed) {
//	    // Log and continue; a dropped sample must not halt generation
//	}
var (
	// ErrConnectionFailed indicates the pool could not be opened or pinged.
	ErrConnectionFailed = errors.New("database: connection failed")

	// ErrBootstrapFailed indicates database or table creation failed.
	// Bootstrap failure is fatal: generation must not start against an
	// unconfirmed table.
	ErrBootstrapFailed = errors.New("database: bootstrap failed")

	// ErrWriteFailed indicates a single insert failed (pool exhaustion,
	// connectivity, constraint violation). The write gateway isolates
	// this to the one sample; it never propagates past the scheduler's
	// log-and-continue handling.
	ErrWriteFailed = errors.New("database: write failed")

	// ErrInvalidIdentifier indicates a database or table name failed the
	// allow-list check and was refused before reaching any SQL.
	ErrInvalidIdentifier = errors.New("database: invalid identifier")
)
