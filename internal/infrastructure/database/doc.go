// Package database provides PostgreSQL connectivity for FleetSim.
//
// This package manages:
//   - Schema bootstrap (database and table creation, idempotent)
//   - A bounded pgx connection pool shared by all writers
//   - The write gateway that persists one sample per row
//
// Security Considerations:
//   - All sample values are bound as parameters (no SQL injection)
//   - Database and table identifiers cannot be parameterized, so they
//     are allow-listed (config.ValidIdentifier) before interpolation
//   - Credentials are escaped into the libpq connection string
//
// Bootstrap Strategy:
//
// Database creation connects to the administrative database in
// autocommit mode, since CREATE DATABASE cannot run inside a
// transaction and the target database may not exist yet. Both the
// database and table steps are idempotent, and either failing is fatal:
// generation never starts against an unconfirmed table.
//
// Usage:
//
//	created, err := database.EnsureDatabase(ctx, cfg.Database)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	db, err := database.Connect(ctx, cfg.Database)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.EnsureTable(ctx); err != nil {
//	    log.Fatal(err)
//	}
package database
