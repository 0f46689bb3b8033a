//go:build integration

package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/nerrad567/fleetsim/internal/infrastructure/config"
	"github.com/nerrad567/fleetsim/internal/signal"
)

// Integration tests for the bootstrap and write path.
// These tests require a PostgreSQL server at 127.0.0.1:5432 with a
// superuser role "postgres"/"postgres".
//
// Run with:
//   go test -tags=integration -v ./internal/infrastructure/database/...

func integrationConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()
	return config.DatabaseConfig{
		Host:     "127.0.0.1",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Name:     fmt.Sprintf("fleetsim_it_%d", time.Now().UnixNano()),
		Table:    "samples",
		AdminDB:  "postgres",
		SSLMode:  "disable",
		Pool:     config.PoolConfig{MinConns: 1, MaxConns: 10},
	}
}

func TestIntegration_BootstrapIsIdempotent(t *testing.T) {
	ctx := context.Background()
	cfg := integrationConfig(t)

	created, err := EnsureDatabase(ctx, cfg)
	if err != nil {
		t.Fatalf("EnsureDatabase() error = %v", err)
	}
	if !created {
		t.Error("EnsureDatabase() created = false, want true on first run")
	}

	// Second run: no error, no duplicate
	created, err = EnsureDatabase(ctx, cfg)
	if err != nil {
		t.Fatalf("EnsureDatabase() second run error = %v", err)
	}
	if created {
		t.Error("EnsureDatabase() created = true, want false on second run")
	}

	db, err := Connect(ctx, cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer db.Close()

	if err := db.EnsureTable(ctx); err != nil {
		t.Fatalf("EnsureTable() error = %v", err)
	}
	if err := db.EnsureTable(ctx); err != nil {
		t.Fatalf("EnsureTable() second run error = %v", err)
	}
}

func TestIntegration_WriteSamplePersistsOneRow(t *testing.T) {
	ctx := context.Background()
	cfg := integrationConfig(t)

	if _, err := EnsureDatabase(ctx, cfg); err != nil {
		t.Fatalf("EnsureDatabase() error = %v", err)
	}

	db, err := Connect(ctx, cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer db.Close()

	if err := db.EnsureTable(ctx); err != nil {
		t.Fatalf("EnsureTable() error = %v", err)
	}

	if err := db.WriteSample(ctx, signal.Sample{Type: signal.TypePower, Value: 240.5}); err != nil {
		t.Fatalf("WriteSample() error = %v", err)
	}

	conn, err := db.pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer conn.Release()

	var count int
	if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM samples WHERE signal_type = 'power'").Scan(&count); err != nil {
		t.Fatalf("counting rows: %v", err)
	}
	if count != 1 {
		t.Errorf("row count = %d, want 1", count)
	}
}

func TestIntegration_PoolBoundHolds(t *testing.T) {
	ctx := context.Background()
	cfg := integrationConfig(t)
	cfg.Pool.MaxConns = 3

	if _, err := EnsureDatabase(ctx, cfg); err != nil {
		t.Fatalf("EnsureDatabase() error = %v", err)
	}

	db, err := Connect(ctx, cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer db.Close()

	if err := db.EnsureTable(ctx); err != nil {
		t.Fatalf("EnsureTable() error = %v", err)
	}

	// Hammer the write path from more goroutines than the pool allows
	// and verify the hard bound is never exceeded.
	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 20; j++ {
				_ = db.WriteSample(ctx, signal.Sample{Type: signal.TypePower, Value: 300})
			}
		}()
	}

	deadline := time.After(30 * time.Second)
	for i := 0; i < 10; {
		if n := db.AcquiredConns(); n > 3 {
			t.Fatalf("AcquiredConns() = %d, exceeds pool bound 3", n)
		}
		select {
		case <-done:
			i++
		case <-deadline:
			t.Fatal("timed out waiting for writers")
		default:
		}
	}

	// All writers finished: every acquire must have been matched by a release.
	if n := db.AcquiredConns(); n != 0 {
		t.Errorf("AcquiredConns() = %d after writers finished, want 0 (leak)", n)
	}
}
