package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestRun_InvalidConfig verifies run fails with invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	originalEnv := os.Getenv("FLEETSIM_CONFIG")
	defer os.Setenv("FLEETSIM_CONFIG", originalEnv)

	os.Setenv("FLEETSIM_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestRun_InvalidTableName verifies run fails validation before touching
// the network when the configured table name is not a safe identifier.
func TestRun_InvalidTableName(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `
database:
  host: "127.0.0.1"
  port: 5432
  user: "postgres"
  password: "postgres"
  name: "fleet"
  table: "samples; DROP TABLE samples"
  admin_db: "postgres"
  ssl_mode: "disable"
  pool:
    min_conns: 1
    max_conns: 5

mqtt:
  enabled: false

influxdb:
  enabled: false

logging:
  level: info
  format: text
  output: stdout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("FLEETSIM_CONFIG")
	defer os.Setenv("FLEETSIM_CONFIG", originalEnv)
	os.Setenv("FLEETSIM_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with unsafe table name")
	}
}

// TestRun_DatabaseUnreachable verifies a bootstrap failure is fatal.
func TestRun_DatabaseUnreachable(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `
database:
  host: "127.0.0.1"
  port: 1
  user: "postgres"
  password: "postgres"
  name: "fleet"
  table: "samples"
  admin_db: "postgres"
  ssl_mode: "disable"
  pool:
    min_conns: 1
    max_conns: 5

mqtt:
  enabled: false

influxdb:
  enabled: false

logging:
  level: info
  format: text
  output: stdout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("FLEETSIM_CONFIG")
	defer os.Setenv("FLEETSIM_CONFIG", originalEnv)
	os.Setenv("FLEETSIM_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail when the database is unreachable")
	}
}

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	originalEnv := os.Getenv("FLEETSIM_CONFIG")
	defer os.Setenv("FLEETSIM_CONFIG", originalEnv)

	os.Unsetenv("FLEETSIM_CONFIG")

	path := getConfigPath()
	if path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	originalEnv := os.Getenv("FLEETSIM_CONFIG")
	defer os.Setenv("FLEETSIM_CONFIG", originalEnv)

	expected := "/custom/path/config.yaml"
	os.Setenv("FLEETSIM_CONFIG", expected)

	path := getConfigPath()
	if path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}
