package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for FleetSim.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Generator GeneratorConfig `yaml:"generator"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DatabaseConfig contains PostgreSQL connection settings.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `yaml:"host"`

	// Port is the PostgreSQL server port.
	Port int `yaml:"port"`

	// User is the database user presented to the server.
	User string `yaml:"user"`

	// Password is the database password. Prefer setting this via
	// the FLEETSIM_DATABASE_PASSWORD environment variable.
	Password string `yaml:"password"`

	// Name is the target database. Created at startup if absent.
	Name string `yaml:"name"`

	// Table is the target table for generated samples.
	// Created at startup if absent.
	Table string `yaml:"table"`

	// AdminDB is the pre-existing administrative database used for the
	// CREATE DATABASE step. The target database may not exist yet, so
	// the bootstrapper must never connect to it directly.
	// Default: "postgres"
	AdminDB string `yaml:"admin_db"`

	// SSLMode is the libpq sslmode value (disable, require, verify-full, ...).
	SSLMode string `yaml:"ssl_mode"`

	// Pool contains connection pool bounds.
	Pool PoolConfig `yaml:"pool"`
}

// PoolConfig contains connection pool bounds.
// The pool enforces a hard upper bound on concurrently open connections;
// acquisition beyond the bound blocks until a connection is released.
type PoolConfig struct {
	// MinConns is the minimum number of idle connections kept open.
	// Must be at least 1.
	MinConns int `yaml:"min_conns"`

	// MaxConns is the maximum number of concurrently open connections.
	MaxConns int `yaml:"max_conns"`
}

// GeneratorConfig contains signal emission cadence settings.
//
// The defaults reproduce the reference cadence: a coarse tick every
// 1-5 seconds, a 10% error probability per tick, and a 100-sample
// power burst at 10ms spacing after each tick.
type GeneratorConfig struct {
	// CoarseTickMinMs is the lower bound of the random coarse-tick interval.
	CoarseTickMinMs int `yaml:"coarse_tick_min_ms"`

	// CoarseTickMaxMs is the upper bound of the random coarse-tick interval.
	CoarseTickMaxMs int `yaml:"coarse_tick_max_ms"`

	// ErrorProbability is the chance of an error sample accompanying
	// each coarse tick. Must be within [0, 1].
	ErrorProbability float64 `yaml:"error_probability"`

	// BurstSize is the number of power samples emitted per burst.
	BurstSize int `yaml:"burst_size"`

	// BurstIntervalMs is the spacing between power samples within a burst.
	BurstIntervalMs int `yaml:"burst_interval_ms"`
}

// MQTTConfig contains settings for the optional status announcer.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// InfluxDBConfig contains settings for the optional generator-stats sink.
type InfluxDBConfig struct {
	Enabled        bool   `yaml:"enabled"`
	URL            string `yaml:"url"`
	Token          string `yaml:"token"`
	Org            string `yaml:"org"`
	Bucket         string `yaml:"bucket"`
	BatchSize      int    `yaml:"batch_size"`
	FlushInterval  int    `yaml:"flush_interval"`
	ReportInterval int    `yaml:"report_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// maxIdentifierLength is the PostgreSQL limit for identifiers (NAMEDATALEN - 1).
const maxIdentifierLength = 63

// identifierPattern matches identifiers that are safe to interpolate into
// DDL/DML. Parameter binding cannot cover identifiers, so the database and
// table names are allow-listed here before any SQL is built from them.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidIdentifier reports whether s is safe to use as a PostgreSQL
// identifier (database or table name) without quoting.
func ValidIdentifier(s string) bool {
	return len(s) <= maxIdentifierLength && identifierPattern.MatchString(s)
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: FLEETSIM_SECTION_KEY
// For example: FLEETSIM_DATABASE_HOST, FLEETSIM_DATABASE_PASSWORD
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			// Host has no default: the connection target must be stated
			// explicitly (file or env) or validation fails.
			Port:    5432,
			AdminDB: "postgres",
			SSLMode: "disable",
			Pool: PoolConfig{
				MinConns: 1,
				MaxConns: 10,
			},
		},
		Generator: GeneratorConfig{
			CoarseTickMinMs:  1000,
			CoarseTickMaxMs:  5000,
			ErrorProbability: 0.1,
			BurstSize:        100,
			BurstIntervalMs:  10,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "fleetsim",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:      100,
			FlushInterval:  10,
			ReportInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: FLEETSIM_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Database
	if v := os.Getenv("FLEETSIM_DATABASE_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("FLEETSIM_DATABASE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		} else {
			// A malformed port must fail validation, not silently
			// fall back to the file value.
			cfg.Database.Port = 0
		}
	}
	if v := os.Getenv("FLEETSIM_DATABASE_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("FLEETSIM_DATABASE_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("FLEETSIM_DATABASE_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("FLEETSIM_DATABASE_TABLE"); v != "" {
		cfg.Database.Table = v
	}

	// MQTT
	if v := os.Getenv("FLEETSIM_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("FLEETSIM_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("FLEETSIM_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Every connection parameter is required; a missing or malformed value
// aborts startup before any generation begins.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Database validation - all connection parameters are required
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		errs = append(errs, "database.port must be between 1 and 65535")
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.Password == "" {
		errs = append(errs, "database.password is required (set FLEETSIM_DATABASE_PASSWORD environment variable)")
	}
	if c.Database.Name == "" {
		errs = append(errs, "database.name is required")
	} else if !ValidIdentifier(c.Database.Name) {
		errs = append(errs, "database.name must be a valid identifier (letters, digits, underscore)")
	}
	if c.Database.Table == "" {
		errs = append(errs, "database.table is required")
	} else if !ValidIdentifier(c.Database.Table) {
		errs = append(errs, "database.table must be a valid identifier (letters, digits, underscore)")
	}
	if c.Database.AdminDB == "" {
		errs = append(errs, "database.admin_db is required")
	} else if !ValidIdentifier(c.Database.AdminDB) {
		errs = append(errs, "database.admin_db must be a valid identifier (letters, digits, underscore)")
	}

	// Pool validation
	if c.Database.Pool.MinConns < 1 {
		errs = append(errs, "database.pool.min_conns must be at least 1")
	}
	if c.Database.Pool.MaxConns < c.Database.Pool.MinConns {
		errs = append(errs, "database.pool.max_conns must be >= database.pool.min_conns")
	}

	// Generator validation
	if c.Generator.CoarseTickMinMs < 0 {
		errs = append(errs, "generator.coarse_tick_min_ms must not be negative")
	}
	if c.Generator.CoarseTickMaxMs < c.Generator.CoarseTickMinMs {
		errs = append(errs, "generator.coarse_tick_max_ms must be >= generator.coarse_tick_min_ms")
	}
	if c.Generator.ErrorProbability < 0 || c.Generator.ErrorProbability > 1 {
		errs = append(errs, "generator.error_probability must be within [0, 1]")
	}
	if c.Generator.BurstSize < 0 {
		errs = append(errs, "generator.burst_size must not be negative")
	}
	if c.Generator.BurstIntervalMs < 0 {
		errs = append(errs, "generator.burst_interval_ms must not be negative")
	}

	// MQTT validation (only when enabled)
	if c.MQTT.Enabled {
		if c.MQTT.Broker.Host == "" {
			errs = append(errs, "mqtt.broker.host is required when mqtt is enabled")
		}
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
	}

	// InfluxDB validation (only when enabled)
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.bucket is required when influxdb is enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// CoarseTickMin returns the lower coarse-tick bound as a Duration.
func (c *GeneratorConfig) CoarseTickMin() time.Duration {
	return time.Duration(c.CoarseTickMinMs) * time.Millisecond
}

// CoarseTickMax returns the upper coarse-tick bound as a Duration.
func (c *GeneratorConfig) CoarseTickMax() time.Duration {
	return time.Duration(c.CoarseTickMaxMs) * time.Millisecond
}

// BurstInterval returns the intra-burst sample spacing as a Duration.
func (c *GeneratorConfig) BurstInterval() time.Duration {
	return time.Duration(c.BurstIntervalMs) * time.Millisecond
}
