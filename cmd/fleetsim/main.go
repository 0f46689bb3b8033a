// FleetSim - Sensor Fleet Data Generator
//
// This is the main entry point for the FleetSim generator. It emits
// three randomised signal streams (state changes, error codes, power
// readings) and persists every sample as one row in PostgreSQL,
// bootstrapping the target database and table on startup.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/fleetsim/internal/generator"
	"github.com/nerrad567/fleetsim/internal/infrastructure/config"
	"github.com/nerrad567/fleetsim/internal/infrastructure/database"
	"github.com/nerrad567/fleetsim/internal/infrastructure/influxdb"
	"github.com/nerrad567/fleetsim/internal/infrastructure/logging"
	"github.com/nerrad567/fleetsim/internal/infrastructure/mqtt"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Run the application
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()

	// runID tags every log line, status message and stats point from
	// this process so overlapping runs can be told apart downstream.
	runID := uuid.NewString()

	log.Info("starting FleetSim",
		"version", version,
		"commit", commit,
		"build_date", date,
		"run_id", runID,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version).With("run_id", runID)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Bootstrap the target database via the admin database. The target
	// may not exist yet; a bootstrap failure means nothing downstream
	// can work, so it is fatal.
	created, err := database.EnsureDatabase(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("bootstrapping database: %w", err)
	}
	if created {
		log.Info("database created", "name", cfg.Database.Name)
	} else {
		log.Info("database already exists", "name", cfg.Database.Name)
	}

	// Open the connection pool against the target database
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() {
		log.Info("closing database pool")
		db.Close()
	}()
	log.Info("database connected",
		"host", cfg.Database.Host,
		"name", cfg.Database.Name,
		"max_conns", cfg.Database.Pool.MaxConns,
	)

	// Ensure the samples table exists (idempotent)
	if err := db.EnsureTable(ctx); err != nil {
		return fmt.Errorf("ensuring samples table: %w", err)
	}
	log.Info("samples table ready", "table", db.Table())

	// Connect to MQTT broker for status announcements (optional)
	if cfg.MQTT.Enabled {
		mqttClient, mqttErr := mqtt.Connect(cfg.MQTT, runID)
		if mqttErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", mqttErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		// Set up MQTT logging callbacks
		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	} else {
		log.Info("MQTT disabled")
	}

	// Create the scheduler before the stats reporter so the reporter
	// can snapshot its counters.
	sched := generator.New(cfg.Generator, db)
	sched.SetLogger(log)

	// Connect to InfluxDB for stats reporting (optional)
	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		// Set up InfluxDB error callback
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})

		go reportStats(ctx, cfg.InfluxDB, influxClient, sched, db, runID)
	} else {
		log.Info("InfluxDB disabled")
	}

	log.Info("initialisation complete, starting signal generation")

	// Run blocks until ctx is cancelled. Cancellation is a clean stop.
	if err := sched.Run(ctx); err != nil {
		return fmt.Errorf("running generator: %w", err)
	}

	stats := sched.Stats()
	log.Info("FleetSim stopped",
		"state_changes", stats.StateChanges,
		"error_codes", stats.ErrorCodes,
		"power_readings", stats.PowerReadings,
		"failed", stats.Failed,
	)
	return nil
}

// getConfigPath returns the configuration file path.
// Uses FLEETSIM_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("FLEETSIM_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// reportStats periodically snapshots the scheduler's emission counters
// and the pool's utilisation and ships them to InfluxDB. Runs until ctx
// is cancelled; a final snapshot is flushed on the way out.
func reportStats(ctx context.Context, cfg config.InfluxDBConfig, client *influxdb.Client, sched *generator.Scheduler, db *database.DB, runID string) {
	interval := time.Duration(cfg.ReportInterval) * time.Second
	if interval <= 0 {
		interval = 10 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			stats := sched.Stats()
			client.WriteGeneratorStats(runID, stats.StateChanges, stats.ErrorCodes, stats.PowerReadings, stats.Failed)
			client.Flush()
			return
		case <-ticker.C:
			stats := sched.Stats()
			client.WriteGeneratorStats(runID, stats.StateChanges, stats.ErrorCodes, stats.PowerReadings, stats.Failed)
			client.WritePoolStats(runID, db.AcquiredConns(), db.TotalConns())
		}
	}
}
