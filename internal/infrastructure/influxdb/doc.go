// Package influxdb provides InfluxDB connectivity for FleetSim.
//
// It wraps the official influxdb-client-go v2 library with FleetSim-specific
// patterns for connection management, stats reporting, and health monitoring.
//
// # Purpose
//
// This package handles FleetSim's self-telemetry:
//   - Generator emission counters (samples persisted per signal class, failures)
//   - Connection pool utilisation
//
// Sample data itself is persisted to PostgreSQL, never here.
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    Enabled: true,
//	    URL:     "http://localhost:8086",
//	    Token:   "your-token",
//	    Org:     "fleetsim",
//	    Bucket:  "telemetry",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Report a stats snapshot
//	client.WriteGeneratorStats(runID, 42, 4, 4200, 0)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are delivered via a
// callback set with SetOnError. Connection and health check errors are
// returned directly.
package influxdb
