// Package mqtt provides the optional status announcer for FleetSim.
//
// It wraps paho.mqtt.golang with connection management, automatic
// reconnection with exponential backoff, and retained presence messages
// so consumers can track whether the generator process is alive.
//
// # Status Topic
//
// The generator announces itself on a single retained topic:
//
//	fleetsim/status
//
// Three payloads flow through it, all JSON with status, client_id,
// run_id and timestamp fields:
//
//   - online: published on every (re)connect
//   - offline with reason graceful_shutdown: published by Close
//   - offline with reason unexpected_disconnect: the broker's Last Will,
//     delivered when the generator crashes or loses its connection
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT, runID)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
package mqtt
