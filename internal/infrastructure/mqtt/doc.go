// Package mqtt provides MQTT client connectivity for the ingest service.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// MQTT is an optional second ingestion path alongside HTTP: collectors that
// already speak MQTT publish points to tsingest/ingest instead of POSTing
// them. The bridges/mqttingest package consumes those messages and feeds
// them through the same normalization and persistence path as the HTTP
// handlers.
//
//	Collectors → MQTT Broker → tsingest → SQLite
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.Ingest(), 1,
//	    func(topic string, payload []byte) error {
//	        return handlePoint(payload)
//	    })
package mqtt
