// Package influxdb provides the optional InfluxDB mirror for the ingest service.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, point writing, and health monitoring.
//
// # Purpose
//
// SQLite remains the durable store of record; this package mirrors
// committed points to InfluxDB so dashboards (Grafana, Chronograf) can
// query them natively. Mirroring is post-commit and non-transactional: a
// down mirror never affects ingestion outcomes, and mirrored data may lag
// the store.
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    Enabled: true,
//	    URL:     "http://localhost:8086",
//	    Token:   "your-token",
//	    Org:     "tsdata",
//	    Bucket:  "tsdata",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteSeriesPoint("cpu_load", time.Now(), []byte(`{"value": 0.75}`))
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are logged via a callback.
// Connection and health check errors are returned directly.
package influxdb
