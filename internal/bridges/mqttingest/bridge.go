// Package mqttingest feeds MQTT-published data points into the ingestion
// pipeline.
//
// Collectors that already speak MQTT publish points to tsingest/ingest (or
// batches to tsingest/ingest/batch) using the same JSON shapes as the HTTP
// endpoints. Messages flow through the same normalization and persistence
// path as HTTP requests; there is no separate validation logic.
//
// MQTT has no reply channel per message, so ingestion is fire-and-forget
// from the publisher's point of view. Rejected messages are reported on
// tsingest/ingest/rejected with their structured error, and every failure
// is logged.
package mqttingest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nerrad567/tsdata-ingest/internal/infrastructure/mqtt"
	"github.com/nerrad567/tsdata-ingest/internal/ingest"
)

// MQTTClient is the interface for MQTT operations the bridge needs.
// This allows mocking in tests and flexibility in implementation.
type MQTTClient interface {
	// Subscribe registers a handler for a topic pattern.
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error

	// Publish sends a message to a topic.
	Publish(topic string, payload []byte, qos byte, retained bool) error

	// IsConnected returns true if connected to the broker.
	IsConnected() bool
}

// Logger is the subset of logging used by the bridge.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// rejection is the payload published for messages that failed ingestion.
type rejection struct {
	Topic string `json:"topic"`
	Error string `json:"error"`
}

// Bridge subscribes to the ingest topics and persists received points.
//
// Thread Safety: All methods are safe for concurrent use; the paho library
// invokes handlers from multiple goroutines.
type Bridge struct {
	mqtt   MQTTClient
	repo   ingest.Repository
	logger Logger
	qos    byte

	// counters for monitoring
	ingested uint64
	rejected uint64
	statMu   sync.Mutex
}

// Options holds configuration for creating a bridge.
type Options struct {
	// MQTTClient is the MQTT client implementation.
	MQTTClient MQTTClient

	// Repo is the ingestion repository.
	Repo ingest.Repository

	// Logger is optional structured logger.
	Logger Logger

	// QoS is the subscription QoS level.
	QoS byte
}

// New creates a new bridge instance. Call Start() to begin operation.
func New(opts Options) (*Bridge, error) {
	if opts.MQTTClient == nil {
		return nil, fmt.Errorf("MQTT client is required")
	}
	if opts.Repo == nil {
		return nil, fmt.Errorf("ingest repository is required")
	}

	return &Bridge{
		mqtt:   opts.MQTTClient,
		repo:   opts.Repo,
		logger: opts.Logger,
		qos:    opts.QoS,
	}, nil
}

// Start subscribes to the ingest topics. The subscriptions remain active
// until the MQTT client disconnects; the client restores them on reconnect.
func (b *Bridge) Start(ctx context.Context) error {
	topics := mqtt.Topics{}

	if err := b.mqtt.Subscribe(topics.Ingest(), b.qos, func(topic string, payload []byte) error {
		return b.handlePoint(ctx, topic, payload)
	}); err != nil {
		return fmt.Errorf("subscribing to %s: %w", topics.Ingest(), err)
	}

	if err := b.mqtt.Subscribe(topics.IngestBatch(), b.qos, func(topic string, payload []byte) error {
		return b.handleBatch(ctx, topic, payload)
	}); err != nil {
		return fmt.Errorf("subscribing to %s: %w", topics.IngestBatch(), err)
	}

	if b.logger != nil {
		b.logger.Info("MQTT ingest bridge started",
			"topics", []string{topics.Ingest(), topics.IngestBatch()},
		)
	}
	return nil
}

// handlePoint ingests a single point message.
func (b *Bridge) handlePoint(ctx context.Context, topic string, payload []byte) error {
	var req ingest.PointRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		b.reject(topic, fmt.Errorf("invalid JSON payload: %w", err))
		return nil
	}

	point, err := req.Normalize()
	if err != nil {
		b.reject(topic, err)
		return nil
	}

	id, err := b.repo.InsertOne(ctx, point)
	if err != nil {
		b.reject(topic, err)
		return nil
	}

	b.statMu.Lock()
	b.ingested++
	b.statMu.Unlock()

	if b.logger != nil {
		b.logger.Info("ingested point from MQTT", "series", req.Series, "id", id)
	}
	return nil
}

// handleBatch ingests a batch message.
func (b *Bridge) handleBatch(ctx context.Context, topic string, payload []byte) error {
	var req ingest.BatchRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		b.reject(topic, fmt.Errorf("invalid JSON payload: %w", err))
		return nil
	}

	points, err := req.Normalize()
	if err != nil {
		b.reject(topic, err)
		return nil
	}

	ids, err := b.repo.InsertBatch(ctx, points)
	if err != nil {
		b.reject(topic, err)
		return nil
	}

	b.statMu.Lock()
	b.ingested += uint64(len(ids))
	b.statMu.Unlock()

	if b.logger != nil {
		b.logger.Info("ingested batch from MQTT", "count", len(ids))
	}
	return nil
}

// reject logs a failed message and reports it on the rejected topic.
// Publish failures here are logged and dropped rather than retried; the
// rejection report is advisory.
func (b *Bridge) reject(topic string, cause error) {
	b.statMu.Lock()
	b.rejected++
	b.statMu.Unlock()

	if b.logger != nil {
		b.logger.Warn("MQTT ingest message rejected", "topic", topic, "error", cause)
	}

	payload, err := json.Marshal(rejection{Topic: topic, Error: cause.Error()})
	if err != nil {
		return
	}
	if err := b.mqtt.Publish(mqtt.Topics{}.IngestRejected(), payload, 0, false); err != nil {
		if b.logger != nil {
			b.logger.Warn("failed to publish rejection report", "error", err)
		}
	}
}

// Stats returns the number of ingested points and rejected messages.
func (b *Bridge) Stats() (ingested, rejected uint64) {
	b.statMu.Lock()
	defer b.statMu.Unlock()
	return b.ingested, b.rejected
}
