package mqtt

import "fmt"

// Topic prefixes for the ingest service.
//
// The hierarchy is flat: tsingest/{category}[/{detail}].
const (
	// TopicPrefix is the base for all tsingest topics.
	TopicPrefix = "tsingest"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "tsingest/system"
)

// Topics provides builders for the service's MQTT topics.
// Using these helpers keeps topic naming consistent across the codebase.
//
//	topics := mqtt.Topics{}
//	topics.Ingest()      // "tsingest/ingest"
//	topics.IngestBatch() // "tsingest/ingest/batch"
type Topics struct{}

// Ingest returns the topic for single-point ingestion messages.
//
// Payloads use the same shape as POST /insert.
func (Topics) Ingest() string {
	return fmt.Sprintf("%s/ingest", TopicPrefix)
}

// IngestBatch returns the topic for batch ingestion messages.
//
// Payloads use the same shape as POST /insert/batch.
func (Topics) IngestBatch() string {
	return fmt.Sprintf("%s/ingest/batch", TopicPrefix)
}

// IngestRejected returns the topic where rejected ingest messages are
// reported, carrying the structured error that failed them.
func (Topics) IngestRejected() string {
	return fmt.Sprintf("%s/ingest/rejected", TopicPrefix)
}

// SystemStatus returns the topic for service online/offline status.
// Used for both the retained status message and the LWT.
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}
