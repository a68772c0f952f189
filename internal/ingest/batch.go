package ingest

// MaxBatchSize is the maximum number of points accepted in one batch.
// The cap bounds worst-case transaction duration and lock footprint per
// request.
const MaxBatchSize = 100

// Batch rejection messages. These are part of the API contract and must
// stay stable.
const (
	msgBatchEmpty    = "batch cannot be empty"
	msgBatchTooLarge = "batch size cannot exceed 100 data points"
)

// ValidateBatch accepts or rejects a candidate batch before any storage
// interaction. Batches of 1 to MaxBatchSize points pass unchanged; empty
// or oversized batches fail with a ValidationError. Pure, no side effects.
func ValidateBatch(points []NewDataPoint) error {
	if len(points) == 0 {
		return &ValidationError{Message: msgBatchEmpty}
	}
	if len(points) > MaxBatchSize {
		return &ValidationError{Message: msgBatchTooLarge}
	}
	return nil
}
