// Package ingest implements the core ingestion pipeline for timestamped
// series data points.
//
// The pipeline, in order:
//  1. Request normalization - multi-format date parsing with defaulting
//     (PointRequest.Normalize, NormalizeDataTime)
//  2. Batch policy - cardinality limits, enforced before any transaction
//     (ValidateBatch)
//  3. Transactional persistence - single or bulk row insert
//  4. Per-series view materialization - the tsdata_<series> view is
//     (re)defined in the same transaction, after the insert
//  5. Error translation - storage failures become a stable taxonomy
//     (Translate)
//
// A request moves through Received -> Normalized -> Validated ->
// Inserting -> ViewSync -> Committed; any failure after normalization
// aborts the whole transaction, so no partial commit is reachable.
//
// The series-name shape rule (^[a-z0-9_]+$) is enforced exclusively by
// the store's CHECK constraint. The insert-then-view ordering inside one
// transaction is what lets view DDL embed the name textually: the
// ValidatedSeries type witnesses that ordering and cannot be built from
// raw input.
package ingest
