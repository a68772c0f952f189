// Package api implements the HTTP ingestion boundary for the tsdata service.
//
// This package provides:
//   - POST /insert for single-point ingestion
//   - POST /insert/batch for atomic 1-100 point batches
//   - GET /health with an optional storage probe
//   - Middleware stack (request ID, logging, recovery, CORS, body size limit)
//
// # Architecture
//
// Handlers decode the wire shapes from the ingest package, normalize them,
// and hand the result to the ingestion repository, which owns the whole
// transaction. Taxonomy errors coming back from the repository are mapped
// to response codes in exactly one place (writeIngestError): validation,
// parse, and constraint failures are client errors carrying their specific
// message; connection and storage failures are server errors with generic
// messages and full diagnostics in the logs.
//
// # Graceful Degradation
//
// The optional mirror receives post-commit copies of ingested points for
// dashboarding. It is fire-and-forget: a down mirror never fails a request.
package api
