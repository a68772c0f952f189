package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/tsdata-ingest/internal/ingest"
)

// ErrorResponse is the structured shape of every failure response.
type ErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// Generic server-error messages. Internal diagnostics (pool state, file
// paths, driver errors) go to logs only, never to the caller.
const (
	msgConnectionUnavailable = "failed to acquire database connection"
	msgStorageFailure        = "failed to store data point"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		Status: "error",
		Error:  message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, message)
}

// writeIngestError maps a taxonomy error from the ingestion core to an
// HTTP response. Client-error kinds carry their specific message; server
// errors get a generic one.
func (s *Server) writeIngestError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *ingest.ValidationError
		parseErr      *ingest.ParseError
		constraintErr *ingest.ConstraintError
		connErr       *ingest.ConnectionError
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &parseErr):
		writeBadRequest(w, err.Error())

	case errors.As(err, &constraintErr):
		// The store is the sole enforcer of the series-name shape rule,
		// so its diagnostic is passed through as-is.
		writeBadRequest(w, constraintErr.Message)

	case errors.As(err, &connErr):
		s.logger.Error("database connection failure",
			"error", err,
			"path", r.URL.Path,
		)
		writeError(w, http.StatusInternalServerError, msgConnectionUnavailable)

	default:
		s.logger.Error("storage failure",
			"error", err,
			"path", r.URL.Path,
		)
		writeError(w, http.StatusInternalServerError, msgStorageFailure)
	}
}
