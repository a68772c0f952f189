package api

import (
	"encoding/json"
	"net/http"

	"github.com/nerrad567/tsdata-ingest/internal/ingest"
)

// InsertResponse is the success shape for a single-point submission.
type InsertResponse struct {
	Status string `json:"status"`
	ID     int64  `json:"id"`
}

// BatchInsertResponse is the success shape for a batch submission.
// IDs are in the same order as the submitted points.
type BatchInsertResponse struct {
	Status        string  `json:"status"`
	InsertedCount int     `json:"inserted_count"`
	IDs           []int64 `json:"ids"`
}

// handleInsert ingests a single data point.
//
// POST /insert
// Body: {"series": "cpu_load", "data": {...}, "date": "2024-01-15T10:30:00Z"}
//
// The date field is optional and defaults to the current time. A present
// but unparseable date fails the request rather than defaulting.
func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	var req ingest.PointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	point, err := req.Normalize()
	if err != nil {
		s.writeIngestError(w, r, err)
		return
	}

	id, err := s.repo.InsertOne(r.Context(), point)
	if err != nil {
		s.writeIngestError(w, r, err)
		return
	}

	s.mirrorPoints(point)

	writeJSON(w, http.StatusOK, InsertResponse{
		Status: "success",
		ID:     id,
	})
}

// handleInsertBatch ingests 1-100 data points as one atomic unit.
//
// POST /insert/batch
// Body: {"data_points": [{"series": ..., "data": ..., "date": ...}, ...]}
//
// All points share fate: any failure leaves zero rows stored.
func (s *Server) handleInsertBatch(w http.ResponseWriter, r *http.Request) {
	var req ingest.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	points, err := req.Normalize()
	if err != nil {
		s.writeIngestError(w, r, err)
		return
	}

	ids, err := s.repo.InsertBatch(r.Context(), points)
	if err != nil {
		s.writeIngestError(w, r, err)
		return
	}

	s.mirrorPoints(points...)

	writeJSON(w, http.StatusOK, BatchInsertResponse{
		Status:        "success",
		InsertedCount: len(ids),
		IDs:           ids,
	})
}

// mirrorPoints forwards committed points to the mirror, if one is wired.
// Mirror writes are asynchronous fire-and-forget; they cannot fail the
// request that triggered them.
func (s *Server) mirrorPoints(points ...ingest.NewDataPoint) {
	if s.mirror == nil {
		return
	}
	for _, p := range points {
		s.mirror.WriteSeriesPoint(p.SeriesName, p.DataTime, p.Contents)
	}
}
