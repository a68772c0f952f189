package ingest

import (
	"encoding/json"
	"time"
)

// DataPoint is one persisted row of the tsdata relation.
//
// ID and InsertedTime are store-assigned: ids are unique and strictly
// increasing per store instance, InsertedTime defaults to commit time.
// Rows are never updated after creation.
type DataPoint struct {
	ID           int64           `json:"id"`
	InsertedTime time.Time       `json:"inserted_time"`
	DataTime     time.Time       `json:"data_time"`
	SeriesName   string          `json:"series_name"`
	Contents     json.RawMessage `json:"contents"`
}

// NewDataPoint is a normalized point ready for insertion. DataTime is
// always UTC. SeriesName is carried as submitted; its shape is checked
// by the store's constraint at insert time, not here.
type NewDataPoint struct {
	DataTime   time.Time
	SeriesName string
	Contents   json.RawMessage
}

// PointRequest is the wire shape of a single submitted point, shared by
// the HTTP handlers and the MQTT ingest source. It is ephemeral: it
// exists only for the duration of one request.
type PointRequest struct {
	Series string          `json:"series"`
	Data   json.RawMessage `json:"data"`
	Date   string          `json:"date,omitempty"`
}

// BatchRequest is the wire shape of a batch submission (1-100 points).
type BatchRequest struct {
	DataPoints []PointRequest `json:"data_points"`
}

// Normalize converts a PointRequest into a NewDataPoint.
//
// The date field is parsed per NormalizeDataTime: absent defaults to the
// current time, present-but-unparseable fails with a ParseError. The
// data payload is passed through verbatim.
func (p PointRequest) Normalize() (NewDataPoint, error) {
	dataTime, err := NormalizeDataTime(p.Date)
	if err != nil {
		return NewDataPoint{}, err
	}

	contents := p.Data
	if len(contents) == 0 {
		contents = json.RawMessage("null")
	}

	return NewDataPoint{
		DataTime:   dataTime,
		SeriesName: p.Series,
		Contents:   contents,
	}, nil
}

// Normalize converts a BatchRequest into a slice of NewDataPoint,
// preserving input order. The first unparseable date aborts the whole
// request; batch cardinality is checked later by ValidateBatch.
func (b BatchRequest) Normalize() ([]NewDataPoint, error) {
	points := make([]NewDataPoint, 0, len(b.DataPoints))
	for _, p := range b.DataPoints {
		point, err := p.Normalize()
		if err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	return points, nil
}
