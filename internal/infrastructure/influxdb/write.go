package influxdb

import (
	"encoding/json"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// measurementName is the measurement all mirrored points are written to,
// tagged by their series name.
const measurementName = "tsdata"

// WriteSeriesPoint mirrors one committed data point to InfluxDB.
//
// The opaque JSON payload is flattened into InfluxDB fields: top-level
// numeric and boolean members become fields, everything else is skipped
// (InfluxDB fields are scalar). A payload with no usable fields is
// dropped silently. The write is non-blocking; data is batched and sent
// asynchronously.
//
// Parameters:
//   - series: The series name, used as the point's tag
//   - dataTime: The point's timestamp
//   - contents: The opaque JSON payload as stored in tsdata
//
// Example:
//
//	client.WriteSeriesPoint("cpu_load", t, []byte(`{"value": 0.75}`))
func (c *Client) WriteSeriesPoint(series string, dataTime time.Time, contents json.RawMessage) {
	if !c.IsConnected() {
		return
	}

	fields := flattenFields(contents)
	if len(fields) == 0 {
		return
	}

	point := write.NewPoint(
		measurementName,
		map[string]string{
			"series": series,
		},
		fields,
		dataTime,
	)

	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this for measurements that don't fit the series-point shape.
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}

// flattenFields extracts the scalar members of a JSON payload.
//
// A JSON object yields its numeric and boolean top-level members. A bare
// number yields a single "value" field. Strings, arrays, nulls, and
// nested objects are skipped.
func flattenFields(contents json.RawMessage) map[string]interface{} {
	var obj map[string]any
	if err := json.Unmarshal(contents, &obj); err == nil {
		fields := make(map[string]interface{}, len(obj))
		for k, v := range obj {
			switch val := v.(type) {
			case float64:
				fields[k] = val
			case bool:
				fields[k] = val
			}
		}
		return fields
	}

	var num float64
	if err := json.Unmarshal(contents, &num); err == nil {
		return map[string]interface{}{"value": num}
	}

	return nil
}
