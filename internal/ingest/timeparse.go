package ingest

import "time"

// Accepted timestamp layouts, tried in order.
const (
	// layoutDateTime is a timezone-naive timestamp, interpreted as UTC.
	layoutDateTime = "2006-01-02 15:04:05"

	// layoutDateOnly is a bare date, interpreted as UTC midnight.
	layoutDateOnly = "2006-01-02"
)

// ParseDataTime parses a timestamp string into a UTC instant.
//
// Formats are tried in order, first match wins:
//  1. RFC 3339 with a required offset or Z, converted to UTC
//  2. "2006-01-02 15:04:05", already UTC
//  3. "2006-01-02", UTC midnight of that date
//
// If none match, a ParseError carrying the original string is returned;
// a malformed-but-present string never falls back to a default.
func ParseDataTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(layoutDateTime, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(layoutDateOnly, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, &ParseError{Input: raw}
}

// NormalizeDataTime resolves an optional timestamp string to a UTC instant.
// An empty string defaults to the current time at the moment of the call.
// Pure function of its input and the clock; no side effects.
func NormalizeDataTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	return ParseDataTime(raw)
}
