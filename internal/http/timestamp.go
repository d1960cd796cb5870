package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

var errBadTimestamp = errors.New("unrecognised timestamp")

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp accepts what browsers send for dates: ISO 8601 strings (date-only
// included, read as UTC) or epoch milliseconds. Absent, null and "" yield nil.
func parseTimestamp(raw json.RawMessage) (*time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] != '"' {
		var millis int64
		if err := json.Unmarshal(raw, &millis); err != nil {
			return nil, errBadTimestamp
		}
		t := time.UnixMilli(millis).UTC()
		return &t, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errBadTimestamp
	}
	if s == "" {
		return nil, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, errBadTimestamp
}
