package repository

import (
	"fmt"
	"time"
)

// SQLite TIMESTAMP format "YYYY-MM-DD HH:MM:SS", always UTC.
const timestampLayout = "2006-01-02 15:04:05"

// parseTimestamp accepts whatever the driver hands back for a TIMESTAMP column.
func parseTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		return parseTimestampString(t)
	case []byte:
		return parseTimestampString(string(t))
	case int64:
		return time.Unix(t, 0).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp value %T", v)
	}
}

func parseTimestampString(s string) (time.Time, error) {
	for _, layout := range []string{timestampLayout, time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
