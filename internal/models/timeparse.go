package models

import (
	"fmt"
	"time"
)

// ParseDate accepts the two wire timestamp forms: an ISO-8601 string or an
// epoch-milliseconds number.
func ParseDate(v any) (time.Time, error) {
	switch t := v.(type) {
	case string:
		ts, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", t, err)
		}
		return ts.UTC(), nil
	case int64:
		return time.UnixMilli(t).UTC(), nil
	case float64:
		return time.UnixMilli(int64(t)).UTC(), nil
	case int:
		return time.UnixMilli(int64(t)).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("invalid timestamp type %T", v)
	}
}

// FormatDate renders a timestamp in the wire's ISO-8601 form.
func FormatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
