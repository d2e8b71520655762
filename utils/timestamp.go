package utils

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ParseTimestamp accepts RFC 3339 timestamps or plain YYYY-MM-DD dates,
// which are read as midnight UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q: want RFC 3339 or YYYY-MM-DD", raw)
}

// ParseOptionalTimestamp returns nil for an empty input.
func ParseOptionalTimestamp(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := ParseTimestamp(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// EndOfDay widens a date-only upper bound to cover the whole day.
func EndOfDay(raw string, t time.Time) time.Time {
	if len(strings.TrimSpace(raw)) == len(DateLayout) {
		return t.Add(24*time.Hour - time.Nanosecond)
	}
	return t
}
