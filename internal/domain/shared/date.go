package shared

import (
	"strings"
	"time"
)

// DateLayout is the date-only wire format used by UI payloads.
const DateLayout = "2006-01-02"

// ParseDate parses a date-only or RFC3339 value. Empty input yields nil
// without error; anything unparseable is a validation error.
func ParseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	return nil, NewValidationErrorf("Invalid date %q, expected YYYY-MM-DD", raw)
}

// EndOfDay returns the last instant of t's calendar day. Used to make
// date-only upper bounds inclusive against timestamp columns.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// FormatDate renders a nullable time as a date-only string, empty when nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
